// Package validation reports problems with finished import results. It never
// fails an import; callers display the messages.
package validation

import (
	"fmt"

	"funnelscope/domain/dataset"
	"funnelscope/domain/funnel"
)

// ValidateDataset checks a generic import. An empty dataset or one without
// columns is invalid; each entirely null column adds a warning.
func ValidateDataset(ds *dataset.Dataset) dataset.ValidationResult {
	res := dataset.ValidationResult{Valid: true, Errors: []string{}, Warnings: []string{}}
	if ds == nil {
		res.Valid = false
		res.Errors = append(res.Errors, "dataset is missing")
		return res
	}

	if ds.RowCount == 0 {
		res.Errors = append(res.Errors, "dataset has no rows")
	}
	if len(ds.Columns) == 0 {
		res.Errors = append(res.Errors, "dataset has no columns")
	}
	if len(res.Errors) > 0 {
		res.Valid = false
		return res
	}

	for _, col := range ds.Columns {
		if len(col.Samples) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("column %q has no values", col.Name))
		}
	}
	return res
}

// ValidateFunnel flags rows whose figures disagree with each other. The
// table is always valid; every finding is a warning.
func ValidateFunnel(t *funnel.Table) dataset.ValidationResult {
	res := dataset.ValidationResult{Valid: true, Errors: []string{}, Warnings: []string{}}
	if t == nil || len(t.Rows) == 0 {
		res.Valid = false
		res.Errors = append(res.Errors, "funnel has no rows")
		return res
	}

	for i, r := range t.Rows {
		label := fmt.Sprintf("row %d (%s)", i+1, r.Step)
		if r.Abandonments > r.ActiveUsers {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s: %d abandonments exceed %d active users", label, r.Abandonments, r.ActiveUsers))
		}
		if r.CompletionRate > 100 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s: completion rate %.1f%% is above 100%%", label, r.CompletionRate))
		}
		if r.AbandonmentRate > 100 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s: abandonment rate %.1f%% is above 100%%", label, r.AbandonmentRate))
		}
	}
	return res
}
