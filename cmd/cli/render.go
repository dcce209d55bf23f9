package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"funnelscope/domain/dataset"
	domain "funnelscope/domain/funnel"
	"funnelscope/internal/display"
)

// renderFunnel lays out funnel rows with display units. Segment and country
// columns appear only when the table has them.
func renderFunnel(ft *domain.Table) string {
	hasSegment, hasCountry := false, false
	for _, r := range ft.Rows {
		hasSegment = hasSegment || r.Segment != ""
		hasCountry = hasCountry || r.Country != ""
	}

	header := table.Row{"Step"}
	if hasSegment {
		header = append(header, "Segment")
	}
	if hasCountry {
		header = append(header, "Country")
	}
	header = append(header, "Elapsed time", "Active users", "Completion rate", "Abandonments", "Abandonment rate")

	t := table.NewWriter()
	t.AppendHeader(header)
	for _, r := range ft.Rows {
		row := table.Row{r.Step}
		if hasSegment {
			row = append(row, r.Segment)
		}
		if hasCountry {
			row = append(row, r.Country)
		}
		row = append(row,
			display.Format(domain.KeyElapsedTime, r.ElapsedSeconds),
			display.Format(domain.KeyActiveUsers, r.ActiveUsers),
			display.Format(domain.KeyCompletionRate, r.CompletionRate),
			display.Format(domain.KeyAbandonments, r.Abandonments),
			display.Format(domain.KeyAbandonmentRate, r.AbandonmentRate),
		)
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// renderColumns summarizes inferred columns, one row each.
func renderColumns(ds *dataset.Dataset) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Type", "Nulls", "Distinct", "Min", "Max", "Mean", "Samples"})
	for _, col := range ds.Columns {
		samples := make([]string, 0, len(col.Samples))
		for _, v := range col.Samples {
			samples = append(samples, display.Format(col.Name, v))
		}
		t.AppendRow(table.Row{
			col.Name,
			string(col.Type),
			col.Stats.Nulls,
			col.Stats.Distinct,
			stat(col.Stats.Min),
			stat(col.Stats.Max),
			stat(col.Stats.Mean),
			strings.Join(samples, ", "),
		})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func stat(v *float64) string {
	if v == nil {
		return ""
	}
	return display.Format("", *v)
}

func printFindings(w io.Writer, v dataset.ValidationResult) {
	for _, e := range v.Errors {
		fmt.Fprintf(w, "error: %s\n", e)
	}
	for _, msg := range v.Warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
}
