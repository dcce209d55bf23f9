// Package dataset describes the typed table produced by the generic import path.
package dataset

// RawRow maps a source header to its untyped cell text.
type RawRow map[string]string

// RawTable is delimiter-split data before type inference. Headers keep
// source order.
type RawTable struct {
	Headers []string
	Rows    []RawRow
}

// ColumnStats are computed over every parsed cell of a column.
// The numeric fields are set for number columns only; Mean is rounded to
// two decimals.
type ColumnStats struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Mean     *float64 `json:"mean,omitempty"`
	Median   *float64 `json:"median,omitempty"`
	StdDev   *float64 `json:"std_dev,omitempty"`
	Distinct int      `json:"distinct"`
	Nulls    int      `json:"nulls"`
}

// Column describes one source column after type inference.
type Column struct {
	Name    string      `json:"name"`
	Type    ColumnType  `json:"type"`
	Samples []Value     `json:"samples"`
	Stats   ColumnStats `json:"stats"`
}

// Record maps column name to its coerced value.
type Record map[string]Value

// Dataset is the result of a generic import. It is built once and not
// modified afterwards.
type Dataset struct {
	Name     string   `json:"name"`
	RowCount int      `json:"row_count"`
	Columns  []Column `json:"columns"`
	Records  []Record `json:"records"`
}

// Column returns the named column descriptor.
func (d *Dataset) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns column names in source order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// ValidationResult is the non-fatal verdict on a finished Dataset.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// HasWarnings reports whether any column produced a warning.
func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}
