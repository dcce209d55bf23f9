// Package testkit builds synthetic analytics exports for tests.
package testkit

import (
	"strings"
)

// StandardHeader is the column layout of a funnel-exploration export.
var StandardHeader = []string{
	"Step", "Segment", "Elapsed time", "Active users",
	"Completion rate", "Abandonments", "Abandonment rate",
}

// ExportBuilder assembles an export document line by line.
type ExportBuilder struct {
	lines []string
	delim string
}

// NewExportBuilder returns a comma-delimited builder.
func NewExportBuilder() *ExportBuilder {
	return &ExportBuilder{delim: ","}
}

// WithDelimiter switches the field delimiter for subsequent lines.
func (b *ExportBuilder) WithDelimiter(delim string) *ExportBuilder {
	b.delim = delim
	return b
}

// Preamble writes the metadata block analytics tools put above the data.
// The funnel name lands on the third line.
func (b *ExportBuilder) Preamble(name string) *ExportBuilder {
	b.lines = append(b.lines,
		"# ----------------------------------------",
		"# Funnel exploration",
		"# "+name+"-funnel",
		"# Start date: 20240101",
		"# End date: 20240131",
		"# ----------------------------------------",
	)
	return b
}

// Comment appends a "# text" line.
func (b *ExportBuilder) Comment(text string) *ExportBuilder {
	b.lines = append(b.lines, "# "+text)
	return b
}

// Header appends a header line; no arguments means StandardHeader.
func (b *ExportBuilder) Header(cols ...string) *ExportBuilder {
	if len(cols) == 0 {
		cols = StandardHeader
	}
	return b.Row(cols...)
}

// Row appends one data line. Cells holding the delimiter or a quote are quoted.
func (b *ExportBuilder) Row(cells ...string) *ExportBuilder {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		if strings.Contains(c, b.delim) || strings.Contains(c, `"`) {
			c = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		}
		quoted[i] = c
	}
	b.lines = append(b.lines, strings.Join(quoted, b.delim))
	return b
}

// Blank appends an empty line.
func (b *ExportBuilder) Blank() *ExportBuilder {
	b.lines = append(b.lines, "")
	return b
}

// Raw appends a line verbatim.
func (b *ExportBuilder) Raw(line string) *ExportBuilder {
	b.lines = append(b.lines, line)
	return b
}

// Lines returns a copy of the lines written so far.
func (b *ExportBuilder) Lines() []string {
	return append([]string(nil), b.lines...)
}

// String joins the document with LF line endings.
func (b *ExportBuilder) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}

// Bytes is String as a byte slice.
func (b *ExportBuilder) Bytes() []byte {
	return []byte(b.String())
}
