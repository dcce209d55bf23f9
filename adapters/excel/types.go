package excel

import "funnelscope/domain/dataset"

// RawRowData represents a row of raw data as header to cell text
type RawRowData = dataset.RawRow

// Format names the reader path a file went through
type Format string

const (
	FormatDelimited Format = "delimited"
	FormatWorkbook  Format = "workbook"
)

// ExcelData represents one table read from a file
type ExcelData struct {
	Headers   []string     // Column headers, cleaned and unique
	Rows      []RawRowData // Data rows
	Format    Format
	SheetName string // workbook sheet the rows came from
}

// Table returns the data as an untyped table for inference.
func (d *ExcelData) Table() dataset.RawTable {
	return dataset.RawTable{Headers: d.Headers, Rows: d.Rows}
}
