package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"funnelscope/domain/core"
	"funnelscope/domain/dataset"
	"funnelscope/internal"
	"funnelscope/internal/delimited"
)

var (
	delimitedExtensions = map[string]bool{".csv": true, ".tsv": true, ".tab": true, ".txt": true}
	workbookExtensions  = map[string]bool{".xlsx": true, ".xlsm": true, ".xltx": true, ".xltm": true}
)

// IsSupported reports whether a file name has an extension one of the reader
// paths accepts.
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return delimitedExtensions[ext] || workbookExtensions[ext]
}

// DataReader handles reading workbook and delimited text files
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a reader for both workbook and delimited files
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{config: config, logger: logger}
}

// ParseTable implements ports.TableReader.
func (r *DataReader) ParseTable(filename string, content []byte) (*dataset.RawTable, error) {
	data, err := r.ReadData(filename, content)
	if err != nil {
		return nil, err
	}
	t := data.Table()
	return &t, nil
}

// ReadData reads file content as headers plus rows. The first non-blank line
// or sheet row is the header.
func (r *DataReader) ReadData(filename string, content []byte) (*ExcelData, error) {
	if err := r.checkSize(filename, len(content)); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case delimitedExtensions[ext]:
		return r.readDelimitedData(filename, content)
	case workbookExtensions[ext]:
		return r.readExcelData(filename, content)
	}
	return nil, core.NewUnsupportedFormatError(filename, ext)
}

// ReadDocument returns the file as delimited text for the funnel path. A
// workbook's sheet is rendered as comma-separated text.
func (r *DataReader) ReadDocument(filename string, content []byte) (string, rune, error) {
	if err := r.checkSize(filename, len(content)); err != nil {
		return "", 0, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case delimitedExtensions[ext]:
		text, err := delimited.DecodeText(content)
		if err != nil {
			return "", 0, core.NewReadError(filename, err)
		}
		return text, delimited.DelimiterFor(ext, r.config.Delimiter), nil
	case workbookExtensions[ext]:
		rows, _, err := r.sheetRows(filename, content)
		if err != nil {
			return "", 0, err
		}
		text, err := rowsToCSV(rows)
		if err != nil {
			return "", 0, core.NewReadError(filename, err)
		}
		return text, ',', nil
	}
	return "", 0, core.NewUnsupportedFormatError(filename, ext)
}

// LoadFile reads a supported file from disk.
func (r *DataReader) LoadFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !IsSupported(filePath) {
		return nil, core.NewUnsupportedFormatError(filepath.Base(filePath), strings.ToLower(filepath.Ext(filePath)))
	}
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, core.NewReadError(filePath, err)
	}
	return content, nil
}

func (r *DataReader) checkSize(filename string, n int) error {
	if r.config.MaxBytes > 0 && int64(n) > r.config.MaxBytes {
		return core.NewReadError(filename, fmt.Errorf("file is %d bytes, limit is %d", n, r.config.MaxBytes))
	}
	return nil
}

// readExcelData reads the configured sheet, the first one by default
func (r *DataReader) readExcelData(filename string, content []byte) (*ExcelData, error) {
	rows, sheet, err := r.sheetRows(filename, content)
	if err != nil {
		return nil, err
	}
	data := r.processRows(rows)
	data.Format = FormatWorkbook
	data.SheetName = sheet
	r.logger.Debug("[DataReader] %s sheet %q processed (%d columns, %d rows)", filename, sheet, len(data.Headers), len(data.Rows))
	return data, nil
}

func (r *DataReader) sheetRows(filename string, content []byte) ([][]string, string, error) {
	start := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, "", core.NewReadError(filename, err)
	}
	defer f.Close()

	sheet := r.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, "", fmt.Errorf("%w: %s has no sheets", core.ErrEmptyInput, filename)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, "", core.NewReadError(filename, fmt.Errorf("sheet %q: %w", sheet, err))
	}
	r.logger.Trace("[DataReader] %s sheet %q read in %.2fms (%d rows)", filename, sheet,
		float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	if isEmptySheet(rows) {
		return nil, "", fmt.Errorf("%w: %s sheet %q", core.ErrEmptyInput, filename, sheet)
	}
	return rows, sheet, nil
}

// readDelimitedData tokenizes CSV/TSV text line by line
func (r *DataReader) readDelimitedData(filename string, content []byte) (*ExcelData, error) {
	text, err := delimited.DecodeText(content)
	if err != nil {
		return nil, core.NewReadError(filename, err)
	}
	if delimited.IsEmptyDocument(text) {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptyInput, filename)
	}

	delim := delimited.DelimiterFor(filepath.Ext(filename), r.config.Delimiter)
	var rows [][]string
	for _, line := range delimited.SplitLines(text) {
		fields := delimited.SplitLine(line, delim)
		if delimited.IsBlank(fields) {
			continue
		}
		rows = append(rows, fields)
	}

	data := r.processRows(rows)
	data.Format = FormatDelimited
	r.logger.Debug("[DataReader] %s processed (%d columns, %d rows)", filename, len(data.Headers), len(data.Rows))
	return data, nil
}

// processRows converts string rows into ExcelData. Short rows are padded
// with empty cells; cells past the header width are dropped.
func (r *DataReader) processRows(rows [][]string) *ExcelData {
	start := 0
	for start < len(rows) && isBlankRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return &ExcelData{Headers: []string{}, Rows: []RawRowData{}}
	}

	headers := CleanHeaders(rows[start])
	dataRows := make([]RawRowData, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		rowData := make(RawRowData, len(headers))
		for j, h := range headers {
			if j < len(row) {
				rowData[h] = strings.TrimSpace(row[j])
			} else {
				rowData[h] = ""
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &ExcelData{Headers: headers, Rows: dataRows}
}

// CleanHeaders trims header cells, names blank ones column_N (1-based) and
// suffixes repeats with _1, _2 and so on.
func CleanHeaders(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		name := h
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", h, n)
		}
		seen[name] = true
		headers[i] = name
	}
	return headers
}

func rowsToCSV(rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isEmptySheet(rows [][]string) bool {
	for _, row := range rows {
		if !isBlankRow(row) {
			return false
		}
	}
	return true
}
