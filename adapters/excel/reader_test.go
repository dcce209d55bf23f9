package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"funnelscope/domain/core"
	"funnelscope/internal"
)

func newTestReader() *DataReader {
	return NewDataReader(DefaultReaderConfig(), internal.NewLogger(internal.LogLevelError))
}

func TestReadData_CSV(t *testing.T) {
	content := "\n name ,age,city\nAlice,30,\"Paris, FR\"\n\nBob,41\n"

	data, err := newTestReader().ReadData("people.csv", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, FormatDelimited, data.Format)
	assert.Equal(t, []string{"name", "age", "city"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "Paris, FR", data.Rows[0]["city"])
	assert.Equal(t, "", data.Rows[1]["city"])
	assert.Equal(t, "41", data.Rows[1]["age"])
}

func TestReadData_TSVUsesTab(t *testing.T) {
	content := "a\tb\n1,5\t2\n"

	data, err := newTestReader().ReadData("values.tsv", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, data.Headers)
	assert.Equal(t, "1,5", data.Rows[0]["a"])
}

func TestReadData_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     error
	}{
		{"unsupported", "report.pdf", "x", core.ErrUnsupportedFormat},
		{"no extension", "report", "x", core.ErrUnsupportedFormat},
		{"empty csv", "empty.csv", "  \n\n", core.ErrEmptyInput},
		{"broken workbook", "broken.xlsx", "not a zip", core.ErrReadFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestReader().ReadData(tt.filename, []byte(tt.content))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadData_SizeLimit(t *testing.T) {
	r := NewDataReader(ReaderConfig{MaxBytes: 4}, internal.NewLogger(internal.LogLevelError))
	_, err := r.ReadData("big.csv", []byte("a,b\n1,2\n"))
	assert.ErrorIs(t, err, core.ErrReadFailure)
}

func TestCleanHeaders(t *testing.T) {
	got := CleanHeaders([]string{"id", "", "name", "name", " id ", "name", ""})
	assert.Equal(t, []string{"id", "column_2", "name", "name_1", "id_1", "name_2", "column_7"}, got)
}

func workbookBytes(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadData_Workbook(t *testing.T) {
	content := workbookBytes(t, "Export", [][]interface{}{
		{"region", "revenue", "region"},
		{"North", 1200.5, "N"},
		{"South", 800},
	})

	data, err := newTestReader().ReadData("sales.xlsx", content)
	require.NoError(t, err)

	assert.Equal(t, FormatWorkbook, data.Format)
	assert.Equal(t, "Export", data.SheetName)
	assert.Equal(t, []string{"region", "revenue", "region_1"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "1200.5", data.Rows[0]["revenue"])
	assert.Equal(t, "", data.Rows[1]["region_1"])
}

func TestReadDocument(t *testing.T) {
	r := newTestReader()

	text, delim, err := r.ReadDocument("funnel.tsv", []byte("Step\tElapsed time\n"))
	require.NoError(t, err)
	assert.Equal(t, '\t', delim)
	assert.Equal(t, "Step\tElapsed time\n", text)

	content := workbookBytes(t, "Sheet1", [][]interface{}{
		{"Step", "Active users"},
		{"1. Cart, view", 100},
	})
	text, delim, err = r.ReadDocument("funnel.xlsx", content)
	require.NoError(t, err)
	assert.Equal(t, ',', delim)
	assert.Equal(t, "Step,Active users\n\"1. Cart, view\",100\n", text)

	_, _, err = r.ReadDocument("funnel.json", []byte("{}"))
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,2\n"), 0o600))

	r := newTestReader()
	content, err := r.LoadFile(context.Background(), path)
	require.NoError(t, err)
	table, err := r.ParseTable("data.csv", content)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, table.Headers)
	assert.Len(t, table.Rows, 1)

	_, err = r.LoadFile(context.Background(), filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, core.ErrReadFailure)

	_, err = r.LoadFile(context.Background(), filepath.Join(dir, "notes.pdf"))
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.LoadFile(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
