package funnel

import (
	"fmt"
	"regexp"
	"strings"

	"funnelscope/domain/core"
	domain "funnelscope/domain/funnel"
	"funnelscope/internal/delimited"
)

// nameLine is the zero-based line that may carry "# <name>-funnel".
const nameLine = 2

var funnelNamePattern = regexp.MustCompile(`(?i)([\p{L}\p{N}_ .-]+?)-funnel\b`)

// Options tune a funnel extraction.
type Options struct {
	// Delimiter separates fields; zero means comma.
	Delimiter rune
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// Result carries the extracted table with details of how extraction ended.
type Result struct {
	Table        *domain.Table
	Boundary     Boundary
	// BoundaryLine is the zero-based line that ended the table, -1 at end of input.
	BoundaryLine int
	Skipped      int
}

// Preprocess extracts the first funnel table from a decoded document.
func Preprocess(text string, opts Options) (*domain.Table, error) {
	res, err := Extract(text, opts)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

// Extract is Preprocess with extraction details.
func Extract(text string, opts Options) (Result, error) {
	if delimited.IsEmptyDocument(text) {
		return Result{}, core.ErrEmptyInput
	}
	lines := delimited.SplitLines(text)

	it := NewRowIterator(lines, opts.delimiter())
	var rows []domain.Row
	for {
		row, ok := it.Next()
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	if err := it.Err(); err != nil {
		return Result{}, err
	}
	header := it.Header()
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("%w: header on line %d, table ended at %s",
			core.ErrNoDataRows, header.Line+1, it.Boundary())
	}

	return Result{
		Table: &domain.Table{
			Name:       TableName(lines),
			HeaderLine: header.Line,
			Keys:       header.Keys,
			Rows:       rows,
		},
		Boundary:     it.Boundary(),
		BoundaryLine: it.BoundaryLine(),
		Skipped:      it.Skipped(),
	}, nil
}

// TableName reads the optional "<name>-funnel" comment from the third line.
// Only that line is consulted.
func TableName(lines []string) string {
	if len(lines) <= nameLine {
		return ""
	}
	line := strings.TrimSpace(strings.TrimPrefix(lines[nameLine], "\ufeff"))
	if !strings.HasPrefix(line, CommentMarker) {
		return ""
	}
	m := funnelNamePattern.FindStringSubmatch(strings.TrimPrefix(line, CommentMarker))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
