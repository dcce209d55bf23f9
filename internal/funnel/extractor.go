package funnel

import (
	"strings"

	domain "funnelscope/domain/funnel"
	"funnelscope/internal/delimited"
)

type extractState int

const (
	stateScanning extractState = iota
	stateExtracting
	stateDone
)

func (s extractState) String() string {
	switch s {
	case stateScanning:
		return "scanning"
	case stateExtracting:
		return "extracting"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// Boundary says why extraction stopped.
type Boundary int

const (
	BoundaryNone Boundary = iota
	BoundaryEndOfInput
	BoundaryBlankLine
	BoundaryComment
	BoundaryNewHeader
)

func (b Boundary) String() string {
	switch b {
	case BoundaryEndOfInput:
		return "end of input"
	case BoundaryBlankLine:
		return "blank line"
	case BoundaryComment:
		return "comment line"
	case BoundaryNewHeader:
		return "new header"
	}
	return "none"
}

// RowIterator is a forward-only walk over a document's lines. It scans for
// the header, then yields funnel rows until a table boundary. No line is
// visited twice and nothing after the boundary is read.
type RowIterator struct {
	lines     []string
	delim     rune
	header    HeaderMatch
	pos       int
	state     extractState
	err       error
	lastStep  string
	boundary  Boundary
	boundLine int
	skipped   int
}

// NewRowIterator prepares extraction over lines; nothing is read until Next.
func NewRowIterator(lines []string, delim rune) *RowIterator {
	return &RowIterator{
		lines:     lines,
		delim:     delim,
		state:     stateScanning,
		boundLine: -1,
	}
}

// Next returns the next surviving row, or false once the iterator is done.
// Check Err afterwards for a missing header.
func (it *RowIterator) Next() (domain.Row, bool) {
	if it.state == stateScanning {
		it.scan()
	}
	for it.state == stateExtracting {
		if it.pos >= len(it.lines) {
			it.stop(BoundaryEndOfInput)
			break
		}
		lineNo := it.pos
		fields := delimited.SplitLine(it.lines[lineNo], it.delim)
		it.pos++

		if b := classifyBoundary(fields); b != BoundaryNone {
			it.boundLine = lineNo
			it.stop(b)
			break
		}

		raw := it.rawFields(fields)
		step := raw[domain.KeyStep]
		if step == "" {
			step = it.lastStep
		}
		if step == "" {
			it.skipped++
			continue
		}
		it.lastStep = step
		return buildRow(step, raw), true
	}
	return domain.Row{}, false
}

func (it *RowIterator) scan() {
	match, err := LocateHeader(it.lines, it.delim)
	if err != nil {
		it.err = err
		it.state = stateDone
		return
	}
	it.header = match
	it.pos = match.Line + 1
	it.state = stateExtracting
}

// Err is the scanning failure, if any.
func (it *RowIterator) Err() error {
	return it.err
}

// Header is the matched header line; zero until the first call to Next.
func (it *RowIterator) Header() HeaderMatch {
	return it.header
}

// Boundary reports why iteration ended; BoundaryNone while still extracting.
func (it *RowIterator) Boundary() Boundary {
	return it.boundary
}

// BoundaryLine is the line index that ended the table, or -1 at end of input.
func (it *RowIterator) BoundaryLine() int {
	return it.boundLine
}

// Skipped counts rows dropped because no step label could be carried into them.
func (it *RowIterator) Skipped() int {
	return it.skipped
}

func (it *RowIterator) stop(b Boundary) {
	it.state = stateDone
	it.boundary = b
}

func (it *RowIterator) rawFields(fields []string) map[string]string {
	raw := make(map[string]string, len(it.header.Keys))
	for i, key := range it.header.Keys {
		if col := it.header.Columns[i]; col < len(fields) {
			raw[key] = fields[col]
		} else {
			raw[key] = ""
		}
	}
	return raw
}

func classifyBoundary(fields []string) Boundary {
	switch {
	case delimited.IsBlank(fields):
		return BoundaryBlankLine
	case strings.HasPrefix(fields[0], CommentMarker):
		return BoundaryComment
	case IsHeader(CanonicalizeFields(fields)):
		return BoundaryNewHeader
	}
	return BoundaryNone
}

func buildRow(step string, raw map[string]string) domain.Row {
	return domain.Row{
		Step:            step,
		Segment:         raw[domain.KeySegment],
		Country:         raw[domain.KeyCountry],
		ElapsedSeconds:  NormalizeDuration(raw[domain.KeyElapsedTime]),
		ActiveUsers:     parseCount(raw[domain.KeyActiveUsers]),
		CompletionRate:  NormalizePercentage(raw[domain.KeyCompletionRate]),
		Abandonments:    parseCount(raw[domain.KeyAbandonments]),
		AbandonmentRate: NormalizePercentage(raw[domain.KeyAbandonmentRate]),
	}
}
