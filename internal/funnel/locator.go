package funnel

import (
	"fmt"

	"funnelscope/domain/core"
	"funnelscope/internal/delimited"
)

// CommentMarker starts a metadata line in analytics exports.
const CommentMarker = "#"

// HeaderMatch is the first line that satisfied the header predicate.
//
// Keys holds each canonical key once, in column order. When two columns share
// a key the first one wins; Columns gives the field index each key reads.
type HeaderMatch struct {
	Line    int
	Keys    []string
	Columns []int
}

// LocateHeader tokenizes lines in order and returns the first one whose
// canonicalized fields contain every required key.
func LocateHeader(lines []string, delim rune) (HeaderMatch, error) {
	for i, line := range lines {
		keys := CanonicalizeFields(delimited.SplitLine(line, delim))
		if IsHeader(keys) {
			m := HeaderMatch{Line: i}
			seen := make(map[string]bool, len(keys))
			for col, key := range keys {
				if seen[key] {
					continue
				}
				seen[key] = true
				m.Keys = append(m.Keys, key)
				m.Columns = append(m.Columns, col)
			}
			return m, nil
		}
	}
	return HeaderMatch{}, fmt.Errorf("%w: scanned %d lines", core.ErrHeaderNotFound, len(lines))
}
