// Package funnel holds the typed records produced from a funnel-exploration export.
package funnel

// Canonical column keys. Raw export headers are mapped onto these by the
// header canonicalizer; anything unmapped keeps its lower-cased spelling.
const (
	KeyStep            = "step"
	KeySegment         = "segment"
	KeyCountry         = "country"
	KeyElapsedTime     = "elapsed_time"
	KeyActiveUsers     = "active_users"
	KeyCompletionRate  = "completion_rate"
	KeyAbandonments    = "abandonments"
	KeyAbandonmentRate = "abandonment_rate"
)

// RequiredKeys must all be present on a line for it to count as a funnel header.
var RequiredKeys = [...]string{KeyStep, KeyElapsedTime, KeyActiveUsers, KeyCompletionRate}

// Row is one step of a funnel table.
//
// Segment and Country are empty when the source had no such column or the
// cell was blank. Rates are percentages; values above 100 are possible when a
// source already scaled a ratio.
type Row struct {
	Step            string  `json:"step"`
	Segment         string  `json:"segment,omitempty"`
	Country         string  `json:"country,omitempty"`
	ElapsedSeconds  int64   `json:"elapsed_seconds"`
	ActiveUsers     int64   `json:"active_users"`
	CompletionRate  float64 `json:"completion_rate"`
	Abandonments    int64   `json:"abandonments"`
	AbandonmentRate float64 `json:"abandonment_rate"`
}

// Table is the first logical funnel table found in a document.
type Table struct {
	// Name is derived from a "<name>-funnel" comment on the third line; empty when absent.
	Name string `json:"name,omitempty"`
	// HeaderLine is the zero-based line index of the matched header row.
	HeaderLine int `json:"header_line"`
	// Keys are the canonicalized header fields, in source order.
	Keys []string `json:"keys"`
	Rows []Row    `json:"rows"`
}

// HasSegments reports whether any row carries a segment dimension.
func (t *Table) HasSegments() bool {
	for _, r := range t.Rows {
		if r.Segment != "" {
			return true
		}
	}
	return false
}

// Steps returns the distinct step labels in first-seen order.
func (t *Table) Steps() []string {
	seen := make(map[string]bool, len(t.Rows))
	var steps []string
	for _, r := range t.Rows {
		if !seen[r.Step] {
			seen[r.Step] = true
			steps = append(steps, r.Step)
		}
	}
	return steps
}
