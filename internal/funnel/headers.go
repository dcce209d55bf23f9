// Package funnel extracts the first funnel table from an analytics export.
//
// A document is scanned for the first line whose canonicalized fields
// contain every required key; rows are then read until a table boundary
// (blank line, comment line, or a second header line).
package funnel

import (
	"strings"

	domain "funnelscope/domain/funnel"
)

// headerSynonyms maps lower-cased raw header spellings to canonical keys.
var headerSynonyms = map[string]string{
	"step":        domain.KeyStep,
	"steps":       domain.KeyStep,
	"step name":   domain.KeyStep,
	"step label":  domain.KeyStep,
	"funnel step": domain.KeyStep,

	"segment":  domain.KeySegment,
	"segments": domain.KeySegment,

	"country":        domain.KeyCountry,
	"country/region": domain.KeyCountry,

	"elapsed time":     domain.KeyElapsedTime,
	"elapsedtime":      domain.KeyElapsedTime,
	"elapsed_time":     domain.KeyElapsedTime,
	"time elapsed":     domain.KeyElapsedTime,
	"avg elapsed time": domain.KeyElapsedTime,

	"active users":                 domain.KeyActiveUsers,
	"activeusers":                  domain.KeyActiveUsers,
	"active_users":                 domain.KeyActiveUsers,
	"users":                        domain.KeyActiveUsers,
	"active users (% of step 1)":   domain.KeyActiveUsers,
	"active users (% of step one)": domain.KeyActiveUsers,

	"completion rate": domain.KeyCompletionRate,
	"completionrate":  domain.KeyCompletionRate,
	"completion_rate": domain.KeyCompletionRate,

	"abandonments": domain.KeyAbandonments,
	"abandonment":  domain.KeyAbandonments,
	"abandoned":    domain.KeyAbandonments,
	"drop-offs":    domain.KeyAbandonments,

	"abandonment rate": domain.KeyAbandonmentRate,
	"abandonmentrate":  domain.KeyAbandonmentRate,
	"abandonment_rate": domain.KeyAbandonmentRate,
	"drop-off rate":    domain.KeyAbandonmentRate,
}

// CanonicalizeHeader maps a raw header to its canonical key. Unknown headers
// come back lower-cased and trimmed.
func CanonicalizeHeader(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	if key, ok := headerSynonyms[h]; ok {
		return key
	}
	return h
}

// CanonicalizeFields canonicalizes every field of a tokenized line.
func CanonicalizeFields(fields []string) []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = CanonicalizeHeader(f)
	}
	return keys
}

// IsHeader reports whether the canonical keys include every required key.
func IsHeader(keys []string) bool {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	for _, req := range domain.RequiredKeys {
		if !present[req] {
			return false
		}
	}
	return true
}
