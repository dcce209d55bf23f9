// Package coercer classifies raw cell text and parses it into typed values.
package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"funnelscope/domain/dataset"
)

var (
	scientificPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)[eE][+-]?\d+$`)
	decimalPattern    = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)
	digitPattern      = regexp.MustCompile(`\d`)
)

// datePatterns are the textual date shapes recognized without the fallback parser.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?$`),
	regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}$`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2}(:\d{2})?( ?[AaPp][Mm])?$`),
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`),
	regexp.MustCompile(`(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.? \d{1,2},? \d{4}$`),
	regexp.MustCompile(`(?i)^\d{1,2} (jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.? \d{4}$`),
}

// dayFirstLayouts are tried when the month-first reading of a slash date fails.
var dayFirstLayouts = []string{"02/01/2006", "2/1/2006", "02/01/06"}

// TypeCoercer classifies and parses cell text for the generic import path.
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the inference sample and adoption threshold.
type CoercionConfig struct {
	SampleSize    int     `json:"sample_size" yaml:"sample_size"`       // non-null values inspected per column
	TypeThreshold float64 `json:"type_threshold" yaml:"type_threshold"` // share the winning type must reach
}

// DefaultCoercionConfig returns the standard inference settings.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		SampleSize:    100,
		TypeThreshold: 0.6,
	}
}

// NewTypeCoercer creates a coercer with the given config. Non-positive
// settings fall back to the defaults.
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	def := DefaultCoercionConfig()
	if config.SampleSize <= 0 {
		config.SampleSize = def.SampleSize
	}
	if config.TypeThreshold <= 0 {
		config.TypeThreshold = def.TypeThreshold
	}
	return &TypeCoercer{config: config}
}

// Config returns the effective configuration.
func (c *TypeCoercer) Config() CoercionConfig {
	return c.config
}

// Classify decides the type of a single non-empty value.
func (c *TypeCoercer) Classify(raw string) dataset.ColumnType {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return dataset.TypeString
	case isBoolean(s):
		return dataset.TypeBoolean
	case isNumber(s):
		return dataset.TypeNumber
	case isDate(s):
		return dataset.TypeDate
	}
	return dataset.TypeString
}

// AnalyzeTypeDistribution tallies the classification of the first SampleSize
// non-empty values and picks the column type.
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, v := range values {
		if analysis.SampledCount >= c.config.SampleSize {
			break
		}
		if IsNull(v) {
			continue
		}
		analysis.SampledCount++
		switch c.Classify(v) {
		case dataset.TypeNumber:
			analysis.NumberCount++
		case dataset.TypeDate:
			analysis.DateCount++
		case dataset.TypeBoolean:
			analysis.BooleanCount++
		default:
			analysis.StringCount++
		}
	}

	analysis.RecommendedType = c.determineRecommendedType(analysis)
	return analysis
}

// determineRecommendedType adopts the most frequent non-string type when it
// reaches the threshold. Ties go number, then date, then boolean.
func (c *TypeCoercer) determineRecommendedType(a TypeAnalysis) dataset.ColumnType {
	if a.SampledCount == 0 {
		return dataset.TypeString
	}

	best, bestCount := dataset.TypeString, 0
	for _, cand := range []struct {
		t     dataset.ColumnType
		count int
	}{
		{dataset.TypeNumber, a.NumberCount},
		{dataset.TypeDate, a.DateCount},
		{dataset.TypeBoolean, a.BooleanCount},
	} {
		if cand.count > bestCount {
			best, bestCount = cand.t, cand.count
		}
	}

	if bestCount == 0 || float64(bestCount)/float64(a.SampledCount) < c.config.TypeThreshold {
		return dataset.TypeString
	}
	return best
}

// Parse converts a cell to t. Empty cells and cells that do not parse as t
// come back as null.
func (c *TypeCoercer) Parse(raw string, t dataset.ColumnType) dataset.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return dataset.NullValue(t)
	}

	switch t {
	case dataset.TypeNumber:
		if n, ok := parseNumber(s); ok {
			return dataset.NewNumberValue(n)
		}
	case dataset.TypeBoolean:
		if b, ok := parseBoolean(s); ok {
			return dataset.NewBooleanValue(b)
		}
	case dataset.TypeDate:
		if d, ok := ParseDate(s); ok {
			return dataset.NewDateValue(d)
		}
	default:
		return dataset.NewStringValue(s)
	}
	return dataset.NullValue(t)
}

// IsNull reports whether a cell counts as missing.
func IsNull(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// ParseDate parses a date in any shape the fallback parser understands,
// reading zone-less values as UTC. Slash dates that are invalid month-first
// are retried day-first.
func ParseDate(s string) (time.Time, bool) {
	if !isDateCandidate(s) {
		return time.Time{}, false
	}
	// year 0 means the parser read a time, ratio or version as month/day
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil && t.Year() != 0 {
		return t, true
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isBoolean(s string) bool {
	_, ok := parseBoolean(s)
	return ok
}

func parseBoolean(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func isNumber(s string) bool {
	return scientificPattern.MatchString(s) ||
		decimalPattern.MatchString(strings.ReplaceAll(s, ",", ""))
}

func parseNumber(s string) (float64, bool) {
	if !isNumber(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func isDate(s string) bool {
	for _, re := range datePatterns {
		if re.MatchString(s) {
			return true
		}
	}
	_, ok := ParseDate(s)
	return ok
}

// isDateCandidate keeps numbers and digit-free words away from the date parser.
func isDateCandidate(s string) bool {
	return !isNumber(s) && digitPattern.MatchString(s)
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	SampledCount    int                `json:"sampled_count"`
	NumberCount     int                `json:"number_count"`
	DateCount       int                `json:"date_count"`
	BooleanCount    int                `json:"boolean_count"`
	StringCount     int                `json:"string_count"`
	RecommendedType dataset.ColumnType `json:"recommended_type"`
}

// Ratio returns the share of sampled values classified as t.
func (a TypeAnalysis) Ratio(t dataset.ColumnType) float64 {
	if a.SampledCount == 0 {
		return 0
	}
	var n int
	switch t {
	case dataset.TypeNumber:
		n = a.NumberCount
	case dataset.TypeDate:
		n = a.DateCount
	case dataset.TypeBoolean:
		n = a.BooleanCount
	default:
		n = a.StringCount
	}
	return float64(n) / float64(a.SampledCount)
}
