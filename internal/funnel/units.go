package funnel

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	secondsPerDay    = 86400
	secondsPerHour   = 3600
	secondsPerMinute = 60
	microsPerSecond  = 1_000_000
)

// Each unit is matched independently, so "5h 2d" and "2d5h" sum the same.
var (
	dayPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*d`)
	hourPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*h`)
	minutePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m`)
	secondPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*s`)
)

// NormalizeDuration converts an elapsed-time cell to whole seconds.
//
// "", "0" and "-" are zero. Text containing any of the letters d, h, m or s
// is read as a compound duration such as "1d 5h 30m". Anything else is a
// microsecond count, scientific notation included. Unparsable input is zero
// and the result is never negative.
func NormalizeDuration(raw string) int64 {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "0" || s == "-" {
		return 0
	}
	if strings.ContainsAny(s, "dhms") {
		return compoundSeconds(s)
	}
	v, ok := parseFloat(s)
	if !ok {
		return 0
	}
	return DurationFromMicros(v)
}

// DurationFromMicros converts a raw microsecond count to whole seconds.
func DurationFromMicros(micros float64) int64 {
	if math.IsNaN(micros) || micros <= 0 {
		return 0
	}
	return int64(math.Round(micros / microsPerSecond))
}

func compoundSeconds(s string) int64 {
	total := unitAmount(dayPattern, s)*secondsPerDay +
		unitAmount(hourPattern, s)*secondsPerHour +
		unitAmount(minutePattern, s)*secondsPerMinute +
		unitAmount(secondPattern, s)
	if total <= 0 {
		return 0
	}
	return int64(math.Round(total))
}

func unitAmount(re *regexp.Regexp, s string) float64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// NormalizePercentage converts a rate cell to a percentage.
//
// "25.2%" is read as 25.2. A bare number above 1 is taken to be scaled
// already and returned unchanged; 1 or below is a fraction and is multiplied
// by 100. A ratio such as 1.5 meaning 150% therefore comes back as 1.5.
func NormalizePercentage(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if strings.Contains(s, "%") {
		v, _ := parseFloat(strings.TrimSpace(strings.ReplaceAll(s, "%", "")))
		return v
	}
	v, ok := parseFloat(s)
	if !ok {
		return 0
	}
	return PercentageFromNumber(v)
}

// PercentageFromNumber applies the fraction-or-percentage rule to a number.
func PercentageFromNumber(v float64) float64 {
	if v > 1 {
		return v
	}
	return v * 100
}

// parseCount reads a non-negative integer count, tolerating comma thousands
// separators. A decimal is truncated; anything unparsable is zero.
func parseCount(raw string) int64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return max(n, 0)
	}
	v, ok := parseFloat(s)
	if !ok || v <= 0 {
		return 0
	}
	return int64(math.Trunc(v))
}

func parseFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
