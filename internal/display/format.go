// Package display renders stored values as presentation text.
package display

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"funnelscope/domain/dataset"
	domain "funnelscope/domain/funnel"
	"funnelscope/internal/funnel"
)

// DateLayout is how dates are shown.
const DateLayout = "2006-01-02"

type columnKind int

const (
	kindPlain columnKind = iota
	kindDuration
	kindRate
	kindCount
)

func kindOf(column string) columnKind {
	switch funnel.CanonicalizeHeader(column) {
	case domain.KeyElapsedTime:
		return kindDuration
	case domain.KeyCompletionRate, domain.KeyAbandonmentRate:
		return kindRate
	case domain.KeyActiveUsers, domain.KeyAbandonments:
		return kindCount
	}
	return kindPlain
}

// Format returns presentation text for a stored value of the named column.
// Funnel columns get their units: elapsed seconds as "1d 5h 30m", rates as
// "25.2%", counts with thousands separators. Other values are shown by type
// and null is empty text.
func Format(column string, value interface{}) string {
	if v, ok := value.(dataset.Value); ok {
		return formatValue(column, v)
	}

	switch kindOf(column) {
	case kindDuration:
		if n, ok := toFloat(value); ok {
			return funnel.FormatDuration(int64(math.Round(n)))
		}
		if s, ok := value.(string); ok {
			return funnel.FormatDuration(funnel.NormalizeDuration(s))
		}
	case kindRate:
		if n, ok := toFloat(value); ok {
			return formatRate(n)
		}
		if s, ok := value.(string); ok {
			return formatRate(funnel.NormalizePercentage(s))
		}
	case kindCount:
		if n, ok := toFloat(value); ok {
			return humanize.Comma(int64(n))
		}
	}
	return formatPlain(value)
}

func formatValue(column string, v dataset.Value) string {
	if v.IsNull {
		return ""
	}
	switch v.Type {
	case dataset.TypeNumber:
		n, _ := v.AsFloat64()
		return Format(column, n)
	case dataset.TypeBoolean:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case dataset.TypeDate:
		t, _ := v.AsTime()
		return t.Format(DateLayout)
	default:
		s, _ := v.AsString()
		return Format(column, s)
	}
}

func formatPlain(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(DateLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(DateLayout)
	case int:
		return humanize.Comma(int64(v))
	case int64:
		return humanize.Comma(v)
	case float64:
		return formatNumber(v)
	case float32:
		return formatNumber(float64(v))
	}
	return fmt.Sprint(value)
}

// formatNumber shows whole numbers without decimals and others with up to two.
func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.Commaf(math.Round(v*100) / 100)
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	return 0, false
}
