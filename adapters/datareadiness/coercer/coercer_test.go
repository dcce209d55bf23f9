package coercer

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funnelscope/domain/dataset"
)

func TestClassify(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		raw  string
		want dataset.ColumnType
	}{
		{"true", dataset.TypeBoolean},
		{"FALSE", dataset.TypeBoolean},
		{"yes", dataset.TypeString},
		{"1", dataset.TypeNumber},
		{"0", dataset.TypeNumber},
		{"-3.5", dataset.TypeNumber},
		{"+.5", dataset.TypeNumber},
		{"1,234.5", dataset.TypeNumber},
		{"1.2e5", dataset.TypeNumber},
		{"6.02E-23", dataset.TypeNumber},
		{"20240115", dataset.TypeNumber},
		{"2024-01-15", dataset.TypeDate},
		{"2024-01-15T10:30:00Z", dataset.TypeDate},
		{"2024-01-15 10:30:00", dataset.TypeDate},
		{"01/15/2024", dataset.TypeDate},
		{"Jan 5, 2024", dataset.TypeDate},
		{"5 March 2024", dataset.TypeDate},
		{"Alice", dataset.TypeString},
		{"n/a", dataset.TypeString},
		{"", dataset.TypeString},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.raw))
		})
	}
}

func TestAnalyzeTypeDistribution_MajorityNumber(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	words := []string{"unknown", "pending", "n/a", "missing", "tbd"}
	values := make([]string, 0, 100)
	for i := 0; i < 65; i++ {
		values = append(values, strconv.Itoa(i*7))
	}
	for i := 0; i < 35; i++ {
		values = append(values, words[i%len(words)])
	}

	analysis := c.AnalyzeTypeDistribution(values)
	require.Equal(t, dataset.TypeNumber, analysis.RecommendedType)
	assert.Equal(t, 100, analysis.SampledCount)
	assert.Equal(t, 65, analysis.NumberCount)
	assert.InDelta(t, 0.65, analysis.Ratio(dataset.TypeNumber), 1e-9)

	for i, v := range values {
		parsed := c.Parse(v, analysis.RecommendedType)
		if i < 65 {
			n, ok := parsed.AsFloat64()
			require.True(t, ok, "value %q", v)
			assert.Equal(t, float64(i*7), n)
		} else {
			assert.True(t, parsed.IsNull, "value %q", v)
		}
	}
}

func TestAnalyzeTypeDistribution_BelowThreshold(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	values := []string{"1", "2", "3", "4", "5", "a", "b", "c", "d", "e"}

	analysis := c.AnalyzeTypeDistribution(values)
	assert.Equal(t, dataset.TypeString, analysis.RecommendedType)
}

func TestAnalyzeTypeDistribution_Ties(t *testing.T) {
	c := NewTypeCoercer(CoercionConfig{TypeThreshold: 0.5})

	numberOrDate := c.AnalyzeTypeDistribution([]string{"1", "2", "2024-01-01", "2024-01-02"})
	assert.Equal(t, dataset.TypeNumber, numberOrDate.RecommendedType)

	dateOrBool := c.AnalyzeTypeDistribution([]string{"true", "false", "2024-01-01", "2024-01-02"})
	assert.Equal(t, dataset.TypeDate, dateOrBool.RecommendedType)
}

func TestAnalyzeTypeDistribution_SamplesNonNullPrefix(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	values := []string{"", "  "}
	for i := 0; i < 100; i++ {
		values = append(values, strconv.Itoa(i))
	}
	for i := 0; i < 200; i++ {
		values = append(values, "text")
	}

	analysis := c.AnalyzeTypeDistribution(values)
	assert.Equal(t, 100, analysis.SampledCount)
	assert.Equal(t, 302, analysis.TotalCount)
	assert.Equal(t, dataset.TypeNumber, analysis.RecommendedType)
}

func TestAnalyzeTypeDistribution_AllNull(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	analysis := c.AnalyzeTypeDistribution([]string{"", " ", ""})
	assert.Equal(t, dataset.TypeString, analysis.RecommendedType)
	assert.Zero(t, analysis.SampledCount)
	assert.Zero(t, analysis.Ratio(dataset.TypeString))
}

func TestParse(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	n, ok := c.Parse("1,500.25", dataset.TypeNumber).AsFloat64()
	require.True(t, ok)
	assert.Equal(t, 1500.25, n)

	b, ok := c.Parse("TRUE", dataset.TypeBoolean).AsBool()
	require.True(t, ok)
	assert.True(t, b)
	assert.True(t, c.Parse("yes", dataset.TypeBoolean).IsNull)

	d, ok := c.Parse("2024-03-15", dataset.TypeDate).AsTime()
	require.True(t, ok)
	assert.True(t, d.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)), "got %s", d)

	d, ok = c.Parse("15/03/2024", dataset.TypeDate).AsTime()
	require.True(t, ok)
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())

	assert.True(t, c.Parse("someday", dataset.TypeDate).IsNull)
	assert.True(t, c.Parse("42", dataset.TypeDate).IsNull)

	s, ok := c.Parse("  hello ", dataset.TypeString).AsString()
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	for _, typ := range dataset.ColumnTypes {
		v := c.Parse("", typ)
		assert.True(t, v.IsNull)
		assert.Equal(t, typ, v.Type)
	}
}

func TestNewTypeCoercer_FillsDefaults(t *testing.T) {
	c := NewTypeCoercer(CoercionConfig{})
	assert.Equal(t, DefaultCoercionConfig(), c.Config())
}

func TestParseDate_RejectsFragmentsWithoutYear(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	for _, raw := range []string{"12:30", "1/2", "1.2.3"} {
		t.Run(raw, func(t *testing.T) {
			_, ok := ParseDate(raw)
			assert.False(t, ok)
			assert.Equal(t, dataset.TypeString, c.Classify(raw))
			assert.True(t, c.Parse(raw, dataset.TypeDate).IsNull)
		})
	}

	d, ok := ParseDate("March 5, 2024")
	require.True(t, ok)
	assert.Equal(t, 2024, d.Year())
}
