package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	da := NewDistributionAnalyzer()

	tests := []struct {
		name     string
		data     []float64
		min, max float64
		mean     float64
		median   float64
	}{
		{"single", []float64{4}, 4, 4, 4, 4},
		{"ints", []float64{3, 1, 2}, 1, 3, 2, 2},
		{"rounded mean", []float64{1, 2, 2}, 1, 2, 1.67, 2},
		{"negative", []float64{-1.5, 0.5}, -1.5, 0.5, -0.5, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := da.Summarize(tt.data)
			require.NoError(t, err)
			assert.Equal(t, len(tt.data), s.Count)
			assert.Equal(t, tt.min, s.Min)
			assert.Equal(t, tt.max, s.Max)
			assert.InDelta(t, tt.mean, s.Mean, 1e-9)
			assert.InDelta(t, tt.median, s.Median, 1e-9)
		})
	}
}

func TestSummarize_Empty(t *testing.T) {
	_, err := NewDistributionAnalyzer().Summarize(nil)
	assert.ErrorIs(t, err, ErrNoValues)
}

func TestSummarize_StdDev(t *testing.T) {
	s, err := NewDistributionAnalyzer().Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, s.StdDev, 1e-9)
	assert.InDelta(t, 5.0, s.Mean, 1e-9)
}
