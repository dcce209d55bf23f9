// Package profiling computes summary statistics over parsed numeric columns.
package profiling

import (
	"errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats/scalar"
)

// MeanPrecision is the number of decimals the mean is rounded to.
const MeanPrecision = 2

// ErrNoValues is returned when a summary is requested over nothing.
var ErrNoValues = errors.New("no numeric values")

// NumericSummary describes the non-null values of a number column.
type NumericSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// DistributionAnalyzer summarizes numeric samples.
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Summarize computes min, max, mean (rounded to MeanPrecision), median and
// population standard deviation.
func (da *DistributionAnalyzer) Summarize(data []float64) (NumericSummary, error) {
	if len(data) == 0 {
		return NumericSummary{}, ErrNoValues
	}

	min, err := stats.Min(data)
	if err != nil {
		return NumericSummary{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return NumericSummary{}, err
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return NumericSummary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return NumericSummary{}, err
	}
	stdDev, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return NumericSummary{}, err
	}

	return NumericSummary{
		Count:  len(data),
		Min:    min,
		Max:    max,
		Mean:   scalar.Round(mean, MeanPrecision),
		Median: median,
		StdDev: stdDev,
	}, nil
}
