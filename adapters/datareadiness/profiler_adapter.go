package datareadiness

import (
	"context"

	"funnelscope/adapters/datareadiness/coercer"
	"funnelscope/domain/dataset"
	"funnelscope/internal/profiling"
)

// DefaultSampleValues is how many distinct values a column descriptor keeps.
const DefaultSampleValues = 5

// ProfilerAdapter implements ProfilerPort: it infers a type per column,
// re-parses every cell under that type and computes column statistics.
type ProfilerAdapter struct {
	coercer      *coercer.TypeCoercer
	analyzer     *profiling.DistributionAnalyzer
	sampleValues int
}

// NewProfilerAdapter creates a new profiler adapter
func NewProfilerAdapter(c *coercer.TypeCoercer) *ProfilerAdapter {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &ProfilerAdapter{
		coercer:      c,
		analyzer:     profiling.NewDistributionAnalyzer(),
		sampleValues: DefaultSampleValues,
	}
}

// WithSampleValues sets how many distinct sample values each column keeps.
func (p *ProfilerAdapter) WithSampleValues(n int) *ProfilerAdapter {
	if n > 0 {
		p.sampleValues = n
	}
	return p
}

// InferDataset builds a typed Dataset from raw rows. Cells that fail to parse
// under their column's type become null; inference itself never fails except
// on a cancelled context.
func (p *ProfilerAdapter) InferDataset(ctx context.Context, name string, table dataset.RawTable) (*dataset.Dataset, error) {
	records := make([]dataset.Record, len(table.Rows))
	for i := range records {
		records[i] = make(dataset.Record, len(table.Headers))
	}

	columns := make([]dataset.Column, 0, len(table.Headers))
	for _, header := range table.Headers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw := make([]string, len(table.Rows))
		for i, row := range table.Rows {
			raw[i] = row[header]
		}

		analysis := p.coercer.AnalyzeTypeDistribution(raw)
		parsed := make([]dataset.Value, len(raw))
		for i, cell := range raw {
			parsed[i] = p.coercer.Parse(cell, analysis.RecommendedType)
			records[i][header] = parsed[i]
		}

		columns = append(columns, p.profileColumn(header, analysis.RecommendedType, parsed))
	}

	return &dataset.Dataset{
		Name:     name,
		RowCount: len(table.Rows),
		Columns:  columns,
		Records:  records,
	}, nil
}

// profileColumn computes the descriptor for one parsed column
func (p *ProfilerAdapter) profileColumn(name string, typ dataset.ColumnType, values []dataset.Value) dataset.Column {
	col := dataset.Column{
		Name:    name,
		Type:    typ,
		Samples: []dataset.Value{},
	}

	seen := make(map[string]bool)
	var numbers []float64
	for _, v := range values {
		key, ok := v.Key()
		if !ok {
			col.Stats.Nulls++
			continue
		}
		if n, ok := v.AsFloat64(); ok {
			numbers = append(numbers, n)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		if len(col.Samples) < p.sampleValues {
			col.Samples = append(col.Samples, v)
		}
	}
	col.Stats.Distinct = len(seen)

	if typ == dataset.TypeNumber && len(numbers) > 0 {
		if summary, err := p.analyzer.Summarize(numbers); err == nil {
			col.Stats.Min = &summary.Min
			col.Stats.Max = &summary.Max
			col.Stats.Mean = &summary.Mean
			col.Stats.Median = &summary.Median
			col.Stats.StdDev = &summary.StdDev
		}
	}
	return col
}
