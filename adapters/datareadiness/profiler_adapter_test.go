package datareadiness

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funnelscope/adapters/datareadiness/coercer"
	"funnelscope/domain/dataset"
	"funnelscope/internal/testkit"
)

func rawTable(header []string, rows [][]string) dataset.RawTable {
	t := dataset.RawTable{Headers: header}
	for _, r := range rows {
		row := make(dataset.RawRow, len(header))
		for i, h := range header {
			if i < len(r) {
				row[h] = r[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestInferDataset_ColumnTypes(t *testing.T) {
	profiler := NewProfilerAdapter(coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()))

	header, rows := testkit.GenerateTabular(testkit.TabularConfig{Rows: 50, Seed: 7})
	ds, err := profiler.InferDataset(context.Background(), "customers", rawTable(header, rows))
	require.NoError(t, err)

	assert.Equal(t, "customers", ds.Name)
	assert.Equal(t, 50, ds.RowCount)
	assert.Equal(t, header, ds.ColumnNames())
	require.Len(t, ds.Records, 50)

	want := map[string]dataset.ColumnType{
		"id":          dataset.TypeNumber,
		"name":        dataset.TypeString,
		"amount":      dataset.TypeNumber,
		"signup_date": dataset.TypeDate,
		"active":      dataset.TypeBoolean,
	}
	for _, col := range ds.Columns {
		assert.Equal(t, want[col.Name], col.Type, "column %s", col.Name)
		assert.LessOrEqual(t, len(col.Samples), DefaultSampleValues)
		assert.Zero(t, col.Stats.Nulls)
	}

	id, ok := ds.Column("id")
	require.True(t, ok)
	require.NotNil(t, id.Stats.Mean)
	assert.Equal(t, 1.0, *id.Stats.Min)
	assert.Equal(t, 50.0, *id.Stats.Max)
	assert.InDelta(t, 25.5, *id.Stats.Mean, 1e-9)
	assert.Equal(t, 50, id.Stats.Distinct)

	name, _ := ds.Column("name")
	assert.Nil(t, name.Stats.Mean)
	assert.LessOrEqual(t, name.Stats.Distinct, 6)
}

func TestInferDataset_NoisyNumericColumn(t *testing.T) {
	profiler := NewProfilerAdapter(nil)

	header, rows := testkit.GenerateTabular(testkit.TabularConfig{Rows: 20, NoiseEvery: 4, Seed: 1})
	ds, err := profiler.InferDataset(context.Background(), "noisy", rawTable(header, rows))
	require.NoError(t, err)

	amount, ok := ds.Column("amount")
	require.True(t, ok)
	assert.Equal(t, dataset.TypeNumber, amount.Type)
	assert.Equal(t, 5, amount.Stats.Nulls)

	for i, rec := range ds.Records {
		v := rec["amount"]
		if (i+1)%4 == 0 {
			assert.True(t, v.IsNull, "row %d", i)
		} else {
			_, ok := v.AsFloat64()
			assert.True(t, ok, "row %d", i)
		}
	}
}

func TestInferDataset_SamplesAreDistinctInFirstSeenOrder(t *testing.T) {
	profiler := NewProfilerAdapter(nil)

	values := []string{"b", "a", "b", "", "c", "d", "a", "e", "f", "g"}
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	ds, err := profiler.InferDataset(context.Background(), "letters", rawTable([]string{"letter"}, rows))
	require.NoError(t, err)

	col := ds.Columns[0]
	var got []string
	for _, s := range col.Samples {
		got = append(got, s.String())
	}
	assert.Equal(t, []string{"b", "a", "c", "d", "e"}, got)
	assert.Equal(t, 7, col.Stats.Distinct)
	assert.Equal(t, 1, col.Stats.Nulls)
}

func TestInferDataset_AllNullColumn(t *testing.T) {
	profiler := NewProfilerAdapter(nil)

	rows := [][]string{{"1", ""}, {"2", " "}, {"3"}}
	ds, err := profiler.InferDataset(context.Background(), "sparse", rawTable([]string{"n", "empty"}, rows))
	require.NoError(t, err)

	empty, ok := ds.Column("empty")
	require.True(t, ok)
	assert.Equal(t, dataset.TypeString, empty.Type)
	assert.Empty(t, empty.Samples)
	assert.Equal(t, 0, empty.Stats.Distinct)
	assert.Equal(t, 3, empty.Stats.Nulls)
	assert.Nil(t, empty.Stats.Min)
}

func TestInferDataset_MeanRounded(t *testing.T) {
	profiler := NewProfilerAdapter(nil)

	rows := [][]string{{"1"}, {"2"}, {"2"}}
	ds, err := profiler.InferDataset(context.Background(), "x", rawTable([]string{"v"}, rows))
	require.NoError(t, err)
	assert.InDelta(t, 1.67, *ds.Columns[0].Stats.Mean, 1e-9)
	assert.Equal(t, 2, ds.Columns[0].Stats.Distinct)
}

func TestInferDataset_SampleValueLimit(t *testing.T) {
	profiler := NewProfilerAdapter(nil).WithSampleValues(2)

	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{strconv.Itoa(i)}
	}
	ds, err := profiler.InferDataset(context.Background(), "x", rawTable([]string{"v"}, rows))
	require.NoError(t, err)
	assert.Len(t, ds.Columns[0].Samples, 2)
}

func TestInferDataset_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProfilerAdapter(nil).InferDataset(ctx, "x", rawTable([]string{"v"}, [][]string{{"1"}}))
	assert.ErrorIs(t, err, context.Canceled)
}
