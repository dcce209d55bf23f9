package ports

import (
	"context"

	"funnelscope/domain/dataset"
)

// ProfilerPort infers column types and statistics over untyped rows
type ProfilerPort interface {
	InferDataset(ctx context.Context, name string, table dataset.RawTable) (*dataset.Dataset, error)
}
