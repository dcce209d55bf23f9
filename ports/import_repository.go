package ports

import (
	"context"

	"funnelscope/domain/core"
	"funnelscope/domain/imports"
)

// ImportRepository persists import results
type ImportRepository interface {
	Save(ctx context.Context, rec *imports.Record) error
	Get(ctx context.Context, id core.ID) (*imports.Record, error)
	// List returns records newest first, without payloads.
	List(ctx context.Context, filters imports.Filters) ([]imports.Record, error)
	Delete(ctx context.Context, id core.ID) error
}
