// Package memory holds in-process implementations of the storage ports.
package memory

import (
	"context"
	"sort"
	"sync"

	"funnelscope/domain/core"
	"funnelscope/domain/imports"
	"funnelscope/ports"
)

// ImportRepository keeps import records in a map. Records are copied in and
// out so callers cannot mutate stored state.
type ImportRepository struct {
	mu      sync.RWMutex
	records map[core.ID]imports.Record
}

var _ ports.ImportRepository = (*ImportRepository)(nil)

// NewImportRepository creates an empty repository
func NewImportRepository() *ImportRepository {
	return &ImportRepository{records: make(map[core.ID]imports.Record)}
}

// Save stores a record; ID and CreatedAt are filled when empty
func (r *ImportRepository) Save(ctx context.Context, rec *imports.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID.IsEmpty() {
		rec.ID = core.NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = core.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = clone(*rec)
	return nil
}

// Get returns a stored record
func (r *ImportRepository) Get(ctx context.Context, id core.ID) (*imports.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, core.NewNotFoundError("import", id.String())
	}
	out := clone(rec)
	return &out, nil
}

// List returns records newest first without payloads
func (r *ImportRepository) List(ctx context.Context, filters imports.Filters) ([]imports.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := make([]imports.Record, 0, len(r.records))
	for _, rec := range r.records {
		if filters.Kind != "" && rec.Kind != filters.Kind {
			continue
		}
		rec = clone(rec)
		rec.Payload = nil
		matched = append(matched, rec)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		ti, tj := matched[i].CreatedAt.Time(), matched[j].CreatedAt.Time()
		if ti.Equal(tj) {
			return matched[i].ID > matched[j].ID
		}
		return ti.After(tj)
	})

	limit := filters.Limit
	if limit <= 0 {
		limit = imports.DefaultListLimit
	}
	start := min(max(filters.Offset, 0), len(matched))
	end := min(start+limit, len(matched))
	return matched[start:end], nil
}

// Delete removes a record
func (r *ImportRepository) Delete(ctx context.Context, id core.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return core.NewNotFoundError("import", id.String())
	}
	delete(r.records, id)
	return nil
}

func clone(rec imports.Record) imports.Record {
	if rec.Warnings != nil {
		rec.Warnings = append([]string(nil), rec.Warnings...)
	}
	if rec.Payload != nil {
		rec.Payload = append([]byte(nil), rec.Payload...)
	}
	return rec
}
