package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"funnelscope/domain/core"
	"funnelscope/domain/imports"
	apperrors "funnelscope/internal/errors"
	"funnelscope/ports"
)

// importRow mirrors the imports table
type importRow struct {
	ID          string         `db:"id"`
	Kind        string         `db:"kind"`
	Name        string         `db:"name"`
	SourceFile  string         `db:"source_file"`
	Fingerprint string         `db:"fingerprint"`
	RowCount    int            `db:"row_count"`
	ColumnCount int            `db:"column_count"`
	Warnings    pq.StringArray `db:"warnings"`
	Payload     []byte         `db:"payload"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r importRow) toRecord() *imports.Record {
	rec := &imports.Record{
		ID:          core.ID(r.ID),
		Kind:        imports.Kind(r.Kind),
		Name:        r.Name,
		SourceFile:  r.SourceFile,
		Fingerprint: core.Hash(r.Fingerprint),
		RowCount:    r.RowCount,
		ColumnCount: r.ColumnCount,
		Warnings:    []string(r.Warnings),
		CreatedAt:   core.Timestamp(r.CreatedAt.UTC()),
	}
	if len(r.Payload) > 0 {
		rec.Payload = json.RawMessage(r.Payload)
	}
	return rec
}

// importRepository implements ports.ImportRepository on PostgreSQL
type importRepository struct {
	db *sqlx.DB
}

// NewImportRepository creates a new import repository
func NewImportRepository(db *sqlx.DB) ports.ImportRepository {
	return &importRepository{db: db}
}

// Save inserts an import record; ID and CreatedAt are filled when empty
func (r *importRepository) Save(ctx context.Context, rec *imports.Record) error {
	if rec.ID.IsEmpty() {
		rec.ID = core.NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = core.Now()
	}

	query := `INSERT INTO imports (
		id, kind, name, source_file, fingerprint, row_count, column_count, warnings, payload, created_at
	) VALUES (
		:id, :kind, :name, :source_file, :fingerprint, :row_count, :column_count, :warnings, :payload, :created_at
	)`

	row := importRow{
		ID:          rec.ID.String(),
		Kind:        string(rec.Kind),
		Name:        rec.Name,
		SourceFile:  rec.SourceFile,
		Fingerprint: rec.Fingerprint.String(),
		RowCount:    rec.RowCount,
		ColumnCount: rec.ColumnCount,
		Warnings:    pq.StringArray(rec.Warnings),
		Payload:     []byte(rec.Payload),
		CreatedAt:   rec.CreatedAt.Time(),
	}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return apperrors.DatabaseError("failed to save import", err)
	}
	return nil
}

// Get retrieves an import with its payload
func (r *importRepository) Get(ctx context.Context, id core.ID) (*imports.Record, error) {
	query := `SELECT id, kind, name, source_file, fingerprint, row_count, column_count,
		COALESCE(warnings, '{}') AS warnings, payload, created_at
	FROM imports WHERE id = $1`

	var row importRow
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("import", id.String())
		}
		return nil, apperrors.DatabaseError("failed to get import", err)
	}
	return row.toRecord(), nil
}

// List returns imports newest first without payloads
func (r *importRepository) List(ctx context.Context, filters imports.Filters) ([]imports.Record, error) {
	query, args := buildListQuery(filters)

	var rows []importRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.DatabaseError("failed to list imports", err)
	}

	records := make([]imports.Record, len(rows))
	for i, row := range rows {
		records[i] = *row.toRecord()
	}
	return records, nil
}

// Delete removes an import
func (r *importRepository) Delete(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM imports WHERE id = $1`, id.String())
	if err != nil {
		return apperrors.DatabaseError("failed to delete import", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.DatabaseError("failed to delete import", err)
	}
	if n == 0 {
		return core.NewNotFoundError("import", id.String())
	}
	return nil
}

func buildListQuery(filters imports.Filters) (string, []interface{}) {
	limit := filters.Limit
	if limit <= 0 {
		limit = imports.DefaultListLimit
	}
	offset := max(filters.Offset, 0)

	query := `SELECT id, kind, name, source_file, fingerprint, row_count, column_count,
		COALESCE(warnings, '{}') AS warnings, NULL::bytea AS payload, created_at
	FROM imports`
	var args []interface{}
	if filters.Kind != "" {
		args = append(args, string(filters.Kind))
		query += fmt.Sprintf(" WHERE kind = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return query, args
}
