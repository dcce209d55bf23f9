package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"funnelscope/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range Steps() {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return errors.Wrap(errors.DatabaseError(step.Name, err), "migration failed")
		}
	}
	return nil
}

// Step is one named schema statement.
type Step struct {
	Name string
	SQL  string
}

// Steps lists the schema statements in execution order.
func Steps() []Step {
	return []Step{
		{Name: "create imports table", SQL: `
		CREATE TABLE IF NOT EXISTS imports (
			id UUID PRIMARY KEY,
			kind VARCHAR(16) NOT NULL CHECK (kind IN ('funnel', 'dataset')),
			name TEXT NOT NULL DEFAULT '',
			source_file TEXT NOT NULL DEFAULT '',
			fingerprint CHAR(64) NOT NULL,
			row_count INTEGER NOT NULL DEFAULT 0,
			column_count INTEGER NOT NULL DEFAULT 0,
			warnings TEXT[] NOT NULL DEFAULT '{}',
			payload BYTEA,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`},
		{Name: "index imports by creation time", SQL: `
		CREATE INDEX IF NOT EXISTS idx_imports_created_at ON imports (created_at DESC)`},
		{Name: "index imports by kind", SQL: `
		CREATE INDEX IF NOT EXISTS idx_imports_kind ON imports (kind, created_at DESC)`},
		{Name: "index imports by fingerprint", SQL: `
		CREATE INDEX IF NOT EXISTS idx_imports_fingerprint ON imports (fingerprint)`},
	}
}
