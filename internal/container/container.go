// Package container builds the application's object graph from configuration.
package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"funnelscope/adapters/datareadiness"
	"funnelscope/adapters/datareadiness/coercer"
	"funnelscope/adapters/excel"
	"funnelscope/adapters/memory"
	"funnelscope/adapters/postgres"
	"funnelscope/app"
	"funnelscope/internal"
	"funnelscope/internal/config"
	"funnelscope/internal/dataset"
	"funnelscope/internal/errors"
	"funnelscope/internal/migration"
	"funnelscope/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; DB is nil when running on the in-memory repository
	DB *sqlx.DB

	Reader     *excel.DataReader
	Profiler   *datareadiness.ProfilerAdapter
	ImportRepo ports.ImportRepository
	Storage    *dataset.LocalFileStorage

	ImportService *app.ImportService
}

// New creates a container without a database. Imports are kept in memory.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := cfg.Logger()
	c := &Container{
		Config:     cfg,
		Logger:     logger,
		ImportRepo: memory.NewImportRepository(),
	}

	c.Reader = excel.NewDataReader(excel.ReaderConfig{
		Delimiter: cfg.DelimiterRune(),
		MaxBytes:  cfg.MaxUploadBytes(),
	}, logger.WithComponent("reader"))

	c.Profiler = datareadiness.NewProfilerAdapter(coercer.NewTypeCoercer(coercer.CoercionConfig{
		SampleSize:    cfg.Import.SampleSize,
		TypeThreshold: cfg.Import.TypeThreshold,
	})).WithSampleValues(cfg.Import.SampleValues)

	storageConfig := dataset.DefaultStorageConfig()
	storageConfig.BasePath = cfg.Storage.UploadDir
	storageConfig.MaxFileSize = cfg.MaxUploadBytes()
	c.Storage = dataset.NewLocalFileStorage(storageConfig)

	c.buildService()
	return c, nil
}

// Open creates a container and, when a database URL is configured, connects,
// migrates and switches imports to PostgreSQL.
func Open(ctx context.Context, cfg *config.Config) (*Container, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		c.Logger.Info("DATABASE_URL not set, imports are kept in memory")
		return c, nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), "failed to connect to database")
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	c.Logger.Info("database schema at version %s", migrator.Version())

	if err := c.InitWithDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// InitWithDatabase switches the import repository to PostgreSQL
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	c.DB = db
	c.ImportRepo = postgres.NewImportRepository(db)
	c.buildService()
	return nil
}

func (c *Container) buildService() {
	c.ImportService = app.NewImportService(c.Reader, c.Profiler, c.ImportRepo, c.Logger).
		WithConcurrency(c.Config.Import.Concurrency)
}

// Close releases the database connection, if any
func (c *Container) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
