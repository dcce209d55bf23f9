// Package app assembles imports from the reader, extraction, inference and
// validation components and optionally persists the results.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"funnelscope/domain/core"
	"funnelscope/domain/dataset"
	domain "funnelscope/domain/funnel"
	"funnelscope/domain/imports"
	"funnelscope/internal"
	apperrors "funnelscope/internal/errors"
	"funnelscope/internal/funnel"
	"funnelscope/internal/validation"
	"funnelscope/ports"
)

// DefaultConcurrency bounds ImportFiles when no limit is configured.
const DefaultConcurrency = 4

// ImportResult is the outcome of one import. Exactly one of Funnel and
// Dataset is set, matching Record.Kind.
type ImportResult struct {
	Record     imports.Record           `json:"record"`
	Funnel     *domain.Table            `json:"funnel,omitempty"`
	Dataset    *dataset.Dataset         `json:"dataset,omitempty"`
	Validation dataset.ValidationResult `json:"validation"`
	// Persisted is false when no repository is configured or the result
	// failed validation.
	Persisted bool `json:"persisted"`
}

// FileResult pairs a batch input with its result or error.
type FileResult struct {
	Path   string
	Result *ImportResult
	Err    error
}

// ImportService runs funnel and generic imports
type ImportService struct {
	reader      ports.TableReader
	profiler    ports.ProfilerPort
	repo        ports.ImportRepository
	logger      *internal.Logger
	concurrency int
}

// NewImportService creates the service. repo may be nil, in which case
// results are returned but never stored.
func NewImportService(reader ports.TableReader, profiler ports.ProfilerPort, repo ports.ImportRepository, logger *internal.Logger) *ImportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ImportService{
		reader:      reader,
		profiler:    profiler,
		repo:        repo,
		logger:      logger.WithComponent("import"),
		concurrency: DefaultConcurrency,
	}
}

// WithConcurrency sets how many files ImportFiles reads at once.
func (s *ImportService) WithConcurrency(n int) *ImportService {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// ImportFunnel extracts the first funnel table from an uploaded export.
func (s *ImportService) ImportFunnel(ctx context.Context, filename string, content []byte) (*ImportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logger.Debug("funnel import of %s (%d bytes)", filename, len(content))

	text, delim, err := s.reader.ReadDocument(filename, content)
	if err != nil {
		s.logger.Warn("read %s: %v", filename, err)
		return nil, apperrors.FromImportError(err, fmt.Sprintf("failed to read %s", filename))
	}

	res, err := funnel.Extract(text, funnel.Options{Delimiter: delim})
	if err != nil {
		s.logger.Warn("extract %s: %v", filename, err)
		return nil, apperrors.FromImportError(err, fmt.Sprintf("no funnel table in %s", filename))
	}
	table := res.Table
	if table.Name == "" {
		table.Name = baseName(filename)
	}
	s.logger.Debug("%s: header on line %d, %d rows, stopped at %s", filename, table.HeaderLine, len(table.Rows), res.Boundary)
	if res.Skipped > 0 {
		s.logger.Debug("%s: %d rows without a step label skipped", filename, res.Skipped)
	}

	result := &ImportResult{
		Funnel:     table,
		Validation: validation.ValidateFunnel(table),
		Record: imports.Record{
			Kind:        imports.KindFunnel,
			Name:        table.Name,
			SourceFile:  filename,
			Fingerprint: core.NewHash(content),
			RowCount:    len(table.Rows),
			ColumnCount: len(table.Keys),
		},
	}
	if err := s.finish(ctx, result, table); err != nil {
		return nil, err
	}
	s.logger.Info("imported funnel %q from %s: %d rows", table.Name, filename, len(table.Rows))
	return result, nil
}

// ImportDataset reads any table and infers its column types.
func (s *ImportService) ImportDataset(ctx context.Context, filename string, content []byte) (*ImportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logger.Debug("dataset import of %s (%d bytes)", filename, len(content))

	raw, err := s.reader.ParseTable(filename, content)
	if err != nil {
		s.logger.Warn("read %s: %v", filename, err)
		return nil, apperrors.FromImportError(err, fmt.Sprintf("failed to read %s", filename))
	}

	ds, err := s.profiler.InferDataset(ctx, baseName(filename), *raw)
	if err != nil {
		return nil, apperrors.FromImportError(err, fmt.Sprintf("type inference failed for %s", filename))
	}
	for _, col := range ds.Columns {
		s.logger.Debug("%s: column %q is %s", filename, col.Name, col.Type)
	}

	result := &ImportResult{
		Dataset:    ds,
		Validation: validation.ValidateDataset(ds),
		Record: imports.Record{
			Kind:        imports.KindDataset,
			Name:        ds.Name,
			SourceFile:  filename,
			Fingerprint: core.NewHash(content),
			RowCount:    ds.RowCount,
			ColumnCount: len(ds.Columns),
		},
	}
	if err := s.finish(ctx, result, ds); err != nil {
		return nil, err
	}
	s.logger.Info("imported dataset %q from %s: %d rows, %d columns", ds.Name, filename, ds.RowCount, len(ds.Columns))
	return result, nil
}

// Import dispatches on kind; an empty kind means funnel.
func (s *ImportService) Import(ctx context.Context, kind imports.Kind, filename string, content []byte) (*ImportResult, error) {
	switch kind {
	case imports.KindDataset:
		return s.ImportDataset(ctx, filename, content)
	case imports.KindFunnel, "":
		return s.ImportFunnel(ctx, filename, content)
	}
	return nil, apperrors.InvalidInput(fmt.Sprintf("unknown import kind %q", kind))
}

// ImportFiles imports files from disk concurrently. Each file succeeds or
// fails on its own; results come back in input order. The returned error is
// only set when ctx is cancelled.
func (s *ImportService) ImportFiles(ctx context.Context, kind imports.Kind, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = FileResult{Path: path}
			content, err := s.reader.LoadFile(gctx, path)
			if err != nil {
				results[i].Err = apperrors.FromImportError(err, fmt.Sprintf("failed to read %s", path))
				return nil
			}
			results[i].Result, results[i].Err = s.Import(gctx, kind, filepath.Base(path), content)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Get fetches a stored import including its payload.
func (s *ImportService) Get(ctx context.Context, id core.ID) (*imports.Record, error) {
	if s.repo == nil {
		return nil, apperrors.NotFound("import")
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.FromImportError(err, fmt.Sprintf("failed to load import %s", id))
	}
	return rec, nil
}

// List returns stored imports newest first.
func (s *ImportService) List(ctx context.Context, filters imports.Filters) ([]imports.Record, error) {
	if s.repo == nil {
		return []imports.Record{}, nil
	}
	if filters.Limit <= 0 {
		filters.Limit = imports.DefaultListLimit
	}
	recs, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.FromImportError(err, "failed to list imports")
	}
	return recs, nil
}

// ExportFunnelCSV renders a stored funnel import as canonical CSV.
func (s *ImportService) ExportFunnelCSV(ctx context.Context, id core.ID) (string, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if rec.Kind != imports.KindFunnel {
		return "", apperrors.InvalidInput(fmt.Sprintf("import %s is a %s import, not a funnel", id, rec.Kind))
	}

	var table domain.Table
	if err := json.Unmarshal(rec.Payload, &table); err != nil {
		return "", apperrors.Wrapf(err, "stored payload of funnel import %s is corrupt", id)
	}
	return funnel.CanonicalCSV(table.Rows)
}

// finish copies validation findings onto the record and saves it when a
// repository is configured and the result is valid.
func (s *ImportService) finish(ctx context.Context, result *ImportResult, payload interface{}) error {
	result.Record.Warnings = append([]string(nil), result.Validation.Warnings...)
	for _, w := range result.Validation.Warnings {
		s.logger.Warn("%s: %s", result.Record.SourceFile, w)
	}
	if !result.Validation.Valid {
		s.logger.Warn("%s failed validation: %s", result.Record.SourceFile, strings.Join(result.Validation.Errors, "; "))
		return nil
	}
	if s.repo == nil {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode import payload")
	}
	result.Record.Payload = body
	if err := s.repo.Save(ctx, &result.Record); err != nil {
		s.logger.Error("save %s: %v", result.Record.SourceFile, err)
		return apperrors.FromImportError(err, "failed to save import")
	}
	result.Persisted = true
	s.logger.Debug("saved %s as %s (fingerprint %s)", result.Record.SourceFile, result.Record.ID, result.Record.Fingerprint.Short())
	return nil
}

func baseName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
