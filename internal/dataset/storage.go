// Package dataset stores uploaded files on local disk until they are imported.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mozillazg/go-unidecode"

	"funnelscope/ports"
)

// ErrFileTooLarge is returned when an upload exceeds MaxFileSize.
var ErrFileTooLarge = errors.New("file exceeds upload limit")

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// StorageConfig holds configuration for file storage
type StorageConfig struct {
	BasePath     string        // Base directory for stored uploads
	MaxFileSize  int64         // Maximum file size in bytes; zero disables the check
	ChunkSize    int           // Copy buffer size
	CleanupAfter time.Duration // Age after which Cleanup removes a file
}

// DefaultStorageConfig returns sensible defaults
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		BasePath:     "uploads",
		MaxFileSize:  32 << 20,
		ChunkSize:    1 << 20,
		CleanupAfter: 24 * time.Hour,
	}
}

// LocalFileStorage implements ports.FileStorage on the local filesystem
type LocalFileStorage struct {
	config *StorageConfig
}

var _ ports.FileStorage = (*LocalFileStorage)(nil)

// NewLocalFileStorage creates a new local file storage instance
func NewLocalFileStorage(config *StorageConfig) *LocalFileStorage {
	if config == nil {
		config = DefaultStorageConfig()
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = 1 << 20
	}
	return &LocalFileStorage{config: config}
}

// NewLocalFileStorageWithPath creates a new local file storage with a simple path
func NewLocalFileStorageWithPath(basePath string) *LocalFileStorage {
	config := DefaultStorageConfig()
	config.BasePath = basePath
	return NewLocalFileStorage(config)
}

// Store copies r to a uniquely named file. The name keeps a transliterated
// form of the original so stored files stay recognizable.
func (s *LocalFileStorage) Store(ctx context.Context, originalName string, r io.Reader) (*ports.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.config.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	filePath := filepath.Join(s.config.BasePath, UniqueName(originalName, time.Now()))
	destFile, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	src := r
	if s.config.MaxFileSize > 0 {
		src = io.LimitReader(r, s.config.MaxFileSize+1)
	}
	buf := make([]byte, s.config.ChunkSize)
	n, err := io.CopyBuffer(destFile, src, buf)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to copy file contents: %w", err)
	}
	if s.config.MaxFileSize > 0 && n > s.config.MaxFileSize {
		os.Remove(filePath)
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrFileTooLarge, originalName, s.config.MaxFileSize)
	}

	return &ports.StoredFile{OriginalName: originalName, Path: filePath, Size: n}, nil
}

// Open returns a reader for a stored file
func (s *LocalFileStorage) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Remove deletes a file; a missing file is not an error
func (s *LocalFileStorage) Remove(ctx context.Context, filePath string) error {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Cleanup removes stored files older than CleanupAfter and reports how many
// were deleted.
func (s *LocalFileStorage) Cleanup(ctx context.Context, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.config.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to list storage directory: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < s.config.CleanupAfter {
			continue
		}
		if err := s.Remove(ctx, filepath.Join(s.config.BasePath, e.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// UniqueName builds "<slug>_<timestamp>_<id><ext>" from an uploaded name.
func UniqueName(originalName string, at time.Time) string {
	base := filepath.Base(originalName)
	ext := strings.ToLower(filepath.Ext(base))
	slug := Slug(strings.TrimSuffix(base, filepath.Ext(base)))
	if slug == "" {
		slug = "upload"
	}
	return fmt.Sprintf("%s_%s_%s%s", slug, at.UTC().Format("20060102_150405"), uuid.New().String()[:8], ext)
}

// Slug transliterates a name to ASCII and keeps only filename-safe characters.
func Slug(name string) string {
	ascii := unidecode.Unidecode(name)
	ascii = unsafeNameChars.ReplaceAllString(ascii, "-")
	return strings.Trim(strings.ToLower(ascii), "-._")
}
