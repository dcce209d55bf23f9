package ports

import (
	"context"
	"io"
)

// StoredFile describes an upload kept on disk.
type StoredFile struct {
	OriginalName string
	Path         string
	Size         int64
}

// FileStorage keeps uploaded files for later import
type FileStorage interface {
	Store(ctx context.Context, originalName string, r io.Reader) (*StoredFile, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}
