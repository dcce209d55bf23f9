package ports

import (
	"context"

	"funnelscope/domain/dataset"
)

// TableReader turns uploaded file content into something the importers can
// work on. The file name selects the format.
type TableReader interface {
	// ParseTable reads headers plus untyped rows for type inference.
	ParseTable(filename string, content []byte) (*dataset.RawTable, error)
	// ReadDocument returns the content as delimited text and its delimiter.
	ReadDocument(filename string, content []byte) (string, rune, error)
	// LoadFile reads a supported file from disk.
	LoadFile(ctx context.Context, path string) ([]byte, error)
}
