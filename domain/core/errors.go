package core

import (
	"errors"
	"fmt"
)

// Import errors. Every table-extraction failure is terminal for the call that
// produced it; callers compare with errors.Is.
var (
	ErrEmptyInput        = errors.New("empty input")
	ErrHeaderNotFound    = errors.New("funnel header not found")
	ErrNoDataRows        = errors.New("no data rows")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrReadFailure       = errors.New("read failure")

	ErrNotFound = errors.New("resource not found")
)

// NewUnsupportedFormatError names the rejected extension.
func NewUnsupportedFormatError(filename, ext string) error {
	if ext == "" {
		return fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, filename)
	}
	return fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, filename, ext)
}

// NewReadError wraps an I/O failure from a byte source.
func NewReadError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrReadFailure, source, err)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// IsExtractionError reports whether err ended a funnel table extraction.
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrHeaderNotFound) ||
		errors.Is(err, ErrNoDataRows)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
