// Package imports describes persisted import results.
package imports

import (
	"encoding/json"
	"fmt"

	"funnelscope/domain/core"
)

// Kind says which import path produced a record.
type Kind string

const (
	KindFunnel  Kind = "funnel"
	KindDataset Kind = "dataset"
)

// ParseKind validates a kind supplied by a client. Empty means any kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case "", KindFunnel, KindDataset:
		return k, nil
	}
	return "", fmt.Errorf("unknown import kind %q", s)
}

// Record is one successful import. Payload holds the JSON of the extracted
// funnel table or dataset.
type Record struct {
	ID          core.ID         `json:"id" db:"id"`
	Kind        Kind            `json:"kind" db:"kind"`
	Name        string          `json:"name" db:"name"`
	SourceFile  string          `json:"source_file" db:"source_file"`
	Fingerprint core.Hash       `json:"fingerprint" db:"fingerprint"`
	RowCount    int             `json:"row_count" db:"row_count"`
	ColumnCount int             `json:"column_count" db:"column_count"`
	Warnings    []string        `json:"warnings,omitempty" db:"-"`
	Payload     json.RawMessage `json:"payload,omitempty" db:"payload"`
	CreatedAt   core.Timestamp  `json:"created_at" db:"-"`
}

// Filters narrows a listing.
type Filters struct {
	Kind   Kind
	Limit  int
	Offset int
}

// DefaultListLimit caps listings that do not ask for a limit.
const DefaultListLimit = 50
