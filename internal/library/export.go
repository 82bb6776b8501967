// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ream/pkg/types"
)

// Snapshot is a full copy of the library for export.
type Snapshot struct {
	ExportedAt time.Time           `json:"exported_at" yaml:"exported_at"`
	Queued     []types.QueuedPaper `json:"queued" yaml:"queued"`
	Read       []types.ReadPaper   `json:"read" yaml:"read"`
}

// Snapshot reads both lists in their display order.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	queued, err := s.ListQueued(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying for export: %w", err)
	}
	read, err := s.ListRead(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying for export: %w", err)
	}
	return Snapshot{
		ExportedAt: s.now().UTC(),
		Queued:     nonNil(queued),
		Read:       nonNil(read),
	}, nil
}

// WriteYAML encodes snap as YAML.
func WriteYAML(w io.Writer, snap Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON encodes snap as indented JSON.
func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
