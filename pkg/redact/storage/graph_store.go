// Package storage persists the entity relationship graph produced by the
// document memory, either as a JSON artifact or into Neo4j.
package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/legaltech-cl/redactor/pkg/redact"
)

// GraphStore persists a relationship graph.
type GraphStore interface {
	StoreGraph(ctx context.Context, g *redact.GraphData) error
	LoadGraph(ctx context.Context) (*redact.GraphData, error)
}

// JSONGraphStore implements GraphStore with a single JSON file.
type JSONGraphStore struct {
	filePath string
}

// NewJSONGraphStore creates a file-backed graph store.
func NewJSONGraphStore(filePath string) *JSONGraphStore {
	return &JSONGraphStore{filePath: filePath}
}

// StoreGraph writes the graph as indented JSON.
func (s *JSONGraphStore) StoreGraph(ctx context.Context, g *redact.GraphData) error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return errors.Wrap(err, "creating graph directory")
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding graph")
	}
	return errors.Wrap(os.WriteFile(s.filePath, data, 0o644), "writing graph")
}

// LoadGraph reads a previously stored graph.
func (s *JSONGraphStore) LoadGraph(ctx context.Context) (*redact.GraphData, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "reading graph")
	}

	var g redact.GraphData
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(err, "decoding graph")
	}
	return &g, nil
}
