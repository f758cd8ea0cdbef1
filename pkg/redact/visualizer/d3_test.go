package visualizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/legaltech-cl/redactor/pkg/redact"
)

func TestD3Visualize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viz", "relations.html")

	g := &redact.GraphData{
		Nodes: []redact.GraphNode{
			{Label: "Juan Pérez", Type: "NATURAL_PERSON"},
			{Label: "BANCO EJEMPLO S.A.", Type: "LEGAL_PERSON"},
		},
		Edges: []redact.GraphEdge{
			{Source: 0, Target: 1, Weight: 2},
		},
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := NewD3(path).Visualize(g); err != nil {
		t.Fatalf("visualize failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)

	for _, want := range []string{"Juan Pérez", "BANCO EJEMPLO S.A.", "d3.forceSimulation", "2026-03-01"} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered page missing %q", want)
		}
	}
}

func TestD3VisualizeEmptyGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relations.html")
	if err := NewD3(path).Visualize(&redact.GraphData{}); err != nil {
		t.Fatalf("empty graph must still render: %v", err)
	}
}
