package redact

import "testing"

func TestGraphTouch(t *testing.T) {
	g := NewGraph()

	g.Touch(0, 1, "primer párrafo compartido")
	if w := g.Weight(0, 1); w != 1 {
		t.Fatalf("weight after first touch = %d, want 1", w)
	}

	g.Touch(0, 1, "segundo párrafo")
	if w := g.Weight(0, 1); w != 2 {
		t.Fatalf("weight after second touch = %d, want 2", w)
	}

	// The sample keeps the first co-occurrence.
	e, ok := g.Edge(0, 1)
	if !ok {
		t.Fatal("edge missing")
	}
	if e.Sample != "primer párrafo compartido" {
		t.Fatalf("sample = %q", e.Sample)
	}
}

func TestGraphUndirected(t *testing.T) {
	g := NewGraph()
	g.Touch(3, 1, "")
	g.Touch(1, 3, "")

	if w := g.Weight(1, 3); w != 2 {
		t.Fatalf("weight = %d, want 2 regardless of argument order", w)
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("edge count = %d, want 1", g.EdgeCount())
	}

	e, _ := g.Edge(3, 1)
	if e.A != 1 || e.B != 3 {
		t.Fatalf("edge not normalized: A=%d B=%d", e.A, e.B)
	}
}

func TestGraphIgnoresSelfEdges(t *testing.T) {
	g := NewGraph()
	g.Touch(2, 2, "")
	if g.EdgeCount() != 0 {
		t.Fatalf("self-edge recorded: %d edges", g.EdgeCount())
	}
	if g.Degree(2) != 0 {
		t.Fatalf("self-edge contributed to degree: %d", g.Degree(2))
	}
}

func TestGraphNeighborsOrdering(t *testing.T) {
	g := NewGraph()
	// node 0: edge to 1 (weight 1), to 2 (weight 3), to 3 (weight 1)
	g.Touch(0, 1, "")
	for i := 0; i < 3; i++ {
		g.Touch(0, 2, "")
	}
	g.Touch(0, 3, "")

	got := g.Neighbors(0, 3)
	want := []int{2, 1, 3} // heaviest first, ties by index
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if limited := g.Neighbors(0, 2); len(limited) != 2 || limited[0] != 2 {
		t.Fatalf("limit not honored: %v", limited)
	}
}

func TestGraphEdgesStableOrder(t *testing.T) {
	g := NewGraph()
	g.Touch(5, 2, "")
	g.Touch(0, 1, "")
	g.Touch(2, 0, "")

	edges := g.Edges()
	for i := 1; i < len(edges); i++ {
		prev, cur := edges[i-1], edges[i]
		if prev.A > cur.A || (prev.A == cur.A && prev.B > cur.B) {
			t.Fatalf("edges not sorted: %+v", edges)
		}
	}
}
