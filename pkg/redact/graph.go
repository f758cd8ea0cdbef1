package redact

import "sort"

// RelationEdge is an undirected co-occurrence edge between two entities,
// identified by their arena indices (A < B). Weight counts co-occurring
// paragraphs; Sample keeps the first paragraph's opening characters.
type RelationEdge struct {
	A      int    `json:"a"`
	B      int    `json:"b"`
	Weight int    `json:"weight"`
	Sample string `json:"sample,omitempty"`
}

type edgeKey struct{ a, b int }

// Graph is the co-occurrence relationship graph. Nodes are entity arena
// indices; adjacency is index-based so entity records never reference each
// other directly.
type Graph struct {
	edges map[edgeKey]*RelationEdge
	adj   map[int]map[int]bool
}

// NewGraph creates an empty relationship graph.
func NewGraph() *Graph {
	return &Graph{
		edges: make(map[edgeKey]*RelationEdge),
		adj:   make(map[int]map[int]bool),
	}
}

func normalizeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Touch records one paragraph co-occurrence of entities a and b: the edge is
// created at weight 1 on first contact and incremented afterwards. Self-edges
// are ignored.
func (g *Graph) Touch(a, b int, sample string) {
	if a == b {
		return
	}
	key := normalizeKey(a, b)
	if e, ok := g.edges[key]; ok {
		e.Weight++
		return
	}
	g.edges[key] = &RelationEdge{A: key.a, B: key.b, Weight: 1, Sample: sample}
	g.link(key.a, key.b)
	g.link(key.b, key.a)
}

func (g *Graph) link(from, to int) {
	if g.adj[from] == nil {
		g.adj[from] = make(map[int]bool)
	}
	g.adj[from][to] = true
}

// Edge returns the undirected edge between a and b, if any. The argument
// order does not matter.
func (g *Graph) Edge(a, b int) (*RelationEdge, bool) {
	e, ok := g.edges[normalizeKey(a, b)]
	return e, ok
}

// Weight returns the edge weight between a and b, zero when unconnected.
func (g *Graph) Weight(a, b int) int {
	if e, ok := g.Edge(a, b); ok {
		return e.Weight
	}
	return 0
}

// Degree returns the number of distinct neighbors of node i.
func (g *Graph) Degree(i int) int {
	return len(g.adj[i])
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Neighbors returns up to limit neighbor indices of node i, heaviest edges
// first, ties broken by index for determinism.
func (g *Graph) Neighbors(i, limit int) []int {
	neighbors := make([]int, 0, len(g.adj[i]))
	for n := range g.adj[i] {
		neighbors = append(neighbors, n)
	}
	sort.Slice(neighbors, func(x, y int) bool {
		wx, wy := g.Weight(i, neighbors[x]), g.Weight(i, neighbors[y])
		if wx != wy {
			return wx > wy
		}
		return neighbors[x] < neighbors[y]
	})
	if limit >= 0 && len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}
	return neighbors
}

// Edges returns all edges in a stable order.
func (g *Graph) Edges() []RelationEdge {
	out := make([]RelationEdge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}
