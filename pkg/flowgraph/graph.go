package flowgraph

import "fmt"

// Sequence hands out vertex IDs. A Sequence shared between several walks keeps
// their ID ranges disjoint.
type Sequence struct {
	next int
}

// NewSequence creates a sequence starting at node_0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns a fresh vertex ID.
func (s *Sequence) Next() VertexID {
	id := VertexID(fmt.Sprintf("node_%d", s.next))
	s.next++
	return id
}

// Graph accumulates vertices and edges in insertion order.
type Graph struct {
	Name     string   `json:"name" msgpack:"name"`
	Comment  string   `json:"comment,omitempty" msgpack:"comment,omitempty"`
	Entry    VertexID `json:"entry,omitempty" msgpack:"entry,omitempty"`
	Exit     VertexID `json:"exit,omitempty" msgpack:"exit,omitempty"`
	Vertices []Vertex `json:"vertices" msgpack:"vertices"`
	Edges    []Edge   `json:"edges" msgpack:"edges"`

	index map[VertexID]int
}

// New creates an empty graph.
func New(name string) *Graph {
	return &Graph{
		Name:     name,
		Comment:  "Control Flow Graph",
		Vertices: make([]Vertex, 0),
		Edges:    make([]Edge, 0),
		index:    make(map[VertexID]int),
	}
}

// AddVertex records a vertex. IDs must come from a Sequence so they never
// repeat.
func (g *Graph) AddVertex(v Vertex) {
	g.ensureIndex()
	g.index[v.ID] = len(g.Vertices)
	g.Vertices = append(g.Vertices, v)
}

// AddEdge records a directed edge. Parallel edges are kept.
func (g *Graph) AddEdge(from, to VertexID, label string) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Label: label})
}

// Vertex looks up a vertex by ID.
func (g *Graph) Vertex(id VertexID) (Vertex, bool) {
	g.ensureIndex()
	i, ok := g.index[id]
	if !ok {
		return Vertex{}, false
	}
	return g.Vertices[i], true
}

// Out returns the edges leaving id in insertion order.
func (g *Graph) Out(id VertexID) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// In returns the edges entering id in insertion order.
func (g *Graph) In(id VertexID) []Edge {
	var in []Edge
	for _, e := range g.Edges {
		if e.To == id {
			in = append(in, e)
		}
	}
	return in
}

// FindByLabel returns the first vertex whose label equals label.
func (g *Graph) FindByLabel(label string) (Vertex, bool) {
	for _, v := range g.Vertices {
		if v.Label == label {
			return v, true
		}
	}
	return Vertex{}, false
}

// Reachable reports whether to can be reached from from along one or more edges.
func (g *Graph) Reachable(from, to VertexID) bool {
	seen := make(map[VertexID]bool)
	stack := []VertexID{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.Out(cur) {
			if e.To == to {
				return true
			}
			if !seen[e.To] {
				seen[e.To] = true
				stack = append(stack, e.To)
			}
		}
	}
	return false
}

// Problem describes a vertex that breaks the connectivity invariant.
type Problem struct {
	Vertex VertexID
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Vertex, p.Reason)
}

// Problems checks that every vertex except the entry has an incoming edge and
// every vertex except the exit has an outgoing edge. Problems come back in
// vertex order.
func (g *Graph) Problems() []Problem {
	in := make(map[VertexID]int)
	out := make(map[VertexID]int)
	for _, e := range g.Edges {
		out[e.From]++
		in[e.To]++
	}

	var problems []Problem
	for _, v := range g.Vertices {
		if v.ID != g.Entry && in[v.ID] == 0 {
			problems = append(problems, Problem{Vertex: v.ID, Reason: "no incoming edge"})
		}
		if v.ID != g.Exit && out[v.ID] == 0 {
			problems = append(problems, Problem{Vertex: v.ID, Reason: "no outgoing edge"})
		}
	}

	return problems
}

// ensureIndex rebuilds the lookup table after decoding.
func (g *Graph) ensureIndex() {
	if g.index != nil && len(g.index) == len(g.Vertices) {
		return
	}
	g.index = make(map[VertexID]int, len(g.Vertices))
	for i, v := range g.Vertices {
		g.index[v.ID] = i
	}
}
