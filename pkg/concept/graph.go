package concept

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph - Curriculum Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for curriculum graphs.
// Concept and edge order is preserved: it drives prerequisite listing order
// and component discovery order.
type Graph struct {
	Concepts []Concept `json:"concepts"`
	Edges    []Edge    `json:"edges"`
}

// Normalize clamps every concept's scores and tier in place.
// See [Concept.Clamp].
func (g *Graph) Normalize() {
	for i := range g.Concepts {
		g.Concepts[i] = g.Concepts[i].Clamp()
	}
}

// Validate checks that every concept has a non-empty, unique ID.
// Edges are not checked: dangling references are tolerated downstream.
func (g Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Concepts))
	for i, c := range g.Concepts {
		if c.ID == "" {
			return fmt.Errorf("concept %d: %w", i, ErrInvalidConceptID)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("concept %q: %w", c.ID, ErrDuplicateConceptID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// IDs returns concept IDs in input order.
func (g Graph) IDs() []string {
	ids := make([]string, len(g.Concepts))
	for i, c := range g.Concepts {
		ids[i] = c.ID
	}
	return ids
}

// DanglingEdges returns edges whose endpoints are not both present.
func (g Graph) DanglingEdges() []Edge {
	idx := Index(g.Concepts)
	var out []Edge
	for _, e := range g.Edges {
		_, okFrom := idx[e.From]
		_, okTo := idx[e.To]
		if !okFrom || !okTo {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	return Graph{
		Concepts: append([]Concept(nil), g.Concepts...),
		Edges:    append([]Edge(nil), g.Edges...),
	}
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes g as indented JSON to w.
func WriteGraph(g Graph, w io.Writer) error {
	if g.Concepts == nil {
		g.Concepts = []Concept{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes g to a JSON file.
func WriteGraphFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraph decodes a JSON graph from r, validates concept IDs, and
// normalizes scores.
func ReadGraph(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	g.Normalize()
	return g, nil
}

// ReadGraphFile reads a JSON graph file. See [ReadGraph].
func ReadGraphFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
