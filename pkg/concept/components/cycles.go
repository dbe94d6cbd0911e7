package components

import "github.com/matzehuels/conceptmap/pkg/concept"

// FindCycles returns the prerequisite edges that close a directed cycle,
// found by depth-first search with white/gray/black coloring.
//
// The graph is not modified. A mutually-prerequisite pair A→B, B→A yields one
// back edge; such pairs lock each other permanently under the gate, so
// callers use this to flag curriculum data rather than to repair it.
// Edges with a missing endpoint are ignored.
func FindCycles(concepts []concept.Concept, edges []concept.Edge) []concept.Edge {
	const (
		white = iota
		gray
		black
	)

	present := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		present[c.ID] = true
	}
	children := make(map[string][]string, len(concepts))
	for _, e := range edges {
		if present[e.From] && present[e.To] {
			children[e.From] = append(children[e.From], e.To)
		}
	}

	type frame struct {
		node string
		next int
	}

	color := make(map[string]int, len(concepts))
	var back []concept.Edge

	for _, c := range concepts {
		if color[c.ID] != white {
			continue
		}
		color[c.ID] = gray
		stack := []frame{{node: c.ID}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			kids := children[top.node]
			if top.next == len(kids) {
				color[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := kids[top.next]
			top.next++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{node: child})
			case gray:
				back = append(back, concept.Edge{From: top.node, To: child})
			}
		}
	}
	return back
}
