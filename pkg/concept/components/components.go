// Package components analyzes the connectivity of a curriculum graph.
//
// Connectivity ignores edge direction: a prerequisite edge From→To joins From
// and To into the same component exactly as To→From would. Components are
// discovered by depth-first traversal starting from each unvisited concept in
// input order, so the partition is deterministic for a fixed concept order.
//
// Edges that reference a concept not present in the input are skipped, which
// keeps the output a strict partition of the input concept IDs.
package components

import "github.com/matzehuels/conceptmap/pkg/concept"

// FindConnectedComponents partitions concepts into groups of IDs that are
// mutually reachable when edges are treated as undirected.
//
// Every input concept ID appears in exactly one group. Groups are ordered by
// their first concept in input order; IDs within a group are in DFS preorder.
// Empty input yields an empty result. Duplicate concept IDs are counted once.
func FindConnectedComponents(concepts []concept.Concept, edges []concept.Edge) [][]string {
	present := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		present[c.ID] = true
	}

	adj := make(map[string][]string, len(concepts))
	for _, e := range edges {
		if !present[e.From] || !present[e.To] {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}

	visited := make(map[string]bool, len(concepts))
	var groups [][]string
	for _, c := range concepts {
		if visited[c.ID] {
			continue
		}
		groups = append(groups, dfs(c.ID, adj, visited))
	}
	return groups
}

// dfs collects every node reachable from start. It uses an explicit stack so
// long prerequisite chains cannot exhaust the goroutine stack.
func dfs(start string, adj map[string][]string, visited map[string]bool) []string {
	var group []string
	stack := []string{start}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[node] {
			continue
		}
		visited[node] = true
		group = append(group, node)

		neighbors := adj[node]
		for i := len(neighbors) - 1; i >= 0; i-- {
			if !visited[neighbors[i]] {
				stack = append(stack, neighbors[i])
			}
		}
	}
	return group
}

// IsFullyConnected reports whether the graph forms exactly one component.
// An empty graph has zero components and is therefore not fully connected.
func IsFullyConnected(concepts []concept.Concept, edges []concept.Edge) bool {
	return len(FindConnectedComponents(concepts, edges)) == 1
}

// Isolated returns the IDs of concepts that have no edge to any other
// present concept, in input order.
func Isolated(concepts []concept.Concept, edges []concept.Edge) []string {
	var out []string
	for _, group := range FindConnectedComponents(concepts, edges) {
		if len(group) == 1 {
			out = append(out, group[0])
		}
	}
	return out
}
