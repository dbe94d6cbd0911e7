package components

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/conceptmap/pkg/concept"
)

func nodes(ids ...string) []concept.Concept {
	out := make([]concept.Concept, len(ids))
	for i, id := range ids {
		out[i] = concept.Concept{ID: id}
	}
	return out
}

// canonical sorts IDs within each group and groups by first ID so partitions
// can be compared regardless of traversal order.
func canonical(groups [][]string) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = slices.Sorted(slices.Values(g))
	}
	slices.SortFunc(out, func(a, b []string) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		}
		return 0
	})
	return out
}

func TestFindConnectedComponents(t *testing.T) {
	tests := []struct {
		name  string
		nodes []concept.Concept
		edges []concept.Edge
		want  [][]string
	}{
		{
			name: "Empty",
			want: nil,
		},
		{
			name:  "SingleEdgeAndIsland",
			nodes: nodes("a", "b", "c"),
			edges: []concept.Edge{{From: "a", To: "b"}},
			want:  [][]string{{"a", "b"}, {"c"}},
		},
		{
			name:  "DirectionIgnored",
			nodes: nodes("a", "b", "c"),
			edges: []concept.Edge{{From: "b", To: "a"}, {From: "c", To: "b"}},
			want:  [][]string{{"a", "b", "c"}},
		},
		{
			name:  "AllIsolated",
			nodes: nodes("x", "y", "z"),
			want:  [][]string{{"x"}, {"y"}, {"z"}},
		},
		{
			name:  "Cycle",
			nodes: nodes("a", "b", "c", "d"),
			edges: []concept.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}},
			want:  [][]string{{"a", "b", "c"}, {"d"}},
		},
		{
			name:  "DanglingEdgeSkipped",
			nodes: nodes("a", "b"),
			edges: []concept.Edge{{From: "a", To: "ghost"}, {From: "ghost", To: "b"}},
			want:  [][]string{{"a"}, {"b"}},
		},
		{
			name:  "DuplicateNodeCountedOnce",
			nodes: nodes("a", "a", "b"),
			edges: []concept.Edge{{From: "a", To: "b"}},
			want:  [][]string{{"a", "b"}},
		},
		{
			name:  "SelfLoop",
			nodes: nodes("a"),
			edges: []concept.Edge{{From: "a", To: "a"}},
			want:  [][]string{{"a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindConnectedComponents(tt.nodes, tt.edges)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindConnectedComponents() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFullyConnected(t *testing.T) {
	tests := []struct {
		name  string
		nodes []concept.Concept
		edges []concept.Edge
		want  bool
	}{
		{name: "Empty", want: false},
		{name: "SingleNode", nodes: nodes("a"), want: true},
		{name: "Chain", nodes: nodes("a", "b", "c"), edges: []concept.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}}, want: true},
		{name: "TwoIslands", nodes: nodes("a", "b"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFullyConnected(tt.nodes, tt.edges); got != tt.want {
				t.Errorf("IsFullyConnected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsolated(t *testing.T) {
	got := Isolated(nodes("a", "b", "c", "d"), []concept.Edge{{From: "b", To: "c"}})
	want := []string{"a", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Isolated() = %v, want %v", got, want)
	}
}

// randomGraph builds a graph with n concepts and m random edges, including
// occasional dangling references.
func randomGraph(rng *rand.Rand, n, m int) ([]concept.Concept, []concept.Edge) {
	ns := make([]concept.Concept, n)
	for i := range ns {
		ns[i] = concept.Concept{ID: fmt.Sprintf("n%d", i)}
	}
	es := make([]concept.Edge, m)
	for i := range es {
		to := fmt.Sprintf("n%d", rng.IntN(n+2)) // n, n+1 do not exist
		es[i] = concept.Edge{From: fmt.Sprintf("n%d", rng.IntN(n)), To: to}
	}
	return ns, es
}

func TestPartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := range 50 {
		ns, es := randomGraph(rng, 1+rng.IntN(40), rng.IntN(60))

		seen := make(map[string]int)
		for _, g := range FindConnectedComponents(ns, es) {
			if len(g) == 0 {
				t.Fatalf("trial %d: empty group", trial)
			}
			for _, id := range g {
				seen[id]++
			}
		}

		if len(seen) != len(ns) {
			t.Fatalf("trial %d: %d ids in output, want %d", trial, len(seen), len(ns))
		}
		for _, n := range ns {
			if seen[n.ID] != 1 {
				t.Fatalf("trial %d: %s appears %d times", trial, n.ID, seen[n.ID])
			}
		}
	}
}

func TestSymmetryProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for trial := range 50 {
		ns, es := randomGraph(rng, 1+rng.IntN(30), rng.IntN(40))

		base := canonical(FindConnectedComponents(ns, es))

		reversed := make([]concept.Edge, len(es))
		for i, e := range es {
			reversed[i] = e.Reverse()
		}
		if got := canonical(FindConnectedComponents(ns, reversed)); !reflect.DeepEqual(got, base) {
			t.Fatalf("trial %d: reversed edges changed partition: %v vs %v", trial, got, base)
		}
		if got := canonical(FindConnectedComponents(ns, append(slices.Clone(es), reversed...))); !reflect.DeepEqual(got, base) {
			t.Fatalf("trial %d: adding reverse edges changed partition: %v vs %v", trial, got, base)
		}
	}
}

func TestIdempotence(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	ns, es := randomGraph(rng, 25, 20)

	first := canonical(FindConnectedComponents(ns, es))
	second := canonical(FindConnectedComponents(ns, es))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated runs differ: %v vs %v", first, second)
	}
}

func TestFindCycles(t *testing.T) {
	tests := []struct {
		name  string
		nodes []concept.Concept
		edges []concept.Edge
		want  []concept.Edge
	}{
		{
			name:  "Acyclic",
			nodes: nodes("a", "b", "c"),
			edges: []concept.Edge{{From: "a", To: "b"}, {From: "a", To: "c"}, {From: "b", To: "c"}},
		},
		{
			name:  "MutualPair",
			nodes: nodes("a", "b"),
			edges: []concept.Edge{{From: "a", To: "b"}, {From: "b", To: "a"}},
			want:  []concept.Edge{{From: "b", To: "a"}},
		},
		{
			name:  "Triangle",
			nodes: nodes("a", "b", "c"),
			edges: []concept.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}},
			want:  []concept.Edge{{From: "c", To: "a"}},
		},
		{
			name:  "SelfLoop",
			nodes: nodes("a"),
			edges: []concept.Edge{{From: "a", To: "a"}},
			want:  []concept.Edge{{From: "a", To: "a"}},
		},
		{
			name:  "DanglingIgnored",
			nodes: nodes("a"),
			edges: []concept.Edge{{From: "a", To: "ghost"}, {From: "ghost", To: "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindCycles(tt.nodes, tt.edges)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindCycles() = %v, want %v", got, tt.want)
			}
		})
	}
}
