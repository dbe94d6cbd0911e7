package pipeline

import (
	"github.com/google/uuid"

	"github.com/matzehuels/conceptmap/pkg/cache"
	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/layout/force"
)

// GenerateLayout runs the force simulation for g without caching. Each call
// produces a layout with a fresh ID.
func GenerateLayout(g concept.Graph, opts force.Options) concept.Layout {
	nodes, links := forceInput(g)
	opts.SetDefaults()
	res := force.Simulate(nodes, links, &opts)

	positions := make(map[string]concept.Position, len(res.Positions))
	for id, p := range res.Positions {
		positions[id] = concept.Position{X: p.X, Y: p.Y}
	}
	return concept.Layout{
		ID:         uuid.NewString(),
		Seed:       opts.Seed,
		Scale:      res.Scale,
		Iterations: res.Iterations,
		Positions:  positions,
	}
}

func forceInput(g concept.Graph) ([]force.Node, []force.Link) {
	nodes := make([]force.Node, len(g.Concepts))
	for i, c := range g.Concepts {
		nodes[i] = force.Node{ID: c.ID, Tier: c.DepthTier}
	}
	links := make([]force.Link, len(g.Edges))
	for i, e := range g.Edges {
		links[i] = force.Link{Source: e.From, Target: e.To}
	}
	return nodes, links
}

// structureHash hashes only what the simulation reads: IDs, tiers and links.
// Proficiency changes therefore reuse a cached layout.
func structureHash(g concept.Graph) string {
	nodes, links := forceInput(g)
	h, _ := cache.HashJSON(struct {
		Nodes []force.Node `json:"nodes"`
		Links []force.Link `json:"links"`
	}{nodes, links})
	return h
}

// contentHash hashes the whole graph, including mastery scores.
func contentHash(g concept.Graph) string {
	data, err := concept.MarshalGraph(g)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
