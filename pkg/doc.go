// Package pkg provides the core libraries for conceptmap, a toolkit for
// analyzing and drawing curriculum concept graphs.
//
// # Overview
//
// A concept graph holds concepts with a learner's proficiency score and depth
// tier, linked by prerequisite edges. The pkg directory is organized as:
//
//  1. [concept] - Graph model and JSON documents for graphs and layouts
//  2. [concept/components] - Connected components and prerequisite cycles
//  3. [concept/gate] - Mastery threshold, locked concepts and study frontier
//  4. [layout/force] - Force-directed placement with radial tier bias
//  5. [render/nodelink] - DOT, SVG and PNG drawings colored by status
//  6. [pipeline] - Orchestration (analyze → layout → render) with caching
//  7. [cache], [config], [errors], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	graph.json
//	     ↓
//	[concept] package (decode, validate, clamp scores)
//	     ↓
//	[concept/components] + [concept/gate] (structure and mastery report)
//	     ↓
//	[layout/force] package (positions, cached by graph structure)
//	     ↓
//	[render/nodelink] package (pinned neato drawing)
//	     ↓
//	SVG/PNG/DOT/JSON output
//
// # Quick Start
//
//	g, _ := concept.ReadGraphFile("examples/graphs/algebra.json")
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(ctx, g, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	os.WriteFile("algebra.svg", res.Artifacts[pipeline.FormatSVG], 0o644)
//
// The core functions are also usable directly:
//
//	groups := components.FindConnectedComponents(g.Concepts, g.Edges)
//	locked := gate.Default().LockedConcepts(g.Concepts, g.Edges)
//	pos := force.ComputeLayout(nodes, links, nil)
package pkg
