// Package nodelink renders concept graphs as node-link diagrams.
//
// # Overview
//
// Nodes are drawn at the positions computed by the force layout, pinned with
// Graphviz's pos="x,y!" attribute so the neato engine only routes edges. Each
// node is filled by its gate status: green for mastered, amber for available
// and grey for locked. Edges point from prerequisite to dependent.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, layout, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: labels also show proficiency and depth tier
//   - Gate: threshold used to color nodes; nil means the default
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process, so no system installation is required for SVG or PNG output.
package nodelink
