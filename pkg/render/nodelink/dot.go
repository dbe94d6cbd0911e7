package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/concept/gate"
)

// Options configures node-link diagram generation.
type Options struct {
	// Detailed adds proficiency and depth tier to node labels.
	Detailed bool

	// Gate decides node status colors. nil means gate.Default().
	Gate *gate.Gate
}

var statusFill = map[gate.Status]string{
	gate.StatusMastered:  "#b7e4c7",
	gate.StatusAvailable: "#ffe8a3",
	gate.StatusLocked:    "#e0e0e0",
}

// ToDOT converts a concept graph and its layout to Graphviz DOT. Concepts
// without a position in l are left unpinned. Edges with unknown endpoints are
// omitted.
func ToDOT(g concept.Graph, l concept.Layout, opts Options) string {
	gt := gate.Default()
	if opts.Gate != nil {
		gt = *opts.Gate
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [color=\"#888888\", arrowsize=0.7];\n")
	buf.WriteString("\n")

	known := make(map[string]bool, len(g.Concepts))
	for _, s := range gt.Evaluate(g.Concepts, g.Edges) {
		c := s.Concept
		if known[c.ID] {
			continue
		}
		known[c.ID] = true

		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(c, opts.Detailed)),
			fmt.Sprintf("fillcolor=%q", statusFill[s.Status]),
		}
		if p, ok := l.Positions[c.ID]; ok {
			// DOT's y axis points up; screen layouts point down.
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(p.X), fmtCoord(-p.Y)))
		}
		if s.Status == gate.StatusLocked {
			attrs = append(attrs, "fontcolor=\"#666666\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", c.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if !known[e.From] || !known[e.To] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c concept.Concept, detailed bool) string {
	name := c.DisplayName()
	if !detailed {
		return name
	}
	return fmt.Sprintf("%s\nproficiency: %.0f%%\ntier: %d", name, c.Proficiency*100, c.DepthTier)
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG renders DOT to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT to PNG with the neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the SVG scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
