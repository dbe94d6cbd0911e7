package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/render/nodelink"
)

// RenderFormat renders one output format without caching.
func RenderFormat(ctx context.Context, g concept.Graph, l concept.Layout, format string, opts Options) ([]byte, error) {
	if format == FormatJSON {
		return concept.MarshalLayout(l)
	}

	gt := opts.MasteryGate()
	dot := nodelink.ToDOT(g, l, nodelink.Options{Detailed: opts.Detailed, Gate: &gt})
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
