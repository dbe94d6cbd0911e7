package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/pkg/concept"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // base path for output files
	layoutPath string   // precomputed layout.json; empty runs the simulation
	formats    []string // svg, png, dot, json
	detailed   bool     // proficiency and tier in node labels
	threshold  float64
	layoutFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		opts       renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Draw a concept graph as SVG, PNG or DOT",
		Long: `Draw a concept graph as SVG, PNG or DOT.

Nodes are pinned at their force-layout positions and filled by status:
mastered, available or locked. Without --layout the positions are computed
(or taken from the cache) first; with --layout an existing layout.json is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			popts := c.pipelineOptions(cfg)
			popts.Formats = opts.formats
			popts.Detailed = opts.detailed
			opts.layoutFlags.apply(cmd, &popts)
			if err := applyThreshold(cmd, &popts, opts.threshold); err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), cfg, opts.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runRender(cmd.Context(), runner, args[0], opts, popts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: <input> without extension)")
	cmd.Flags().StringVar(&opts.layoutPath, "layout", "", "use a precomputed layout.json")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output formats, comma-separated: "+strings.Join(pipeline.ValidFormats, ", ")+" (default: svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show proficiency and tier in node labels")
	addThresholdFlag(cmd, &opts.threshold)
	opts.layoutFlags.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, runner *pipeline.Runner, input string, opts renderOpts, popts pipeline.Options) error {
	g, err := loadGraph(input)
	if err != nil {
		return err
	}

	base := opts.output
	if base == "" {
		base = basePath(input)
	}
	if err := cerrors.ValidatePath(base); err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()

	var (
		artifacts map[string][]byte
		cached    bool
		locked    int
	)
	if opts.layoutPath != "" {
		artifacts, cached, err = renderWithLayout(ctx, runner, g, opts.layoutPath, popts)
	} else {
		var res *pipeline.Result
		res, err = runner.Execute(ctx, g, popts)
		if err == nil {
			artifacts = res.Artifacts
			cached = res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit
			locked = len(res.Analysis.Locked)
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, base, popts.Formats)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d %s", len(paths), plural(len(paths), "file", "files"))
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(g.Concepts), len(g.Edges), cached)
	if locked > 0 {
		printDetail("%d locked %s", locked, plural(locked, "concept", "concepts"))
	}
	return nil
}

func renderWithLayout(ctx context.Context, runner *pipeline.Runner, g concept.Graph, path string, opts pipeline.Options) (map[string][]byte, bool, error) {
	if err := cerrors.ValidatePath(path); err != nil {
		return nil, false, err
	}
	l, err := concept.ReadLayoutFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "layout file %s not found", path)
	}
	if err != nil {
		return nil, false, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "read layout %s", path)
	}
	return runner.RenderWithCacheInfo(ctx, g, l, opts)
}

// writeArtifacts writes each format to base.<ext> in the requested order.
// The layout document goes to base.layout.json.
func writeArtifacts(artifacts map[string][]byte, base string, formats []string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if format == pipeline.FormatJSON {
			path = base + ".layout.json"
		}
		if slices.Contains(paths, path) {
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
