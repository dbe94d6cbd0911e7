package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/pkg/concept"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
)

// layoutFlags are shared by the layout and render commands.
type layoutFlags struct {
	seed    uint64
	noCache bool
	refresh bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for initial positions (overrides config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
}

func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("seed") {
		opts.Layout.Seed = f.seed
	}
	opts.Refresh = f.refresh
}

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute force-directed positions for a concept graph",
		Long: `Compute force-directed positions for a concept graph.

The layout command runs the force simulation and writes a layout.json document
mapping every concept ID to an (x, y) position. Foundation concepts settle near
the center and advanced ones toward the rim. The same graph and seed always
produce the same positions.

Results are cached, and mastery changes alone reuse the cached layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := c.pipelineOptions(cfg)
			flags.apply(cmd, &opts)

			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runLayout(cmd.Context(), runner, args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, runner *pipeline.Runner, input, output string, opts pipeline.Options) error {
	g, err := loadGraph(input)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath(input) + ".layout.json"
	}
	if err := cerrors.ValidatePath(outputPath); err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	layout, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := concept.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(g.Concepts), len(g.Edges), cacheHit)
	printNewline()
	printNextStep("Render", fmt.Sprintf("%s render %s --layout %s", appName, input, outputPath))

	return nil
}

// basePath strips the extension from path.
func basePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
