package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
)

// componentsReport is the --json form of the components command.
type componentsReport struct {
	Components     [][]string     `json:"components"`
	FullyConnected bool           `json:"fully_connected"`
	Isolated       []string       `json:"isolated"`
	Cycles         []concept.Edge `json:"cycles"`
	Dangling       []concept.Edge `json:"dangling"`
}

// componentsCommand creates the components command.
func (c *CLI) componentsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "components [graph.json]",
		Short: "List the connected components of a concept graph",
		Long: `List the connected components of a concept graph.

Edges are treated as undirected, so two concepts share a component when any
chain of prerequisite links joins them. Isolated concepts, prerequisite cycles
and edges that point at unknown concepts are reported as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runComponents(cmd.Context(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func (c *CLI) runComponents(ctx context.Context, input string, asJSON bool) error {
	a, _, err := c.analyze(ctx, input)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(componentsReport{
			Components:     nonNil(a.Components),
			FullyConnected: a.FullyConnected,
			Isolated:       nonNil(a.Isolated),
			Cycles:         nonNil(a.Cycles),
			Dangling:       nonNil(a.Dangling),
		})
	}

	if len(a.Components) == 0 {
		printInfo("Graph has no concepts")
		return nil
	}

	rows := make([][]string, len(a.Components))
	for i, comp := range a.Components {
		rows[i] = []string{strconv.Itoa(i + 1), strconv.Itoa(len(comp)), formatIDs(comp)}
	}
	printTable([]string{"#", "Size", "Concepts"}, rows, nil)

	if a.FullyConnected {
		printSuccess("Graph is fully connected")
	} else {
		printInfo("%d components", len(a.Components))
	}
	if len(a.Isolated) > 0 {
		printWarning("%d isolated concepts", len(a.Isolated))
		printDetail("%s", formatIDs(a.Isolated))
	}
	printEdgeWarnings(a)
	return nil
}

// analyze loads input and runs the analysis stage without caching.
func (c *CLI) analyze(ctx context.Context, input string) (pipeline.Analysis, concept.Graph, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Analysis{}, concept.Graph{}, err
	}
	return c.analyzeWith(ctx, input, c.pipelineOptions(cfg))
}

func (c *CLI) analyzeWith(ctx context.Context, input string, opts pipeline.Options) (pipeline.Analysis, concept.Graph, error) {
	prog := newProgress(c.Logger)
	g, err := loadGraph(input)
	if err != nil {
		return pipeline.Analysis{}, concept.Graph{}, err
	}
	prog.done(fmt.Sprintf("Loaded %d concepts", len(g.Concepts)))

	a, err := pipeline.NewRunner(nil, nil, c.Logger).Analyze(ctx, g, opts)
	if err != nil {
		return pipeline.Analysis{}, concept.Graph{}, err
	}
	return a, g, nil
}

// printEdgeWarnings reports cycles and dangling edges.
func printEdgeWarnings(a pipeline.Analysis) {
	if len(a.Cycles) > 0 {
		printWarning("%d prerequisite cycles", len(a.Cycles))
		for _, e := range a.Cycles {
			printDetail("%s %s %s", e.From, iconArrow, e.To)
		}
	}
	if len(a.Dangling) > 0 {
		printWarning("%d edges reference unknown concepts", len(a.Dangling))
		for _, e := range a.Dangling {
			printDetail("%s %s %s", e.From, iconArrow, e.To)
		}
	}
}

// writeJSON prints v as indented JSON.
func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// nonNil turns a nil slice into an empty one so JSON shows [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
