package cli

import (
	"context"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/concept/gate"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
)

type statusEntry struct {
	ID          string      `json:"id"`
	Name        string      `json:"name,omitempty"`
	Proficiency float64     `json:"proficiency"`
	DepthTier   int         `json:"depth_tier"`
	Status      gate.Status `json:"status"`
	Blockers    []string    `json:"blockers,omitempty"`
}

// locksReport is the --json form of the locks command.
type locksReport struct {
	Threshold float64             `json:"threshold"`
	Locked    []string            `json:"locked"`
	Frontier  []string            `json:"frontier"`
	Counts    map[gate.Status]int `json:"counts"`
	Concepts  []statusEntry       `json:"concepts"`
}

// locksCommand creates the locks command.
func (c *CLI) locksCommand() *cobra.Command {
	var (
		threshold float64
		frontier  bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "locks [graph.json]",
		Short: "Show which concepts are locked behind unmastered prerequisites",
		Long: `Show which concepts are locked behind unmastered prerequisites.

A concept is locked when at least one direct prerequisite has a proficiency
below the mastery threshold. Locks are not transitive: only direct
prerequisites count. Use --frontier to list just the concepts that are ready
to study next.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := c.pipelineOptions(cfg)
			if err := applyThreshold(cmd, &opts, threshold); err != nil {
				return err
			}
			return c.runLocks(cmd.Context(), args[0], opts, frontier, asJSON)
		},
	}

	addThresholdFlag(cmd, &threshold)
	cmd.Flags().BoolVar(&frontier, "frontier", false, "only list concepts that are ready to study")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func (c *CLI) runLocks(ctx context.Context, input string, opts pipeline.Options, frontier, asJSON bool) error {
	a, _, err := c.analyzeWith(ctx, input, opts)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(newLocksReport(a, opts.MasteryGate().Threshold()))
	}

	if frontier {
		printFrontier(a.Frontier)
		return nil
	}

	if len(a.Statuses) == 0 {
		printInfo("Graph has no concepts")
		return nil
	}

	rows := make([][]string, len(a.Statuses))
	for i, s := range a.Statuses {
		rows[i] = []string{
			s.Concept.DisplayName(),
			formatPercent(s.Concept.Proficiency),
			strconv.Itoa(s.Concept.DepthTier),
			string(s.Status),
			formatIDs(s.Blockers),
		}
	}
	printTable([]string{"Concept", "Proficiency", "Tier", "Status", "Blocked by"}, rows, func(row, col int) lipgloss.Style {
		if col == 3 && row < len(a.Statuses) {
			return statusStyle(a.Statuses[row].Status)
		}
		return lipgloss.NewStyle()
	})

	printKeyValue("threshold", formatPercent(opts.MasteryGate().Threshold()))
	printKeyValue("mastered", strconv.Itoa(a.Counts[gate.StatusMastered]))
	printKeyValue("available", strconv.Itoa(a.Counts[gate.StatusAvailable]))
	printKeyValue("locked", strconv.Itoa(a.Counts[gate.StatusLocked]))
	printEdgeWarnings(a)
	return nil
}

func printFrontier(frontier []concept.Concept) {
	if len(frontier) == 0 {
		printInfo("Nothing is ready to study")
		return
	}
	rows := make([][]string, len(frontier))
	for i, fc := range frontier {
		rows[i] = []string{fc.DisplayName(), formatPercent(fc.Proficiency), strconv.Itoa(fc.DepthTier)}
	}
	printTable([]string{"Ready to study", "Proficiency", "Tier"}, rows, nil)
}

func newLocksReport(a pipeline.Analysis, threshold float64) locksReport {
	r := locksReport{
		Threshold: threshold,
		Locked:    nonNil(a.Locked),
		Frontier:  []string{},
		Counts:    a.Counts,
		Concepts:  make([]statusEntry, len(a.Statuses)),
	}
	for _, fc := range a.Frontier {
		r.Frontier = append(r.Frontier, fc.ID)
	}
	for i, s := range a.Statuses {
		r.Concepts[i] = statusEntry{
			ID:          s.Concept.ID,
			Name:        s.Concept.Name,
			Proficiency: s.Concept.Proficiency,
			DepthTier:   s.Concept.DepthTier,
			Status:      s.Status,
			Blockers:    s.Blockers,
		}
	}
	return r
}

// addThresholdFlag registers --threshold. The flag only takes effect when set
// explicitly; otherwise the configured threshold applies.
func addThresholdFlag(cmd *cobra.Command, v *float64) {
	cmd.Flags().Float64Var(v, "threshold", gate.DefaultThreshold, "mastery threshold in [0,1] (overrides config)")
}

// applyThreshold overrides the gate in opts when --threshold was given.
func applyThreshold(cmd *cobra.Command, opts *pipeline.Options, v float64) error {
	if !cmd.Flags().Changed("threshold") {
		return nil
	}
	if err := cerrors.ValidateThreshold(v); err != nil {
		return err
	}
	gt := gate.New(v)
	opts.Gate = &gt
	return nil
}
