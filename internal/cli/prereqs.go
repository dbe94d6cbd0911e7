package cli

import (
	"context"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/concept/gate"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
)

type prereqEntry struct {
	ID          string  `json:"id"`
	Proficiency float64 `json:"proficiency"`
	Mastered    bool    `json:"mastered"`
}

// prereqsReport is the --json form of the prereqs command.
type prereqsReport struct {
	Concept       string        `json:"concept"`
	Locked        bool          `json:"locked"`
	Prerequisites []prereqEntry `json:"prerequisites"`
	Dependents    []string      `json:"dependents"`
}

// prereqsCommand creates the prereqs command.
func (c *CLI) prereqsCommand() *cobra.Command {
	var (
		threshold float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "prereqs [graph.json] [concept-id]",
		Short: "Show the direct prerequisites and dependents of one concept",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := c.pipelineOptions(cfg)
			if err := applyThreshold(cmd, &opts, threshold); err != nil {
				return err
			}
			return c.runPrereqs(cmd.Context(), args[0], args[1], opts, asJSON)
		},
	}

	addThresholdFlag(cmd, &threshold)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func (c *CLI) runPrereqs(ctx context.Context, input, id string, opts pipeline.Options, asJSON bool) error {
	if err := cerrors.ValidateConceptID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	g, err := loadGraph(input)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(g.Concepts, func(cc concept.Concept) bool { return cc.ID == id })
	if i < 0 {
		return cerrors.New(cerrors.ErrCodeConceptNotFound, "concept %q not found in %s", id, input)
	}
	target := g.Concepts[i]

	gt := opts.MasteryGate()
	prereqs := gt.Prerequisites(id, g.Concepts, g.Edges)
	dependents := gt.Dependents(id, g.Concepts, g.Edges)
	locked := gt.IsLocked(id, g.Concepts, g.Edges)

	if asJSON {
		r := prereqsReport{Concept: id, Locked: locked, Prerequisites: []prereqEntry{}, Dependents: []string{}}
		for _, p := range prereqs {
			r.Prerequisites = append(r.Prerequisites, prereqEntry{ID: p.Concept.ID, Proficiency: p.Concept.Proficiency, Mastered: p.Mastered})
		}
		for _, d := range dependents {
			r.Dependents = append(r.Dependents, d.ID)
		}
		return writeJSON(r)
	}

	status := gate.StatusAvailable
	switch {
	case gt.IsMastered(target):
		status = gate.StatusMastered
	case locked:
		status = gate.StatusLocked
	}
	printKeyValue("concept", StyleTitle.Render(target.DisplayName()))
	printKeyValue("proficiency", formatPercent(target.Proficiency))
	printKeyValue("status", statusStyle(status).Render(string(status)))
	printNewline()

	if len(prereqs) == 0 {
		printInfo("No prerequisites")
	} else {
		rows := make([][]string, len(prereqs))
		for i, p := range prereqs {
			mark := iconError
			if p.Mastered {
				mark = iconSuccess
			}
			rows[i] = []string{p.Concept.DisplayName(), formatPercent(p.Concept.Proficiency), mark}
		}
		printTable([]string{"Prerequisite", "Proficiency", "Mastered"}, rows, func(row, col int) lipgloss.Style {
			if col == 2 && row < len(prereqs) {
				if prereqs[row].Mastered {
					return styleMastered
				}
				return styleLocked
			}
			return lipgloss.NewStyle()
		})
	}

	if len(dependents) > 0 {
		ids := make([]string, len(dependents))
		for i, d := range dependents {
			ids[i] = d.ID
		}
		printInfo("Unlocks %d concepts", len(dependents))
		printDetail("%s", formatIDs(ids))
	}
	return nil
}
