// Package pipeline runs the analyze → layout → render flow for concept
// graphs.
//
// The CLI and any embedding service share this package so that caching,
// logging and observability behave the same everywhere.
//
// # Stages
//
//  1. Analyze: connected components, cycles, prerequisite locks, per-concept
//     status and the study frontier
//  2. Layout: tier-aware force simulation, cached by graph structure and
//     layout parameters
//  3. Render: DOT, SVG, PNG or the layout document as JSON, cached by graph,
//     layout and render options
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Stages can also run individually:
//
//	analysis, err := runner.Analyze(ctx, g, opts)
//	layout, err := runner.ComputeLayout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, g, layout, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conceptmap/pkg/cache"
	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/concept/gate"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/layout/force"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json" // the layout document
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatDOT, FormatJSON}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := cerrors.ValidateFormat(f, ValidFormats...); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Gate decides mastery. nil means gate.Default().
	Gate *gate.Gate `json:"-"`

	// Layout parameters; zero fields take force defaults.
	Layout force.Options `json:"layout"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults applies layout and render defaults and validates
// the result. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills zero layout parameters and the logger.
func (o *Options) SetLayoutDefaults() {
	o.Layout.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults selects SVG when no format is given.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies render defaults and checks the formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// MasteryGate returns the configured gate or the default one.
func (o *Options) MasteryGate() gate.Gate {
	if o.Gate != nil {
		return *o.Gate
	}
	return gate.Default()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	params := o.Layout
	params.SetDefaults()
	seed := params.Seed
	params.Seed = 0
	h, _ := cache.HashJSON(params)
	return cache.LayoutKeyOpts{Seed: seed, ParamsHash: h}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Threshold: o.MasteryGate().Threshold(),
		Detailed:  o.Detailed,
	}
}

// =============================================================================
// Results
// =============================================================================

// Analysis is the structural and mastery report for a graph.
type Analysis struct {
	Components     [][]string
	FullyConnected bool
	Isolated       []string
	Cycles         []concept.Edge
	Dangling       []concept.Edge

	Locked   []string // sorted
	Statuses []gate.ConceptStatus
	Counts   map[gate.Status]int
	Frontier []concept.Concept
}

// IsLocked reports whether id is in Locked.
func (a Analysis) IsLocked(id string) bool {
	_, found := slices.BinarySearch(a.Locked, id)
	return found
}

// Result contains the outputs of a full pipeline run.
type Result struct {
	Graph     concept.Graph
	GraphHash string
	Analysis  Analysis
	Layout    concept.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ConceptCount int
	EdgeCount    int
	AnalyzeTime  time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every requested artifact came from cache
}
