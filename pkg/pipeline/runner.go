package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conceptmap/pkg/cache"
	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/concept/components"
	"github.com/matzehuels/conceptmap/pkg/concept/gate"
	"github.com/matzehuels/conceptmap/pkg/observability"
)

// Runner executes pipeline stages with caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// calls with different options provided its Cache is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means DefaultKeyer, a nil cache
// disables caching and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs analyze → layout → render.
func (r *Runner) Execute(ctx context.Context, g concept.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Graph:     g,
		GraphHash: contentHash(g),
	}
	result.Stats.ConceptCount = len(g.Concepts)
	result.Stats.EdgeCount = len(g.Edges)

	// Stage 1: Analyze
	start := time.Now()
	analysis, err := r.Analyze(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Analysis = analysis
	result.Stats.AnalyzeTime = time.Since(start)

	r.Logger.Info("analyzed graph",
		"concepts", len(g.Concepts),
		"edges", len(g.Edges),
		"components", len(analysis.Components),
		"locked", len(analysis.Locked),
		"duration", result.Stats.AnalyzeTime)

	// Stage 2: Layout
	start = time.Now()
	layout, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(layout.Positions),
		"iterations", layout.Iterations,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	start = time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Analyze computes the structural and mastery report for g.
func (r *Runner) Analyze(ctx context.Context, g concept.Graph, opts Options) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, len(g.Concepts), len(g.Edges))
	start := time.Now()

	gt := opts.MasteryGate()
	a := Analysis{
		Components:     components.FindConnectedComponents(g.Concepts, g.Edges),
		FullyConnected: components.IsFullyConnected(g.Concepts, g.Edges),
		Isolated:       components.Isolated(g.Concepts, g.Edges),
		Cycles:         components.FindCycles(g.Concepts, g.Edges),
		Dangling:       g.DanglingEdges(),
		Locked:         gt.LockedConcepts(g.Concepts, g.Edges).Sorted(),
		Statuses:       gt.Evaluate(g.Concepts, g.Edges),
		Frontier:       gt.Frontier(g.Concepts, g.Edges),
	}
	a.Counts = gate.Counts(a.Statuses)

	if len(a.Dangling) > 0 {
		r.Logger.Warn("edges reference unknown concepts", "count", len(a.Dangling))
	}
	if len(a.Cycles) > 0 {
		r.Logger.Warn("prerequisite cycles found", "back_edges", len(a.Cycles))
	}

	hooks.OnAnalyzeComplete(ctx, len(a.Components), len(a.Locked), time.Since(start), nil)
	return a, nil
}

// ComputeLayoutWithCacheInfo returns a layout for g and whether it came from
// the cache. The key covers only graph structure and layout parameters, so
// mastery updates reuse the cached positions.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g concept.Graph, opts Options) (concept.Layout, bool, error) {
	opts.SetLayoutDefaults()
	if err := ctx.Err(); err != nil {
		return concept.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(structureHash(g), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		} else if hit {
			if cached, err := concept.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(g.Concepts))
	start := time.Now()
	layout := GenerateLayout(g, opts.Layout)
	hooks.OnLayoutComplete(ctx, len(layout.Positions), layout.Iterations, time.Since(start), nil)

	if data, err := concept.MarshalLayout(layout); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return layout, false, nil
}

// ComputeLayout is ComputeLayoutWithCacheInfo without the cache hit flag.
func (r *Runner) ComputeLayout(ctx context.Context, g concept.Graph, opts Options) (concept.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo renders every requested format and reports whether all
// of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g concept.Graph, l concept.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := concept.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	renderHash := cache.Hash([]byte(contentHash(g) + cache.Hash(layoutData)))

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh
	for _, format := range opts.Formats {
		if opts.Refresh {
			break
		}
		key := r.Keyer.ArtifactKey(renderHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false
			continue
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	if allCached {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	for _, format := range opts.Formats {
		if _, ok := artifacts[format]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := RenderFormat(ctx, g, l, format, opts)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data

		key := r.Keyer.ArtifactKey(renderHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the cache hit flag.
func (r *Runner) Render(ctx context.Context, g concept.Graph, l concept.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, l, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
