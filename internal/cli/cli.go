// Package cli implements the conceptmap command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/pkg/buildinfo"
	"github.com/matzehuels/conceptmap/pkg/cache"
	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/config"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "conceptmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// cache hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installDebugHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Conceptmap analyzes and draws curriculum concept graphs",
		Long: `Conceptmap reads a concept graph (concepts with mastery scores linked by
prerequisite edges), reports its connected components and locked concepts, and
draws it as a force-directed map with foundations near the center.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	root.AddCommand(c.componentsCommand())
	root.AddCommand(c.locksCommand())
	root.AddCommand(c.prereqsCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads the --config file, or the default location when unset.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", c.resolvedConfigPath(), "backend", cfg.Cache.Backend)
	return cfg, nil
}

func (c *CLI) resolvedConfigPath() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Cache.Scope != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Scope)
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(ctx context.Context, cc config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cc.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}

	var store cache.Cache
	switch cc.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
		})
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeNetwork, err, "connect to redis at %s", cc.RedisAddr)
		}
		store = rc
	default:
		fc, err := cache.NewFileCache(cc.Dir)
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidPath, err, "open cache directory %s", cc.Dir)
		}
		store = fc
	}
	return cache.WithTTL(store, cc.TTL()), nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// loadGraph reads and validates a graph file, mapping failures to coded errors.
func loadGraph(path string) (concept.Graph, error) {
	if err := cerrors.ValidatePath(path); err != nil {
		return concept.Graph{}, err
	}
	g, err := concept.ReadGraphFile(path)
	if err != nil {
		return concept.Graph{}, graphError(path, err)
	}
	return g, nil
}

// pipelineOptions builds runner options from the loaded config.
func (c *CLI) pipelineOptions(cfg config.Config) pipeline.Options {
	gt := cfg.Gate.MasteryGate()
	return pipeline.Options{
		Gate:   &gt,
		Layout: cfg.Layout,
		Logger: c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// graphError classifies a graph read failure.
func graphError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "graph file %s not found", path)
	case errors.Is(err, concept.ErrInvalidConceptID), errors.Is(err, concept.ErrDuplicateConceptID):
		return cerrors.Wrap(cerrors.ErrCodeInvalidGraph, err, "invalid graph %s", path)
	default:
		return cerrors.Wrap(cerrors.ErrCodeInvalidGraph, err, "read graph %s", path)
	}
}
