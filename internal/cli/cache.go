package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/pkg/cache"
	"github.com/matzehuels/conceptmap/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}

			store, err := newCache(cmd.Context(), cfg.Cache, false)
			if err != nil {
				return err
			}
			defer store.Close()

			cl, ok := store.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared", cfg.Cache.Backend)
			}
			if err := cl.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %s cache", cfg.Cache.Backend)
			printDetail("%s", cacheLocation(cfg.Cache))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached entries are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, cacheLocation(cfg.Cache))
			return nil
		},
	}
}

// cacheLocation describes the backend: a directory, a redis URL or "disabled".
func cacheLocation(cc config.CacheConfig) string {
	switch cc.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d", cc.RedisAddr, cc.RedisDB)
	case config.BackendNone:
		return "disabled"
	default:
		return cc.Dir
	}
}
