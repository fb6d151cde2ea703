package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pydocs/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the HTTP response cache",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file selecting the cache backend")

	cmd.AddCommand(c.cacheClearCommand(&configPath))
	cmd.AddCommand(c.cachePathCommand(&configPath))

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached HTTP responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Cache.Backend == config.CacheNone {
				printInfo(out, "Cache is disabled")
				return nil
			}

			store, err := c.openCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo(out, "Cache is empty")
				return nil
			}
			printSuccess(out, "Cleared %d cached entries", n)
			printDetail(out, "Backend: %s", describeCache(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached responses are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeCache(cfg))
			return nil
		},
	}
}

// describeCache returns the cache directory, the redis URL or "none".
func describeCache(cfg *config.Config) string {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return config.CacheNone
	case config.CacheRedis:
		return cfg.Cache.RedisURL
	}
	dir, err := fileCacheDir(cfg)
	if err != nil {
		return "unavailable: " + err.Error()
	}
	return dir
}
