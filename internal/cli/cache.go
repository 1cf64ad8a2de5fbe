package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/pkg/cache"
	"github.com/matzehuels/conceptmap/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the sense and graph cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached senses and graphs",
		Long: `Remove all cached senses and graphs from the configured cache backend.

The file backend deletes every entry under the cache directory. The redis
backend deletes only keys under the conceptmap: prefix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.context(cmd)
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}

			switch cfg.Cache.Backend {
			case config.CacheFile:
				dir, err := cacheDir(cfg.Cache)
				if err != nil {
					return err
				}
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					printInfo("Cache is empty")
					return nil
				}
				fc, err := cache.NewFileCache(dir)
				if err != nil {
					return err
				}
				n, err := fc.Clear()
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", n)
				printDetail("Directory: %s", dir)

			case config.CacheRedis:
				rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
					Addr:   cfg.Cache.RedisAddr,
					DB:     cfg.Cache.RedisDB,
					Prefix: redisPrefix,
				})
				if err != nil {
					return err
				}
				defer rc.Close()
				n, err := rc.Clear(ctx)
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", n)
				printDetail("Redis: %s db %d", cfg.Cache.RedisAddr, cfg.Cache.RedisDB)

			default:
				printInfo("Cache backend %q keeps nothing between runs", cfg.Cache.Backend)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case config.CacheRedis:
				fmt.Fprintf(cmd.OutOrStdout(), "redis://%s/%d/%s*\n", cfg.Cache.RedisAddr, cfg.Cache.RedisDB, redisPrefix)
			default:
				dir, err := cacheDir(cfg.Cache)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
}
