package cmd

import (
	"fmt"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/internal/iocache"
	"github.com/huangsam/osscompass/schema"
	"github.com/spf13/cobra"
)

// cacheSetup loads configuration needed for cache operations.
// The store itself is opened by the subcommands that need it.
func cacheSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	return setupLogger()
}

// openResponseCache initializes the configured store and wraps it.
func openResponseCache() (*iocache.ResponseCache, error) {
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return newResponseCache(), nil
}

// sqlitePath returns the SQLite file the cache lives in.
func sqlitePath() string {
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.CacheDBConnect != "" {
		return cfg.CacheDBConnect
	}
	return contract.GetCacheDBFilePath()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands skip the GitHub client and only open the store
// when they need it.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the GitHub response cache",
	Long: `Manage the cache of GitHub API responses that avoids repeated searches.

Responses are kept for a few minutes. Once the cache holds --cache-capacity
entries the --cache-evict oldest ones are removed.

Supported backends: SQLite (default), MySQL, PostgreSQL, Memory or None

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove cached responses
  prune   - Remove expired responses
  migrate - Move the cache schema to a given version

Examples:
  # Check cache status
  osscompass cache status

  # Clear cached responses after changing your GitHub token
  osscompass cache clear`,
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display cache statistics and connection details",
	PreRunE: cacheSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		rc, err := openResponseCache()
		if err != nil {
			contract.LogFatal("Failed to open cache", err)
		}
		status, err := iocache.Manager.GetResponseStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(cmd.OutOrStdout(), status)

		n, err := rc.Len()
		if err != nil {
			contract.LogFatal("Failed to count cached responses", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "osscompass entries: %d (capacity %d)\n", n, cfg.CacheCapacity)
	},
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached GitHub responses",
	Long: `Delete cached GitHub responses from the configured backend.

By default only osscompass entries are removed. With --all the whole
backend is wiped:
For SQLite: Deletes the database file
For MySQL/PostgreSQL: Deletes every row in the cache table

Examples:
  osscompass cache clear
  OSSCOMPASS_CACHE_BACKEND=mysql OSSCOMPASS_CACHE_DB_CONNECT="..." osscompass cache clear --all`,
	PreRunE: cacheSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		all, _ := cmd.Flags().GetBool("all")
		if all {
			if err := iocache.ClearCache(cfg.CacheBackend, sqlitePath(), cfg.CacheDBConnect); err != nil {
				contract.LogFatal("Failed to clear cache", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared successfully.")
			return
		}

		rc, err := openResponseCache()
		if err != nil {
			contract.LogFatal("Failed to open cache", err)
		}
		n, err := rc.Clear()
		if err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached responses.\n", n)
	},
}

// cachePruneCmd removes expired entries.
var cachePruneCmd = &cobra.Command{
	Use:     "prune",
	Short:   "Remove expired cached responses",
	PreRunE: cacheSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		rc, err := openResponseCache()
		if err != nil {
			contract.LogFatal("Failed to open cache", err)
		}
		n, err := rc.Prune()
		if err != nil {
			contract.LogFatal("Failed to prune cache", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired responses.\n", n)
	},
}

// cacheMigrateCmd moves the cache schema between versions.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the cache schema",
	Long: `Apply or roll back cache schema migrations for SQLite, MySQL or PostgreSQL.

Examples:
  # Upgrade to the latest schema
  osscompass cache migrate

  # Roll back everything
  osscompass cache migrate --target-version 0`,
	PreRunE: cacheSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		target, _ := cmd.Flags().GetInt("target-version")
		res, err := iocache.MigrateCache(cfg.CacheBackend, cfg.CacheDBConnect, target)
		if err != nil {
			contract.LogFatal("Failed to migrate cache", err)
		}
		if !res.Changed {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cache schema already at version %d.\n", res.To)
			return
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Migrated cache schema from version %d to %d.\n", res.From, res.To)
	},
}
