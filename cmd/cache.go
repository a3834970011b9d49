package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/internal/iocache"
	"github.com/huangsam/slipstat/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// useColors resolves the --color flag for the maintenance commands.
func useColors() bool {
	enabled, err := contract.ParseBoolString(viper.GetString("color"))
	return err == nil && enabled
}

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	configureViper()
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// No history tracking for cache commands
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	cfg.UseColors = useColors()

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization instead of the full
// sharedSetup, so they work without a replay or record directory.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parsed record cache (improves performance)",
	Long: `Manage the cache of parsed game records.

Slipstat caches each parsed record keyed by the replay content, so parsing the
same replay twice skips decoding and classification.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached records

Examples:
  slipstat cache status
  slipstat cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached game records",
	Long: `Delete all cached game records from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  slipstat cache clear

  # Clear MySQL cache (set connection string via env variable)
  SLIPSTAT_CACHE_BACKEND=mysql SLIPSTAT_CACHE_DB_CONNECT="..." slipstat cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the open handle before the file or table goes away
		iocache.CloseStores()
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, connection state, entry count and entry age range
of the record cache.

Examples:
  slipstat cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRecordStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		if err := iocache.PrintCacheStatus(os.Stdout, status, cfg.UseColors); err != nil {
			contract.LogFatal("Failed to print cache status", err)
		}
	},
}
