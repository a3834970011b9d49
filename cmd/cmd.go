// Package cmd defines the command-line interface for slipstat.
package cmd

import (
	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(movesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet (aliases: structured, tabular, narrative)")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Record cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Aggregation history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for aggregation history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("redis-addr", contract.DefaultRedisAddr, "Redis URL used by --publish and --source redis")
	rootCmd.PersistentFlags().String("redis-key", contract.DefaultRedisKey, "Redis list key holding published records")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of parseCmd to Viper
	parseCmd.Flags().Bool("extract-moves", true, "Classify frames into moves (false keeps only game metadata)")
	parseCmd.Flags().String("save-dir", "", "Directory to save the parsed record into as JSON")
	parseCmd.Flags().Bool("publish", false, "Push the parsed record onto the Redis list")
	if err := viper.BindPFlags(parseCmd.Flags()); err != nil {
		contract.LogFatal("Error binding parse flags", err)
	}

	// Bind all flags of aggregateCmd to Viper
	aggregateCmd.Flags().String("pattern", contract.DefaultPattern, "File name glob selecting records in the directory")
	aggregateCmd.Flags().String("source", string(schema.DirSource), "Record source: dir or redis")
	if err := viper.BindPFlags(aggregateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding aggregate flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
