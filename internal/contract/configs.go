package contract

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/huangsam/slipstat/schema"
)

// Default values for configuration.
const (
	DefaultPattern   = "*.json"
	DefaultRedisAddr = "redis://localhost:6379/0"
	DefaultRedisKey  = "slipstat"
	MaxWorkers       = 1024
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a command.
// This struct is the "final, validated" config.
type Config struct {
	Target       string // replay file for parse, record directory for aggregate
	Output       schema.OutputMode
	OutputFile   string
	Workers      int
	ExtractMoves bool
	SaveDir      string
	Publish      bool
	Pattern      string

	Source    schema.RecordSourceKind
	RedisAddr string // Please use env var as this may hold a password
	RedisKey  string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored headings in text output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	TargetStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Workers          int    `mapstructure:"workers"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	RedisAddr        string `mapstructure:"redis-addr"`
	RedisKey         string `mapstructure:"redis-key"`

	// --- Fields from parseCmd.Flags() ---
	ExtractMoves bool   `mapstructure:"extract-moves"`
	SaveDir      string `mapstructure:"save-dir"`
	Publish      bool   `mapstructure:"publish"`

	// --- Fields from aggregateCmd.Flags() ---
	Pattern string `mapstructure:"pattern"`
	Source  string `mapstructure:"source"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithTarget creates a copy of the Config pointing at a different target.
func (c *Config) CloneWithTarget(target string) *Config {
	clone := c.Clone()
	clone.Target = target
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processRecordSource(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and worker fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Target = input.TargetStr
	cfg.OutputFile = input.OutputFile
	cfg.ExtractMoves = input.ExtractMoves
	cfg.SaveDir = input.SaveDir
	cfg.Publish = input.Publish

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be greater than 0 and cannot exceed %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	output, err := schema.ParseOutputMode(input.Output)
	if err != nil {
		return err
	}
	cfg.Output = output

	if output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history: %w", err)
	}

	// Both stores create their own tables, so two SQLite stores must not share a file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// processRecordSource validates where aggregation reads records from and
// where parse publishes them.
func processRecordSource(cfg *Config, input *ConfigRawInput) error {
	source := input.Source
	if source == "" {
		source = string(schema.DirSource)
	}
	cfg.Source = schema.RecordSourceKind(strings.ToLower(source))
	if _, ok := schema.ValidRecordSources[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be dir, redis", input.Source)
	}

	cfg.Pattern = input.Pattern
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if err := validatePattern(cfg.Pattern); err != nil {
		return err
	}

	cfg.RedisAddr = input.RedisAddr
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = DefaultRedisAddr
	}
	cfg.RedisKey = strings.TrimSpace(input.RedisKey)
	if cfg.RedisKey == "" {
		cfg.RedisKey = DefaultRedisKey
	}
	if strings.ContainsAny(cfg.RedisKey, " \t\n") {
		return fmt.Errorf("redis key %q must not contain whitespace", cfg.RedisKey)
	}
	return nil
}

// validatePattern checks that pattern is a well-formed file name glob.
func validatePattern(pattern string) error {
	if strings.ContainsRune(pattern, filepath.Separator) {
		return fmt.Errorf("pattern %q must match file names, not paths", pattern)
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return nil
}

// RevalidateAggregate re-checks the aggregation fields of a Config that were
// changed after ProcessAndValidate, as the MCP server does per request.
func RevalidateAggregate(cfg *Config) error {
	if _, ok := schema.ValidRecordSources[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be dir, redis", cfg.Source)
	}
	if cfg.Source == schema.DirSource && cfg.Target == "" {
		return fmt.Errorf("a record directory is required for the %s source", schema.DirSource)
	}
	if cfg.Workers <= 0 || cfg.Workers > MaxWorkers {
		return fmt.Errorf("workers must be greater than 0 and cannot exceed %d (received %d)", MaxWorkers, cfg.Workers)
	}
	return validatePattern(cfg.Pattern)
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
