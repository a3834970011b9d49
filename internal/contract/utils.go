package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	HeadingColor = color.New(color.FgCyan, color.Bold) // HeadingColor marks section titles.
	MoveColor    = color.New(color.FgYellow)           // MoveColor highlights move names.
	OkColor      = color.New(color.FgGreen)            // OkColor marks healthy status.
	BadColor     = color.New(color.FgRed, color.Bold)  // BadColor marks failed status.
)

// Paint applies c to text when enabled, otherwise returns text untouched.
func Paint(c *color.Color, text string, enabled bool) string {
	if !enabled {
		return text
	}
	return c.Sprint(text)
}

// StatusLabel returns a connected/disconnected label for status tables.
func StatusLabel(connected, useColors bool) string {
	if connected {
		return Paint(OkColor, "connected", useColors)
	}
	return Paint(BadColor, "disconnected", useColors)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means standard output.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the record cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".slipstat_cache.db"
	}
	return filepath.Join(homeDir, ".slipstat_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for aggregation history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".slipstat_history.db"
	}
	return filepath.Join(homeDir, ".slipstat_history.db")
}

// RecordFileName maps a replay path to the file name its GameRecord is saved under.
// "games/match 1.slp" becomes "match 1.json".
func RecordFileName(replayPath string) string {
	base := filepath.Base(replayPath)
	if base == string(filepath.Separator) || base == "." {
		base = "record"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
