// Package main provides a performance benchmarking tool for the slipstat CLI.
// It measures how long parse takes over every replay of each corpus directory,
// with the record cache disabled and enabled, and how long aggregate takes
// over the saved records. The first cached pass is cold, the rest are warm.
//
// Prerequisites:
// - slipstat binary installed and available in PATH
// - One or more directories of .slp replays under the base directory
//
// Usage: go run benchmark/main.go [replay-base-dir]
//
//	replay-base-dir: Directory whose subdirectories each hold a replay corpus
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Corpus      string
	Command     string
	Replays     int
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	ReplayBase  string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [replay-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		ReplayBase:  os.Args[1],
		Timeout:     5 * time.Minute,
		Workers:     8,
		NoCacheRuns: 3,
		CacheRuns:   4,
	}

	corpora, err := findCorpora(config.ReplayBase)
	if err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("slipstat", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config, corpora)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// findCorpora returns the replays of every subdirectory that holds at least one.
func findCorpora(base string) (map[string][]string, error) {
	if _, err := exec.LookPath("slipstat"); err != nil {
		return nil, fmt.Errorf("slipstat binary not found in PATH")
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}
	corpora := make(map[string][]string)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		replays, err := filepath.Glob(filepath.Join(base, e.Name(), "*.slp"))
		if err != nil {
			return nil, err
		}
		if len(replays) > 0 {
			corpora[e.Name()] = replays
		}
	}
	if len(corpora) == 0 {
		return nil, fmt.Errorf("no replay directories found under %s", base)
	}
	return corpora, nil
}

// runBenchmarks executes all benchmark suites across the corpora.
func runBenchmarks(config BenchmarkConfig, corpora map[string][]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d corpora, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(corpora), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for name, replays := range corpora {
		fmt.Printf("Benchmarking %s (%d replays)\n", name, len(replays))

		recordDir, err := os.MkdirTemp("", "slipstat-bench-records-*")
		if err != nil {
			fmt.Printf("Warning: failed to create record dir: %v\n", err)
			continue
		}

		parse := func(cacheBackend string) error {
			for _, replay := range replays {
				if err := runSlipstat(config, "parse", replay, "--cache-backend", cacheBackend, "--save-dir", recordDir, "--output", "json"); err != nil {
					return err
				}
			}
			return nil
		}
		results = append(results, runBenchmarkSuite(config, name, "parse", len(replays), parse))

		aggregate := func(cacheBackend string) error {
			return runSlipstat(config, "aggregate", recordDir, "--cache-backend", cacheBackend, "--output", "json")
		}
		results = append(results, runBenchmarkSuite(config, name, "aggregate", len(replays), aggregate))

		_ = os.RemoveAll(recordDir)
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache phases of one command.
func runBenchmarkSuite(config BenchmarkConfig, corpus, command string, replays int, run func(cacheBackend string) error) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, corpus)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := timeRuns(numRuns, func() error { return run(cacheBackend) })
		if len(times) == 0 {
			avgTime = "FAILED"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "FAILED"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Corpus:      corpus,
		Command:     command,
		Replays:     replays,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// timeRuns calls run numRuns times and returns the first successful duration
// and the durations of the later successful runs.
func timeRuns(numRuns int, run func() error) (coldTime float64, warmTimes []float64) {
	var times []float64
	for range numRuns {
		start := time.Now()
		if err := run(); err == nil {
			times = append(times, time.Since(start).Seconds())
		}
	}
	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// runSlipstat runs one slipstat command, giving up after the configured timeout.
func runSlipstat(config BenchmarkConfig, args ...string) error {
	args = append(args, "--workers", fmt.Sprint(config.Workers))
	cmd := exec.Command("slipstat", args...)

	done := make(chan error, 1)
	go func() {
		output, err := cmd.CombinedOutput()
		if err != nil {
			err = fmt.Errorf("%w: %s", err, output)
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(config.Timeout):
		_ = cmd.Process.Kill()
		return fmt.Errorf("timed out after %v", config.Timeout)
	}
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/slipstat_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"corpus", "cmd", "replays", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Corpus, r.Command, fmt.Sprint(r.Replays), r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	printCommandSummary(results, "parse", "Parse:")
	printCommandSummary(results, "aggregate", "Aggregate:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, r := range results {
		if r.Command == command {
			fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", r.Corpus, r.NoCacheTime, r.ColdTime, r.WarmTime)
		}
	}
}
