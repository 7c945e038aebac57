// Package main benchmarks the osscompass CLI against the live GitHub API.
// Each command runs several times per developer profile: once without a cache,
// then with the SQLite cache where the first successful run is cold and the
// rest are averaged as warm. Results are written to a CSV file.
//
// Prerequisites:
// - osscompass binary installed and available in PATH
// - OSSCOMPASS_GITHUB_TOKEN set to avoid the anonymous rate limit
//
// Usage: go run benchmark/main.go [cache-db-path]
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Profile     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkProfile is one developer profile passed to every command.
type BenchmarkProfile struct {
	Name       string
	Languages  string
	Experience string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	CacheDB     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Profiles    []BenchmarkProfile
	Commands    []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [cache-db-path]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		CacheDB:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Profiles: []BenchmarkProfile{
			{Name: "go-beginner", Languages: "go", Experience: "beginner"},
			{Name: "polyglot", Languages: "python,rust,typescript", Experience: "intermediate"},
			{Name: "jvm-advanced", Languages: "java,kotlin", Experience: "advanced"},
		},
		Commands: []string{"repos", "issues", "recommend"},
	}

	if _, err := exec.LookPath("osscompass"); err != nil {
		fmt.Println("Prerequisites check failed: osscompass binary not found in PATH")
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("osscompass", "cache", "clear", "--all", "--cache-db-connect", config.CacheDB)
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// runBenchmarks executes every command for every profile.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d profiles, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Profiles), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, profile := range config.Profiles {
		fmt.Printf("Benchmarking %s\n", profile.Name)
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, profile, command))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, profile BenchmarkProfile, command string) BenchmarkResult {
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s %s phase (%d runs)\n", command, phaseName, numRuns)
		cold, times := runBenchmark(config, profile, command, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Profile:     profile.Name,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark runs one command numRuns times and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, profile BenchmarkProfile, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		command,
		"--languages", profile.Languages,
		"--experience", profile.Experience,
		"--cache-backend", cacheBackend,
		"--cache-db-connect", config.CacheDB,
		"--color", "no",
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("osscompass", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "completed in") && strings.Contains(outputStr, "Cache backend")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/osscompass_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"profile", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Profile, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-14s: No-cache: %s, Cold: %s, Warm: %s\n", result.Profile, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
