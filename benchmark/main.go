// Package main provides a performance benchmarking tool for the AuditRadar CLI.
// It measures execution times of the scoring commands against a data directory,
// running each command multiple times, treating the first successful run as cold and
// averaging the rest as warm, and writes CSV output for performance analysis.
//
// Prerequisites:
// - auditradar binary installed and available in PATH
// - A data directory holding the input CSV tables (see examples/data)
//
// Usage: go run benchmark/main.go [data-dir]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run per backend.
type BenchmarkResult struct {
	Command    string
	Backend    string
	ColdTime   string
	WarmTime   string
	Successful int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	DataDir  string
	Timeout  time.Duration
	Runs     int
	Backends []string
	Commands [][]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [data-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		DataDir:  os.Args[1],
		Timeout:  2 * time.Minute,
		Runs:     5,
		Backends: []string{"memory", "sqlite"},
		Commands: [][]string{
			{"seed"},
			{"summary", "--output", "json"},
			{"drivers", "Cybersecurity Program", "--output", "json"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the auditradar binary and the units table exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("auditradar"); err != nil {
		return fmt.Errorf("auditradar binary not found in PATH")
	}
	unitsPath := filepath.Join(config.DataDir, "units.csv")
	if _, err := os.Stat(unitsPath); os.IsNotExist(err) {
		return fmt.Errorf("units table not found at %s", unitsPath)
	}
	return nil
}

// runBenchmarks executes every command against every backend
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d commands, %d backends, %v timeout, %d runs\n",
		len(config.Commands), len(config.Backends), config.Timeout, config.Runs)

	dbPath := filepath.Join(os.TempDir(), "auditradar_benchmark.db")
	defer func() { _ = os.Remove(dbPath) }()

	for _, backend := range config.Backends {
		for _, command := range config.Commands {
			args := append([]string{}, command...)
			args = append(args, "--data-dir", config.DataDir, "--backend", backend, "--log-level", "error")
			if backend == "sqlite" {
				args = append(args, "--db-connect", dbPath)
			}

			fmt.Printf("Running %s on %s\n", command[0], backend)
			cold, warm := runBenchmark(config, args)

			result := BenchmarkResult{
				Command:    command[0],
				Backend:    backend,
				ColdTime:   "TIMEOUT",
				WarmTime:   "TIMEOUT",
				Successful: len(warm),
			}
			if cold > 0 {
				result.ColdTime = fmt.Sprintf("%.3fs", cold)
				result.Successful++
			}
			if len(warm) > 0 {
				var sum float64
				for _, t := range warm {
					sum += t
				}
				result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
			}
			fmt.Printf("  Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmark executes an auditradar command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := exec.CommandContext(ctx, "auditradar", args...).Run()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("auditradar_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"cmd", "backend", "cold_time", "warm_avg", "successful"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Command, r.Backend, r.ColdTime, r.WarmTime, fmt.Sprint(r.Successful)}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %-8s %-7s: Cold: %s, Warm: %s (%d ok)\n", r.Command, r.Backend, r.ColdTime, r.WarmTime, r.Successful)
	}
}
