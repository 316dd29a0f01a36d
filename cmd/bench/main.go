// README: Smoke and throughput runner for a live KiloShare API; checks HTTP, DB and Redis wiring.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL        string
	DSN            string
	RedisAddr      string
	MigrationPath  string
	ApplyMigration bool
	Strict         bool
	Timeout        time.Duration
	Concurrency    int
	Duration       time.Duration
}

func main() {
	_ = godotenv.Load()
	cfg := parseFlags(flag.CommandLine, os.Args[1:])

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	results := NewRunner(cfg).RunAll(ctx)
	report(os.Stdout, results)
	os.Exit(exitCode(results, cfg.Strict))
}

// parseFlags reads flags whose defaults come from the KILOSHARE_* environment,
// so the same variables configure the API and its smoke run.
func parseFlags(fs *flag.FlagSet, args []string) Config {
	var cfg Config
	fs.StringVar(&cfg.BaseURL, "base-url", fromEnv("KILOSHARE_BENCH_BASE_URL", "http://localhost:8080", parseString), "API base URL")
	fs.StringVar(&cfg.DSN, "dsn", fromEnv("KILOSHARE_DB_DSN", "", parseString), "Postgres DSN (empty skips DB checks)")
	fs.StringVar(&cfg.RedisAddr, "redis", fromEnv("KILOSHARE_REDIS_ADDR", "", parseString), "Redis address (empty skips Redis checks)")
	fs.StringVar(&cfg.MigrationPath, "migration", fromEnv("KILOSHARE_BENCH_MIGRATION", "migrations/0001_pricing_reference.sql", parseString), "reference tables migration")
	fs.BoolVar(&cfg.ApplyMigration, "apply-migration", fromEnv("KILOSHARE_BENCH_APPLY_MIGRATION", false, strconv.ParseBool), "apply the migration before checking tables")
	fs.BoolVar(&cfg.Strict, "strict", fromEnv("KILOSHARE_BENCH_STRICT", false, strconv.ParseBool), "treat SKIP as failure")
	fs.DurationVar(&cfg.Timeout, "timeout", fromEnv("KILOSHARE_BENCH_TIMEOUT", time.Minute, time.ParseDuration), "total run timeout")
	fs.IntVar(&cfg.Concurrency, "concurrency", fromEnv("KILOSHARE_BENCH_CONCURRENCY", 20, strconv.Atoi), "workers for the throughput run")
	fs.DurationVar(&cfg.Duration, "duration", fromEnv("KILOSHARE_BENCH_DURATION", 10*time.Second, time.ParseDuration), "length of the throughput run")
	_ = fs.Parse(args)

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return cfg
}

func parseString(s string) (string, error) { return s, nil }

func fromEnv[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

// report groups results by area and prints quote latency percentiles.
func report(w io.Writer, results []Result) {
	byArea := map[string][]Result{}
	var areas []string
	for _, r := range results {
		if _, seen := byArea[r.Area]; !seen {
			areas = append(areas, r.Area)
		}
		byArea[r.Area] = append(byArea[r.Area], r)
	}

	fmt.Fprintln(w, "\n== KiloShare smoke report ==")
	for _, area := range areas {
		c := countStatuses(byArea[area])
		fmt.Fprintf(w, "%-10s pass=%d fail=%d skip=%d\n", area, c[statusPass], c[statusFail], c[statusSkip])
	}

	var quotes []time.Duration
	for _, r := range results {
		if r.Area == areaAPI && r.Status == statusPass {
			quotes = append(quotes, r.Latency)
		}
		if len(r.Samples) > 0 {
			fmt.Fprintf(w, "%s: p50=%s p95=%s p99=%s over %d requests\n",
				r.Name, percentile(r.Samples, 50), percentile(r.Samples, 95), percentile(r.Samples, 99), len(r.Samples))
		}
	}
	if len(quotes) > 0 {
		fmt.Fprintf(w, "scenario latency: p50=%s max=%s\n", percentile(quotes, 50), percentile(quotes, 100))
	}

	c := countStatuses(results)
	fmt.Fprintf(w, "PASS=%d FAIL=%d SKIP=%d\n", c[statusPass], c[statusFail], c[statusSkip])
}

func countStatuses(results []Result) map[string]int {
	c := map[string]int{}
	for _, r := range results {
		c[r.Status]++
	}
	return c
}

func exitCode(results []Result, strict bool) int {
	c := countStatuses(results)
	if c[statusFail] > 0 || (strict && c[statusSkip] > 0) {
		return 1
	}
	return 0
}

// percentile uses nearest-rank on a sorted copy of samples.
func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
