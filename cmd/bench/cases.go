// README: Runner checks: environment, migration, pricing API scenarios and throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

const (
	areaEnv       = "env"
	areaMigration = "migration"
	areaAPI       = "api"
	areaPerf      = "perf"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	dbErr error
	redis *redis.Client
}

type Result struct {
	Name    string
	Area    string
	Status  string
	Latency time.Duration
	Samples []time.Duration // per-request latencies of a throughput run
	Note    string
}

type TestCase struct {
	Area string
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		r.db, r.dbErr = pgxpool.New(ctx, r.cfg.DSN)
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		res.Area = tc.Area
		results = append(results, res)
		fmt.Printf("%-5s [%s] %s", res.Status, tc.Area, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

// database returns the pool, or the result to report when none is usable.
func (r *Runner) database() (*pgxpool.Pool, *Result) {
	switch {
	case r.dbErr != nil:
		return nil, &Result{Status: statusFail, Note: "invalid dsn: " + r.dbErr.Error()}
	case r.db == nil:
		return nil, &Result{Status: statusSkip, Note: "db not configured"}
	}
	return r.db, nil
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Area: areaEnv,
			Name: "Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				db, res := r.database()
				if res != nil {
					return *res
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Area: areaEnv,
			Name: "Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Area: areaMigration,
			Name: "apply reference tables (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: statusSkip, Note: "apply-migration=false"}
				}
				db, res := r.database()
				if res != nil {
					if res.Status == statusSkip {
						return Result{Status: statusFail, Note: "apply-migration requires a dsn"}
					}
					return *res
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := db.Exec(ctx, s); err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Area: areaMigration,
			Name: "reference tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				db, res := r.database()
				if res != nil {
					return *res
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				var missing []string
				for _, t := range tables {
					var exists bool
					if err := db.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, t).Scan(&exists); err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						missing = append(missing, t)
					}
				}
				if len(missing) > 0 {
					return Result{Status: statusFail, Note: "missing: " + strings.Join(missing, ", ")}
				}
				return Result{Status: statusPass}
			},
		},
		httpCase("server reachable", http.MethodGet, base+"/health", nil, http.StatusOK, nil),
		httpCase("transport limits", http.MethodGet, base+"/api/v1/transport/limits", nil, http.StatusOK, nil),
		httpCase("suggest flight Halifax-Moncton", http.MethodPost, base+"/api/v1/pricing/suggest",
			map[string]any{"transport_type": "flight", "departure_city": "Halifax", "arrival_city": "Moncton", "weight_kg": 10, "currency": "CAD"},
			http.StatusOK, expectFields(map[string]float64{"suggested_price_per_kg": 3, "total_price": 30, "commission": 4.5, "net_earnings": 25.5})),
		httpCase("suggest car Montreal-Halifax", http.MethodPost, base+"/api/v1/pricing/suggest",
			map[string]any{"transport_type": "car", "departure_city": "Montreal", "arrival_city": "Halifax", "weight_kg": 10},
			http.StatusOK, expectFields(map[string]float64{"suggested_price_per_kg": 1.56, "total_price": 15.6, "distance_km": 1300})),
		httpCase("overweight flight rejected", http.MethodPost, base+"/api/v1/pricing/suggest",
			map[string]any{"transport_type": "flight", "departure_city": "A", "arrival_city": "B", "weight_kg": 30},
			http.StatusBadRequest, nil),
		httpCase("recommend Halifax-Sydney 50kg", http.MethodPost, base+"/api/v1/pricing/recommend",
			map[string]any{"departure_city": "Halifax", "arrival_city": "Sydney", "weight_kg": 50},
			http.StatusOK, expectOnlyCar),
		{
			Area: areaPerf,
			Name: "suggest throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/v1/pricing/suggest", map[string]any{
					"transport_type": "car", "departure_city": "Toronto", "arrival_city": "Sydney", "weight_kg": 12,
				})
			},
		},
	}
}

type bodyCheck func(body []byte) error

func httpCase(name, method, url string, body any, wantStatus int, check bodyCheck) TestCase {
	return TestCase{
		Area: areaAPI,
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var buf io.Reader
			if body != nil {
				b, err := json.Marshal(body)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				buf = bytes.NewReader(b)
			}
			req, err := http.NewRequestWithContext(ctx, method, url, buf)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			req.Header.Set("Content-Type", "application/json")

			start := time.Now()
			resp, err := r.httpc.Do(req)
			latency := time.Since(start)
			if err != nil {
				return Result{Status: statusFail, Latency: latency, Note: err.Error()}
			}
			defer resp.Body.Close()
			respBody, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != wantStatus {
				return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", resp.StatusCode, wantStatus)}
			}
			if check != nil {
				if err := check(respBody); err != nil {
					return Result{Status: statusFail, Latency: latency, Note: err.Error()}
				}
			}
			return Result{Status: statusPass, Latency: latency}
		},
	}
}

func expectFields(want map[string]float64) bodyCheck {
	return func(body []byte) error {
		var got map[string]any
		if err := json.Unmarshal(body, &got); err != nil {
			return err
		}
		for k, v := range want {
			if n, ok := got[k].(float64); !ok || n != v {
				return fmt.Errorf("%s=%v want %v", k, got[k], v)
			}
		}
		return nil
	}
}

func expectOnlyCar(body []byte) error {
	var got struct {
		Recommendations []struct {
			TransportType string `json:"transport_type"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		return err
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0].TransportType != "car" {
		return fmt.Errorf("unexpected recommendations %+v", got.Recommendations)
	}
	return nil
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup
	var mu sync.Mutex
	var samples []time.Duration

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				start := time.Now()
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					errCount.Add(1)
					continue
				}
				count.Add(1)
				mu.Lock()
				samples = append(samples, time.Since(start))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Samples: samples, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
