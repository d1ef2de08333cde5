// README: Bench cases; health, route lookup, estimate arithmetic, session guards, DB/Redis and throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPending = "PENDING"
	StatusSkip    = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

// httpProbe describes one request and what counts as a pass.
type httpProbe struct {
	method  string
	path    string
	body    any
	auth    bool
	ok      []int
	pending []int
	check   func(body map[string]any) error
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
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

func (r *Runner) cases() []TestCase {
	osakaTokyo := map[string]any{
		"origin":          "大阪駅",
		"destination":     "東京駅",
		"distance_km":     515,
		"duration_min":    360,
		"fuel_efficiency": 15,
		"headcount":       2,
	}
	return []TestCase{
		{Name: "Env: Postgres connect", Run: pingDB},
		{Name: "Env: Redis connect", Run: pingRedis},
		{Name: "Migration: apply (optional)", Run: applyMigration},
		{Name: "Migration: tables exist", Run: tablesExist},

		httpCase("API: health", httpProbe{method: http.MethodGet, path: "/health", ok: []int{200}}),
		httpCase("API: metrics exposed", httpProbe{method: http.MethodGet, path: "/metrics", ok: []int{200}}),

		httpCase("Route: missing destination -> 400", httpProbe{
			method: http.MethodGet, path: "/api/maps/route?origin=" + url.QueryEscape("大阪駅"), ok: []int{400},
		}),
		httpCase("Route: lookup Osaka -> Tokyo", httpProbe{
			method:  http.MethodGet,
			path:    "/api/maps/route?origin=" + url.QueryEscape("大阪駅") + "&destination=" + url.QueryEscape("東京駅"),
			ok:      []int{200},
			pending: []int{503},
			check:   requireKeys("distanceKm", "durationMin", "overviewPolyline"),
		}),
		httpCase("Places: suggest", httpProbe{
			method: http.MethodGet, path: "/api/places/suggest?input=" + url.QueryEscape("東京"), ok: []int{200}, pending: []int{503},
		}),

		httpCase("Estimate: explicit distance, default settings", httpProbe{
			method: http.MethodPost, path: "/api/route/search", body: osakaTokyo, ok: []int{200},
			check: expectNumbers(map[string]float64{"toll_est": 12819, "fuel_cost": 5837, "total": 18656, "per_person": 9328}),
		}),
		httpCase("Estimate: headcount 0 -> 400", httpProbe{
			method: http.MethodPost, path: "/api/route/search", body: with(osakaTokyo, "headcount", 0), ok: []int{400},
		}),
		httpCase("Estimate: fuel_efficiency 0 -> 400", httpProbe{
			method: http.MethodPost, path: "/api/route/search", body: with(osakaTokyo, "fuel_efficiency", 0), ok: []int{400},
		}),
		httpCase("Estimate: vehicle_id without session -> 400", httpProbe{
			method: http.MethodPost, path: "/api/route/search",
			body: map[string]any{"origin": "a", "destination": "b", "distance_km": 1, "duration_min": 1, "vehicle_id": "5f0c6f7e-8a38-4d34-9d5b-0c2f1c7f4a11", "headcount": 1},
			ok:   []int{400},
		}),

		httpCase("Settings: anonymous -> 401", httpProbe{method: http.MethodGet, path: "/api/settings", ok: []int{401}}),
		httpCase("Trips: anonymous -> 401", httpProbe{method: http.MethodGet, path: "/api/trips", ok: []int{401}}),
		httpCase("Settings: resolve", httpProbe{
			method: http.MethodGet, path: "/api/settings", auth: true, ok: []int{200}, check: requireKeys("settings"),
		}),
		httpCase("Settings: unknown rounding mode -> 400", httpProbe{
			method: http.MethodPut, path: "/api/settings", auth: true, ok: []int{400},
			body: map[string]any{"fuel_price": 170, "toll_coeffs_json": map[string]any{"base": 150, "per_km": 24.6}, "rounding_mode": "bankers"},
		}),
		httpCase("Vehicles: list", httpProbe{
			method: http.MethodGet, path: "/api/vehicles", auth: true, ok: []int{200}, check: requireKeys("vehicles"),
		}),
		httpCase("Trips: list recent", httpProbe{
			method: http.MethodGet, path: "/api/trips", auth: true, ok: []int{200}, check: requireKeys("trips"),
		}),

		manualCase("Error: Directions outage -> 503", "needs an unreachable maps base URL or revoked key"),
		manualCase("Error: store outage -> 503", "needs Postgres paused while the API is running"),

		{
			Name: "Perf: estimate throughput (explicit distance)",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, r.cfg.BaseURL+"/api/route/search", osakaTokyo)
			},
		},
	}
}

func pingDB(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.db.Ping(ctx); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func pingRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: StatusSkip, Note: "redis not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func applyMigration(ctx context.Context, r *Runner) Result {
	if !r.cfg.ApplyMigration {
		return Result{Status: StatusSkip, Note: "apply-migration=false"}
	}
	if r.db == nil {
		return Result{Status: StatusFail, Note: "db not configured"}
	}
	sql, err := os.ReadFile(r.cfg.MigrationPath)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	for _, s := range splitSQL(string(sql)) {
		if _, err := r.db.Exec(ctx, s); err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
	}
	return Result{Status: StatusPass}
}

func tablesExist(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	tables, err := extractTables(r.cfg.MigrationPath)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	for _, t := range tables {
		var exists bool
		err := r.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
			t,
		).Scan(&exists)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		if !exists {
			return Result{Status: StatusFail, Note: "missing table: " + t}
		}
	}
	return Result{Status: StatusPass, Note: strings.Join(tables, ",")}
}

func httpCase(name string, p httpProbe) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			if p.auth && r.cfg.Token == "" {
				return Result{Status: StatusSkip, Note: "no session token (-token)"}
			}
			start := time.Now()
			status, raw, err := r.do(ctx, p)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			latency := time.Since(start)
			note := fmt.Sprintf("status=%d", status)

			if contains(p.pending, status) {
				return Result{Status: StatusPending, Latency: latency, Note: note}
			}
			if !contains(p.ok, status) {
				return Result{Status: StatusFail, Latency: latency, Note: note + " body=" + truncate(string(raw), 120)}
			}
			if p.check != nil {
				var body map[string]any
				if err := json.Unmarshal(raw, &body); err != nil {
					return Result{Status: StatusFail, Latency: latency, Note: "decode: " + err.Error()}
				}
				if err := p.check(body); err != nil {
					return Result{Status: StatusFail, Latency: latency, Note: err.Error()}
				}
			}
			return Result{Status: StatusPass, Latency: latency, Note: note}
		},
	}
}

// do sends the probe, waiting out 429s from the API's per-client limiter.
func (r *Runner) do(ctx context.Context, p httpProbe) (int, []byte, error) {
	var body []byte
	if p.body != nil {
		b, err := json.Marshal(p.body)
		if err != nil {
			return 0, nil, err
		}
		body = b
	}
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, p.method, r.cfg.BaseURL+p.path, bytes.NewReader(body))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if p.auth {
			req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
		}
		resp, err := r.httpc.Do(req)
		if err != nil {
			return 0, nil, err
		}
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusTooManyRequests || attempt == 3 {
			return resp.StatusCode, raw, nil
		}
		select {
		case <-ctx.Done():
			return 0, nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

func manualCase(name, note string) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			return Result{Status: StatusSkip, Note: note}
		},
	}
}

func requireKeys(keys ...string) func(map[string]any) error {
	return func(body map[string]any) error {
		for _, k := range keys {
			if _, ok := body[k]; !ok {
				return fmt.Errorf("missing %q", k)
			}
		}
		return nil
	}
}

func expectNumbers(want map[string]float64) func(map[string]any) error {
	return func(body map[string]any) error {
		for k, v := range want {
			got, ok := body[k].(float64)
			if !ok || got != v {
				return fmt.Errorf("%s=%v, want %v", k, body[k], v)
			}
		}
		return nil
	}
}

func with(base map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	out[key] = value
	return out
}

// perfLoad counts 429s separately; the estimate endpoint is rate limited per client.
func perfLoad(ctx context.Context, r *Runner, target string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var ok, limited, errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				mu.Lock()
				switch {
				case err != nil:
					errCount++
				case resp.StatusCode == http.StatusTooManyRequests:
					limited++
				default:
					ok++
				}
				mu.Unlock()
				if err == nil {
					_, _ = io.Copy(io.Discard, resp.Body)
					resp.Body.Close()
				}
			}
		}()
	}
	wg.Wait()

	if ok == 0 {
		return Result{Status: StatusFail, Note: fmt.Sprintf("no requests completed (limited=%d errors=%d)", limited, errCount)}
	}
	rps := float64(ok) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f limited=%d errors=%d", rps, limited, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
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
