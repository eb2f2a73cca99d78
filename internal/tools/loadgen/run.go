package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config drives a synthetic traffic run against a live instance of the API.
type Config struct {
	BaseURL     string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
}

type Result struct {
	TotalRequests int
	Failures      int
	StatusCounts  map[string]int
	Elapsed       time.Duration
}

type account struct {
	email        string
	password     string
	refreshToken string
	accessToken  string
}

// Run fires requests at the configured rate until the duration elapses.
// Failures are transport errors and 5xx responses; 4xx responses are expected
// traffic (bad logins are part of the auth profile).
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	profile := normalizeProfile(cfg.Profile)

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Second}
	ticker := time.NewTicker(time.Second / time.Duration(cfg.RPS))
	defer ticker.Stop()

	var mu sync.Mutex
	result := Result{StatusCounts: map[string]int{}}
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := time.Now()

	work := make(chan func() (int, error))
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Concurrency; i++ {
		g.Go(func() error {
			for fn := range work {
				status, err := fn()
				mu.Lock()
				result.TotalRequests++
				if err != nil || status >= 500 {
					result.Failures++
				}
				if err == nil {
					result.StatusCounts[classifyStatusClass(status)]++
				}
				mu.Unlock()
			}
			return nil
		})
	}

	acct := &account{
		email:    fmt.Sprintf("loadgen-%d@example.com", rng.Int63()),
		password: "loadgen1234",
	}

feed:
	for {
		select {
		case <-gctx.Done():
			break feed
		case <-ticker.C:
			fn := nextRequest(gctx, client, cfg.BaseURL, profile, rng, acct)
			select {
			case work <- fn:
			case <-gctx.Done():
				break feed
			}
		}
	}
	close(work)
	_ = g.Wait()

	result.Elapsed = time.Since(start)
	return result, nil
}

func nextRequest(ctx context.Context, client *http.Client, baseURL, profile string, rng *rand.Rand, acct *account) func() (int, error) {
	switch profile {
	case "health":
		return func() (int, error) { return get(ctx, client, baseURL+"/health/live", "") }
	case "auth":
		return authRequest(ctx, client, baseURL, rng, acct)
	case "users":
		return func() (int, error) { return get(ctx, client, baseURL+"/v1/users?limit=5", acct.accessToken) }
	default: // mixed
		switch rng.Intn(4) {
		case 0:
			return func() (int, error) { return get(ctx, client, baseURL+"/health/ready", "") }
		case 1:
			return func() (int, error) { return get(ctx, client, baseURL+"/v1/users?limit=5", acct.accessToken) }
		default:
			return authRequest(ctx, client, baseURL, rng, acct)
		}
	}
}

func authRequest(ctx context.Context, client *http.Client, baseURL string, rng *rand.Rand, acct *account) func() (int, error) {
	switch {
	case acct.refreshToken == "":
		return func() (int, error) {
			status, body, err := post(ctx, client, baseURL+"/v1/auth/register", map[string]string{
				"name":     "Load Generator",
				"email":    acct.email,
				"password": acct.password,
			})
			captureTokens(body, acct)
			return status, err
		}
	case rng.Intn(5) == 0:
		// Deliberately bad login to exercise the failure path.
		return func() (int, error) {
			status, _, err := post(ctx, client, baseURL+"/v1/auth/login", map[string]string{
				"email":    acct.email,
				"password": "definitely-wrong1",
			})
			return status, err
		}
	case rng.Intn(3) == 0:
		return func() (int, error) {
			status, body, err := post(ctx, client, baseURL+"/v1/auth/refresh-tokens", map[string]string{
				"refreshToken": acct.refreshToken,
			})
			capturePair(body, acct)
			return status, err
		}
	default:
		return func() (int, error) {
			status, body, err := post(ctx, client, baseURL+"/v1/auth/login", map[string]string{
				"email":    acct.email,
				"password": acct.password,
			})
			captureTokens(body, acct)
			return status, err
		}
	}
}

func captureTokens(body []byte, acct *account) {
	var payload struct {
		Tokens struct {
			Access  struct{ Token string }
			Refresh struct{ Token string }
		}
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Tokens.Access.Token != "" {
			acct.accessToken = payload.Tokens.Access.Token
		}
		if payload.Tokens.Refresh.Token != "" {
			acct.refreshToken = payload.Tokens.Refresh.Token
		}
	}
}

func capturePair(body []byte, acct *account) {
	var pair struct {
		Access  struct{ Token string }
		Refresh struct{ Token string }
	}
	if json.Unmarshal(body, &pair) == nil {
		if pair.Access.Token != "" {
			acct.accessToken = pair.Access.Token
		}
		if pair.Refresh.Token != "" {
			acct.refreshToken = pair.Refresh.Token
		}
	}
}

func get(ctx context.Context, client *http.Client, url, bearer string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func post(ctx context.Context, client *http.Client, url string, payload map[string]string) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return resp.StatusCode, body, nil
}

func classifyStatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return "other"
	}
}

func normalizeProfile(profile string) string {
	p := strings.ToLower(strings.TrimSpace(profile))
	switch p {
	case "auth", "users", "health", "mixed":
		return p
	default:
		return "mixed"
	}
}
