package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"go-rest-auth-starter/internal/http/response"
)

// RateLimiter is a fixed window counter keyed by client IP. State is local to
// the process, which is enough for a single instance deployment.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*windowState
	sweep   time.Time
}

type windowState struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*windowState),
		sweep:   time.Now().Add(window),
	}
}

func (rl *RateLimiter) allow(key string, now time.Time) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.After(rl.sweep) {
		for k, s := range rl.windows {
			if now.After(s.resetAt) {
				delete(rl.windows, k)
			}
		}
		rl.sweep = now.Add(rl.window)
	}

	state, ok := rl.windows[key]
	if !ok || now.After(state.resetAt) {
		state = &windowState{resetAt: now.Add(rl.window)}
		rl.windows[key] = state
	}
	if state.count >= rl.limit {
		return false, 0, state.resetAt
	}
	state.count++
	return true, rl.limit - state.count, state.resetAt
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, resetAt := rl.allow(clientIP(r), time.Now())
			h := w.Header()
			h.Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
			h.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			h.Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt.Unix()))
			if !allowed {
				retry := int(time.Until(resetAt).Round(time.Second).Seconds())
				if retry <= 0 {
					retry = 1
				}
				h.Set("Retry-After", fmt.Sprintf("%d", retry))
				response.Error(w, r, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
