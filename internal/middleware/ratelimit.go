package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

const (
	defaultWindow   = 1 * time.Minute
	cleanupInterval = 1 * time.Minute
)

// RateLimiter limits requests per client IP with a sliding window.
// Writes (any method other than GET and HEAD) may get a separate, usually lower, limit.
type RateLimiter struct {
	limit       int
	writeLimit  int
	window      time.Duration
	exempt      []string // path prefixes that bypass limiting
	logger      *slog.Logger
	now         func() time.Time
	mu          sync.Mutex
	requests    map[string][]time.Time // bucket key -> request timestamps
	cleanupDone chan struct{}
	closeOnce   sync.Once
}

// Option configures a RateLimiter.
type Option func(*RateLimiter)

// WithWindow sets the sliding window length.
func WithWindow(d time.Duration) Option {
	return func(rl *RateLimiter) {
		rl.window = d
	}
}

// WithWriteLimit sets a separate limit for non-GET requests, counted in their own bucket.
func WithWriteLimit(n int) Option {
	return func(rl *RateLimiter) {
		rl.writeLimit = n
	}
}

// WithExemptPrefixes lets requests whose path starts with one of prefixes bypass limiting.
func WithExemptPrefixes(prefixes ...string) Option {
	return func(rl *RateLimiter) {
		rl.exempt = append(rl.exempt, prefixes...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(rl *RateLimiter) {
		rl.logger = logger
	}
}

// NewRateLimiter creates a rate limiter allowing limit requests per window and IP.
//
// Close() must be called on shutdown to stop the background cleanup goroutine.
func NewRateLimiter(limit int, opts ...Option) (*RateLimiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", limit)
	}

	rl := &RateLimiter{
		limit:       limit,
		window:      defaultWindow,
		logger:      slog.Default(),
		now:         time.Now,
		requests:    make(map[string][]time.Time),
		cleanupDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}
	if rl.window <= 0 {
		return nil, fmt.Errorf("rate limit window must be positive, got %s", rl.window)
	}
	if rl.writeLimit < 0 {
		return nil, fmt.Errorf("write limit must not be negative, got %d", rl.writeLimit)
	}

	go rl.cleanupLoop()

	rl.logger.Info("rate limiter initialized",
		"limit", limit,
		"write_limit", rl.writeLimit,
		"window", rl.window.String(),
		"exempt", len(rl.exempt),
	)
	return rl, nil
}

// Middleware wraps next with rate limiting.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.isExempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ip := ExtractIP(r)
		if ip == "" {
			rl.logger.Warn("failed to extract IP from request", "path", r.URL.Path)
			writeJSONError(w, http.StatusBadRequest, "could not determine client address")
			return
		}

		key, limit := ip, rl.limit
		if rl.writeLimit > 0 && !isRead(r.Method) {
			key, limit = ip+"|write", rl.writeLimit
		}

		allowed, oldest := rl.allow(key, limit)
		if !allowed {
			retryAfter := int((rl.window - rl.now().Sub(oldest)).Seconds())
			retryAfter = max(retryAfter, 1)

			rl.logger.Debug("rate limit exceeded", "ip", ip, "path", r.URL.Path, "limit", limit)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow records a request for key if fewer than limit requests fall in the window.
// When denied it returns the oldest timestamp in the window.
func (rl *RateLimiter) allow(key string, limit int) (bool, time.Time) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := within(rl.requests[key], cutoff)
	if len(recent) >= limit {
		rl.requests[key] = recent
		return false, recent[0]
	}
	rl.requests[key] = append(recent, now)
	return true, time.Time{}
}

func (rl *RateLimiter) isExempt(path string) bool {
	return lo.SomeBy(rl.exempt, func(prefix string) bool {
		return strings.HasPrefix(path, prefix)
	})
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.cleanupDone:
			return
		}
	}
}

// cleanup drops buckets without requests in the current window.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, timestamps := range rl.requests {
		recent := within(timestamps, cutoff)
		if len(recent) == 0 {
			delete(rl.requests, key)
			continue
		}
		rl.requests[key] = recent
	}
}

func within(timestamps []time.Time, cutoff time.Time) []time.Time {
	return lo.Filter(timestamps, func(ts time.Time, _ int) bool {
		return ts.After(cutoff)
	})
}

// Close stops the background cleanup goroutine. Safe to call multiple times.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.cleanupDone)
	})
}

func isRead(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// writeJSONError writes the same error shape the API uses.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"error":%q,"code":%d}`+"\n", msg, status)
}
