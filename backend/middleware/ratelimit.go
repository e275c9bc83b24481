// ABOUTME: Per-client token-bucket rate limiting for the planner API
// ABOUTME: Separate limiter classes for heavy optimize/accept routes and cheap reads

package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleSweepEvery is how many new clients are admitted between idle sweeps.
const idleSweepEvery = 256

type clientBucket struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// RateLimiter gives every client a bucket of perWindow requests that refills
// evenly over window. class labels the limiter in logs and metrics.
type RateLimiter struct {
	class  string
	every  rate.Limit
	burst  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	clients  map[string]*clientBucket
	admitted int
	onReject func(class string)
}

// NewRateLimiter creates a limiter allowing perWindow requests per window per client.
func NewRateLimiter(class string, perWindow int, window time.Duration) *RateLimiter {
	if perWindow < 1 {
		perWindow = 1
	}
	return &RateLimiter{
		class:   class,
		every:   rate.Every(window / time.Duration(perWindow)),
		burst:   perWindow,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*clientBucket),
	}
}

// Class returns the limiter's label.
func (rl *RateLimiter) Class() string {
	return rl.class
}

// OnReject registers a hook called for every rejected request.
func (rl *RateLimiter) OnReject(fn func(class string)) {
	rl.mu.Lock()
	rl.onReject = fn
	rl.mu.Unlock()
}

// Allow takes one token for key. When the bucket is empty it returns false
// and how long until a token is available.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	c, ok := rl.clients[key]
	if !ok {
		c = &clientBucket{bucket: rate.NewLimiter(rl.every, rl.burst)}
		rl.clients[key] = c
		rl.admitted++
		if rl.admitted >= idleSweepEvery {
			rl.sweep(now)
			rl.admitted = 0
		}
	}
	c.lastSeen = now
	onReject := rl.onReject
	rl.mu.Unlock()

	r := c.bucket.ReserveN(now, 1)
	if delay := r.DelayFrom(now); r.OK() && delay == 0 {
		return true, 0
	} else if r.OK() {
		// Give the token back so rejected calls do not push the refill further out
		r.CancelAt(now)
		if onReject != nil {
			onReject(rl.class)
		}
		return false, delay
	}
	if onReject != nil {
		onReject(rl.class)
	}
	return false, rl.window
}

// sweep forgets clients idle for a full window; their buckets are full again.
// Must be called while holding rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, c := range rl.clients {
		if now.Sub(c.lastSeen) >= rl.window {
			delete(rl.clients, k)
		}
	}
}

// tracked reports how many clients currently hold a bucket.
func (rl *RateLimiter) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// ClientIP extracts the client IP from X-Forwarded-For (leftmost) or RemoteAddr.
// X-Forwarded-For is trusted, which assumes a reverse proxy in front of the
// service that sets it.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.SplitN(xff, ",", 2)
		ip := strings.TrimSpace(parts[0])
		if ip != "" && net.ParseIP(ip) != nil {
			return "ip:" + ip
		}
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return "ip:" + host
}

// RateLimit returns middleware enforcing limiter per key. A nil limiter
// disables limiting; an empty key (unidentifiable client) passes through.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || keyFunc == nil {
				next(w, r)
				return
			}

			key := keyFunc(r)
			if key == "" {
				next(w, r)
				return
			}

			allowed, retryAfter := limiter.Allow(key)
			if allowed {
				next(w, r)
				return
			}

			retrySeconds := int(math.Ceil(retryAfter.Seconds()))
			if retrySeconds < 1 {
				retrySeconds = 1
			}
			slog.Warn("Rate limit exceeded",
				"class", limiter.class,
				"key", key,
				"path", sanitizePath(r.URL.Path),
				"retry_after", retrySeconds,
			)

			w.Header().Set("Retry-After", fmt.Sprintf("%d", retrySeconds))
			writeJSONErrorDetails(w, "Rate limit exceeded",
				fmt.Sprintf("%s limit reached, retry in %ds", limiter.class, retrySeconds),
				http.StatusTooManyRequests)
		}
	}
}
