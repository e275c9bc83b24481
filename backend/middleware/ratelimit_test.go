// ABOUTME: Unit tests for the token-bucket rate limiter and its middleware
// ABOUTME: Uses a fixed clock so refill timing is deterministic

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fixedClock pins a limiter to a controllable instant.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(perWindow int, window time.Duration) (*RateLimiter, *fixedClock) {
	clock := &fixedClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter("write", perWindow, window)
	rl.now = clock.Now
	return rl, clock
}

func TestRateLimiter_BurstUpToLimit(t *testing.T) {
	rl, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if allowed, _ := rl.Allow("ip:10.0.0.1"); !allowed {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}
	if allowed, _ := rl.Allow("ip:10.0.0.1"); allowed {
		t.Fatal("Fourth request should be rejected")
	}
}

func TestRateLimiter_RetryAfterIsOneRefillInterval(t *testing.T) {
	rl, _ := newTestLimiter(2, time.Minute)
	rl.Allow("ip:10.0.0.1")
	rl.Allow("ip:10.0.0.1")

	allowed, retryAfter := rl.Allow("ip:10.0.0.1")
	if allowed {
		t.Fatal("Third request should be rejected")
	}
	// One token per 30s; allow for float rounding in the refill rate
	if retryAfter < 29*time.Second || retryAfter > 31*time.Second {
		t.Errorf("Expected retry after about 30s, got %v", retryAfter)
	}
}

func TestRateLimiter_RefillsGradually(t *testing.T) {
	rl, clock := newTestLimiter(4, time.Minute)
	for i := 0; i < 4; i++ {
		rl.Allow("ip:10.0.0.1")
	}

	clock.Advance(16 * time.Second)
	if allowed, _ := rl.Allow("ip:10.0.0.1"); !allowed {
		t.Fatal("One token should have refilled after 16s")
	}
	if allowed, _ := rl.Allow("ip:10.0.0.1"); allowed {
		t.Fatal("Only one token should have refilled after 16s")
	}
}

func TestRateLimiter_RejectionsDoNotDelayRefill(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Minute)
	rl.Allow("ip:10.0.0.1")

	for i := 0; i < 5; i++ {
		rl.Allow("ip:10.0.0.1")
	}

	clock.Advance(61 * time.Second)
	if allowed, _ := rl.Allow("ip:10.0.0.1"); !allowed {
		t.Fatal("Rejected requests must not consume future tokens")
	}
}

func TestRateLimiter_SeparateClients(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)

	if allowed, _ := rl.Allow("ip:10.0.0.1"); !allowed {
		t.Fatal("First client should be allowed")
	}
	if allowed, _ := rl.Allow("ip:10.0.0.2"); !allowed {
		t.Fatal("Second client has its own bucket")
	}
	if allowed, _ := rl.Allow("ip:10.0.0.1"); allowed {
		t.Fatal("First client should be out of tokens")
	}
}

func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	rl, _ := newTestLimiter(100, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := rl.Allow("ip:10.0.0.1"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("Expected exactly 100 allowed requests, got %d", allowedCount)
	}
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Minute)

	for i := 0; i < 10; i++ {
		rl.Allow(fmt.Sprintf("ip:10.0.1.%d", i))
	}
	if n := rl.tracked(); n != 10 {
		t.Fatalf("Expected 10 tracked clients, got %d", n)
	}

	clock.Advance(2 * time.Minute)
	for i := 0; i < idleSweepEvery; i++ {
		rl.Allow(fmt.Sprintf("ip:10.0.2.%d", i))
	}

	// The sweep runs when the 256th new client arrives; the idle ones are gone
	if n := rl.tracked(); n > idleSweepEvery {
		t.Errorf("Expected idle clients to be swept, still tracking %d", n)
	}
}

func TestRateLimiter_OnRejectReportsClass(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)
	var rejected []string
	rl.OnReject(func(class string) { rejected = append(rejected, class) })

	rl.Allow("ip:10.0.0.1")
	rl.Allow("ip:10.0.0.1")
	rl.Allow("ip:10.0.0.1")

	if len(rejected) != 2 || rejected[0] != "write" {
		t.Errorf("Expected two rejections of class write, got %v", rejected)
	}
}

func TestNewRateLimiter_ClampsLimit(t *testing.T) {
	rl, _ := newTestLimiter(0, time.Minute)

	if allowed, _ := rl.Allow("ip:10.0.0.1"); !allowed {
		t.Fatal("A limiter always admits at least one request per window")
	}
	if rl.Class() != "write" {
		t.Errorf("Expected class write, got %s", rl.Class())
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name     string
		xff      string
		remote   string
		expected string
	}{
		{name: "single forwarded IP", xff: "203.0.113.1", expected: "ip:203.0.113.1"},
		{name: "leftmost forwarded IP", xff: "203.0.113.1, 198.51.100.1, 10.0.0.1", expected: "ip:203.0.113.1"},
		{name: "forwarded IP with spaces", xff: "  203.0.113.1 , 10.0.0.1 ", expected: "ip:203.0.113.1"},
		{name: "garbage header falls back", xff: "not-an-ip", remote: "192.168.1.1:12345", expected: "ip:192.168.1.1"},
		{name: "remote addr with port", remote: "192.168.1.1:12345", expected: "ip:192.168.1.1"},
		{name: "remote addr without port", remote: "192.168.1.1", expected: "ip:192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", nil)
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.remote != "" {
				r.RemoteAddr = tt.remote
			}

			if key := ClientIP(r); key != tt.expected {
				t.Errorf("ClientIP() = %q, want %q", key, tt.expected)
			}
		})
	}
}

func TestRateLimitMiddleware_NilLimiterPassesThrough(t *testing.T) {
	called := false
	wrapped := RateLimit(nil, ClientIP)(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	wrapped(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/optimize", nil))

	if !called {
		t.Fatal("Handler should be called when rate limiting is disabled")
	}
}

func TestRateLimitMiddleware_EmptyKeyPassesThrough(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)
	calls := 0
	wrapped := RateLimit(rl, func(*http.Request) string { return "" })(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	for i := 0; i < 3; i++ {
		wrapped(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/optimize", nil))
	}

	if calls != 3 {
		t.Errorf("Expected unidentifiable clients to pass, got %d calls", calls)
	}
}

func TestRateLimitMiddleware_Returns429(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)
	wrapped := RateLimit(rl, ClientIP)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/optimize/project", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		wrapped(w, r)
		return w
	}

	if w := send(); w.Code != http.StatusOK {
		t.Fatalf("First request should be 200, got %d", w.Code)
	}

	w := send()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Second request should be 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "60" && got != "61" {
		t.Errorf("Expected Retry-After of one minute, got %q", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	if body["error"] != "Rate limit exceeded" {
		t.Errorf("Expected error 'Rate limit exceeded', got %v", body["error"])
	}
	if details, _ := body["details"].(string); !strings.HasPrefix(details, "write limit reached") {
		t.Errorf("Expected details naming the limiter class, got %q", details)
	}
	if body["code"] != float64(http.StatusTooManyRequests) {
		t.Errorf("Expected code 429, got %v", body["code"])
	}
}
