// ABOUTME: Test helpers for e2e tests
// ABOUTME: Builds an httptest server with the same middleware chain as main.go

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/asman100/BMS-SELECTION-KING/backend/config"
	"github.com/asman100/BMS-SELECTION-KING/backend/handlers"
	"github.com/asman100/BMS-SELECTION-KING/backend/middleware"
)

// serverOptions tunes the e2e server.
type serverOptions struct {
	allowedOrigins []string
	writeLimit     int // 0 disables rate limiting
}

// newTestServer starts a server with no catalog loaded. The caller owns
// nothing: shutdown is registered with t.Cleanup.
func newTestServer(t *testing.T, opts serverOptions) *httptest.Server {
	t.Helper()

	cfg := &config.Config{CacheTTL: 60, OptimizerWorkers: 4}
	h := handlers.NewHandler(cfg, nil, nil)
	t.Cleanup(h.Close)

	var limiter *middleware.RateLimiter
	if opts.writeLimit > 0 {
		limiter = middleware.NewRateLimiter("write", opts.writeLimit, time.Minute)
	}
	cors := middleware.CORSWithConfig(opts.allowedOrigins)

	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		var rl *middleware.RateLimiter
		if route.IsWrite() {
			rl = limiter
		}
		mux.HandleFunc(route.Method+" "+route.Path, middleware.Chain(route.Handler,
			middleware.LogRequest,
			cors,
			middleware.RateLimit(rl, middleware.ClientIP),
		))
	}
	mux.HandleFunc("OPTIONS /api/v1/", middleware.Chain(func(w http.ResponseWriter, r *http.Request) {}, middleware.LogRequest, cors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// sampleCatalog reads the example catalog shipped at the repository root.
func sampleCatalog(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "catalog.example.yaml"))
	if err != nil {
		t.Fatalf("Failed to read example catalog: %v", err)
	}
	return data
}

func putCatalog(t *testing.T, server *httptest.Server, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/v1/catalog", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/yaml")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func postJSON(t *testing.T, server *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to encode body: %v", err)
	}
	resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}
