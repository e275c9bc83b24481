// ABOUTME: HTTP handler state shared by the panel planner API endpoints
// ABOUTME: Holds the catalog snapshot, optimize result cache, metrics and selections publisher

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/asman100/BMS-SELECTION-KING/backend/cache"
	"github.com/asman100/BMS-SELECTION-KING/backend/config"
	"github.com/asman100/BMS-SELECTION-KING/backend/metrics"
	"github.com/asman100/BMS-SELECTION-KING/backend/models"
	"github.com/asman100/BMS-SELECTION-KING/backend/services"
)

// maxRequestBodySize limits JSON request bodies to 1MB to prevent DOS attacks
const maxRequestBodySize = 1 << 20 // 1MB

// maxCatalogBodySize allows larger uploads for full vendor catalogs.
const maxCatalogBodySize = 8 << 20

// SelectionPublisher hands accepted selections to the persistence layer.
// *services.SelectionPublisher implements it.
type SelectionPublisher interface {
	Enabled() bool
	Topic() string
	Publish(ctx context.Context, batch models.SelectionBatch) (bool, error)
}

type disabledPublisher struct{}

func (disabledPublisher) Enabled() bool { return false }
func (disabledPublisher) Topic() string { return "" }
func (disabledPublisher) Publish(context.Context, models.SelectionBatch) (bool, error) {
	return false, nil
}

type Handler struct {
	cfg       *config.Config
	cache     *cache.Cache[models.PanelResult]
	solves    singleflight.Group
	metrics   *metrics.Metrics
	publisher SelectionPublisher
	catalog   *models.Catalog
	catalogMu sync.RWMutex
	now       func() time.Time
}

// NewHandler wires the API handlers. cfg, m and pub may be nil: a nil config
// disables result caching and solves one panel at a time, a nil publisher
// accepts selections without publishing them.
func NewHandler(cfg *config.Config, m *metrics.Metrics, pub SelectionPublisher) *Handler {
	ttl := time.Duration(0)
	if cfg != nil {
		ttl = time.Duration(cfg.CacheTTL) * time.Second
	}
	if pub == nil {
		pub = disabledPublisher{}
	}
	return &Handler{
		cfg:       cfg,
		cache:     cache.New[models.PanelResult](ttl),
		metrics:   m,
		publisher: pub,
		now:       time.Now,
	}
}

// Close stops the cache janitor.
func (h *Handler) Close() {
	h.cache.Close()
}

// SetCatalog installs a new catalog snapshot. Cached results were computed
// against the previous snapshot and are dropped.
func (h *Handler) SetCatalog(c *models.Catalog) {
	h.catalogMu.Lock()
	h.catalog = c
	h.catalogMu.Unlock()

	h.cache.Purge()
	if c == nil {
		return
	}
	s := c.Summary()
	h.metrics.CatalogInstalled(s.Controllers, s.ModularServers, s.FixedServers, s.Modules, s.Accessories)
	slog.Info("Catalog installed",
		"version", s.Version,
		"controllers", s.Controllers,
		"modular_servers", s.ModularServers,
		"fixed_servers", s.FixedServers,
		"modules", s.Modules,
		"accessories", s.Accessories,
	)
}

// currentCatalog returns the active snapshot, nil when none is loaded.
func (h *Handler) currentCatalog() *models.Catalog {
	h.catalogMu.RLock()
	defer h.catalogMu.RUnlock()
	return h.catalog
}

func (h *Handler) projectOptions() services.ProjectOptions {
	if h.cfg == nil {
		return services.ProjectOptions{Workers: 1}
	}
	return services.ProjectOptions{
		Workers:         h.cfg.OptimizerWorkers,
		DefaultSparePct: h.cfg.DefaultSparePct,
	}
}

func (h *Handler) defaultSparePct() float64 {
	if h.cfg == nil {
		return 0
	}
	return h.cfg.DefaultSparePct
}

// decodeJSON reads a size-limited JSON body into v. It writes the error
// response itself and reports whether the handler should continue.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return false
		}
		h.writeErrorDetails(w, "Invalid JSON", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeErrorDetails(w, message, "", code)
}

func (h *Handler) writeErrorDetails(w http.ResponseWriter, message, details string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error:   message,
		Details: details,
		Code:    code,
	})
}
