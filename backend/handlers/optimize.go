// ABOUTME: HTTP handlers for single-panel and whole-project optimization
// ABOUTME: Panel results are cached per catalog version and concurrent duplicates solved once

package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/asman100/BMS-SELECTION-KING/backend/middleware"
	"github.com/asman100/BMS-SELECTION-KING/backend/models"
	"github.com/asman100/BMS-SELECTION-KING/backend/services"
)

// maxProjectPanels bounds a single project request.
const maxProjectPanels = 2000

// panelCacheKey identifies a panel request against one catalog snapshot.
// The effective spare margin is part of the key because the server default
// applies when the request sets none.
func panelCacheKey(version string, req models.PanelRequest, sparePct float64) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("panel:%s:%g:%s", version, sparePct, hex.EncodeToString(sum[:])), nil
}

// Optimize ranks every feasible solution for one panel.
// HTTP method validation handled by Go 1.22+ router pattern matching.
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req models.PanelRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	catalog := h.currentCatalog()
	if catalog == nil {
		h.writeError(w, "No catalog loaded", http.StatusServiceUnavailable)
		return
	}
	if err := services.ValidateName("panel", req.Panel); err != nil {
		h.writeErrorDetails(w, "Invalid panel", err.Error(), http.StatusBadRequest)
		return
	}

	sparePct := h.defaultSparePct()
	key, err := panelCacheKey(catalog.Version(), req, sparePct)
	if err != nil {
		slog.Error("Failed to build cache key", "error", err)
		h.writeError(w, "Failed to optimize panel", http.StatusInternalServerError)
		return
	}

	resp := models.OptimizeResponse{
		Metadata: models.Metadata{
			Timestamp:      h.now().UTC(),
			CatalogVersion: catalog.Version(),
		},
	}

	if cached, found := h.cache.Get(key); found {
		slog.Debug("Optimize cache hit", "panel", req.Panel)
		h.metrics.CacheHit()
		resp.Result = cached
		resp.Metadata.Cached = true
		w.Header().Set("X-Cache", "HIT")
		h.writeJSON(w, http.StatusOK, resp)
		return
	}
	h.metrics.CacheMiss()

	v, _, _ := h.solves.Do(key, func() (any, error) {
		start := time.Now()
		result := services.SolvePanel(req, catalog, sparePct)
		h.metrics.ObserveOptimize("panel", time.Since(start))
		h.metrics.ObservePanel(string(result.Status), len(result.Solutions))
		if result.Status != models.StatusInvalid {
			h.cache.Set(key, result)
		}
		return result, nil
	})
	result := v.(models.PanelResult)

	if result.Status == models.StatusInvalid {
		h.writeErrorDetails(w, "Invalid panel request", result.Error, http.StatusBadRequest)
		return
	}

	slog.Info("Panel optimized",
		"request_id", middleware.RequestID(r.Context()),
		"panel", req.Panel,
		"status", result.Status,
		"solutions", len(result.Solutions),
	)
	resp.Result = result
	w.Header().Set("X-Cache", "MISS")
	h.writeJSON(w, http.StatusOK, resp)
}

// OptimizeProject solves every panel of a project and returns the default
// bill of quantities built from each panel's cheapest solution.
func (h *Handler) OptimizeProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	catalog := h.currentCatalog()
	if catalog == nil {
		h.writeError(w, "No catalog loaded", http.StatusServiceUnavailable)
		return
	}
	if len(req.Panels) == 0 {
		h.writeError(w, "Project has no panels", http.StatusBadRequest)
		return
	}
	if len(req.Panels) > maxProjectPanels {
		h.writeError(w, fmt.Sprintf("Project exceeds %d panels", maxProjectPanels), http.StatusBadRequest)
		return
	}
	if req.Name != "" {
		if err := services.ValidateName("project", req.Name); err != nil {
			h.writeErrorDetails(w, "Invalid project", err.Error(), http.StatusBadRequest)
			return
		}
	}
	for _, p := range req.Panels {
		if err := services.ValidateName("panel", p.Panel); err != nil {
			h.writeErrorDetails(w, "Invalid panel", err.Error(), http.StatusBadRequest)
			return
		}
	}

	start := time.Now()
	result, err := services.OptimizeProject(r.Context(), req, catalog, h.projectOptions())
	if err != nil {
		if r.Context().Err() != nil {
			slog.Warn("Project optimization cancelled", "request_id", middleware.RequestID(r.Context()), "error", err)
			h.writeError(w, "Request cancelled", http.StatusServiceUnavailable)
			return
		}
		slog.Error("Project optimization failed", "error", err)
		h.writeError(w, "Failed to optimize project", http.StatusInternalServerError)
		return
	}
	h.metrics.ObserveOptimize("project", time.Since(start))
	for _, p := range result.Panels {
		h.metrics.ObservePanel(string(p.Status), len(p.Solutions))
	}

	h.writeJSON(w, http.StatusOK, result)
}
