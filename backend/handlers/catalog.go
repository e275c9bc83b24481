// ABOUTME: HTTP handlers for reading and replacing the hardware catalog
// ABOUTME: Accepts YAML or JSON catalog documents and swaps the snapshot atomically

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/asman100/BMS-SELECTION-KING/backend/middleware"
	"github.com/asman100/BMS-SELECTION-KING/backend/models"
	"github.com/asman100/BMS-SELECTION-KING/backend/services"
)

// CatalogResponse is the catalog summary plus its full contents.
type CatalogResponse struct {
	Summary     models.CatalogSummary `json:"summary"`
	Devices     []models.DeviceType   `json:"devices"`
	Modules     []models.Module       `json:"modules"`
	Accessories []models.Accessory    `json:"accessories"`
}

func newCatalogResponse(c *models.Catalog) CatalogResponse {
	f := c.File()
	return CatalogResponse{
		Summary:     c.Summary(),
		Devices:     f.Devices,
		Modules:     f.Modules,
		Accessories: f.Accessories,
	}
}

// GetCatalog returns the active catalog.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c := h.currentCatalog()
	if c == nil {
		h.writeError(w, "No catalog loaded", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, http.StatusOK, newCatalogResponse(c))
}

// PutCatalog replaces the catalog. The body is parsed as YAML, which also
// accepts JSON documents.
func (h *Handler) PutCatalog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCatalogBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return
		}
		h.writeError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	c, err := services.ParseCatalog(body)
	if err != nil {
		slog.Warn("Catalog upload rejected",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		h.writeErrorDetails(w, "Invalid catalog", err.Error(), http.StatusBadRequest)
		return
	}

	h.SetCatalog(c)
	h.writeJSON(w, http.StatusOK, newCatalogResponse(c))
}
