// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports catalog readiness and whether selections are being published

package handlers

import (
	"net/http"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

// Health returns API health status. Without a catalog the service is up but
// "degraded": every optimize call answers 503 until one is installed.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status: "ok",
		Publisher: models.PublisherStatus{
			Enabled: h.publisher.Enabled(),
			Topic:   h.publisher.Topic(),
		},
		Timestamp: h.now().UTC(),
	}

	if c := h.currentCatalog(); c != nil {
		summary := c.Summary()
		resp.Catalog = &summary
	} else {
		resp.Status = "degraded"
	}

	h.writeJSON(w, http.StatusOK, resp)
}
