// ABOUTME: HTTP handlers for bills of quantities and accepted panel selections
// ABOUTME: Accepted selections are aggregated and handed to the Kafka publisher

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/asman100/BMS-SELECTION-KING/backend/middleware"
	"github.com/asman100/BMS-SELECTION-KING/backend/models"
	"github.com/asman100/BMS-SELECTION-KING/backend/services"
)

// SelectionsResponse is returned when selections are accepted.
type SelectionsResponse struct {
	BatchID   string     `json:"batch_id"`
	Published bool       `json:"published"`
	Topic     string     `json:"topic,omitempty"`
	BOQ       models.BOQ `json:"boq"`
}

func (h *Handler) decodeSelections(w http.ResponseWriter, r *http.Request) (models.SelectionsRequest, bool) {
	var req models.SelectionsRequest
	if !h.decodeJSON(w, r, &req) {
		return req, false
	}
	if err := req.Validate(); err != nil {
		h.writeErrorDetails(w, "Invalid selections", err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// BOQ aggregates the chosen solution of each panel. It does not need the
// catalog: every solution carries its own line items.
func (h *Handler) BOQ(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSelections(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, services.AggregateBOQ(req.Selections))
}

// AcceptSelections records the final choice per panel and publishes one
// event per panel when a broker is configured.
func (h *Handler) AcceptSelections(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSelections(w, r)
	if !ok {
		return
	}
	if len(req.Selections) == 0 {
		h.writeError(w, "No selections to accept", http.StatusBadRequest)
		return
	}
	if req.Project != "" {
		if err := services.ValidateName("project", req.Project); err != nil {
			h.writeErrorDetails(w, "Invalid project", err.Error(), http.StatusBadRequest)
			return
		}
	}
	for _, s := range req.Selections {
		if err := services.ValidateName("panel", s.Panel); err != nil {
			h.writeErrorDetails(w, "Invalid panel", err.Error(), http.StatusBadRequest)
			return
		}
	}

	batch := models.SelectionBatch{
		ID:         uuid.NewString(),
		Project:    req.Project,
		AcceptedAt: h.now().UTC(),
		Selections: req.Selections,
		BOQ:        services.AggregateBOQ(req.Selections),
	}
	if c := h.currentCatalog(); c != nil {
		batch.CatalogVersion = c.Version()
	}

	published, err := h.publisher.Publish(r.Context(), batch)
	if err != nil {
		h.metrics.SelectionsPublished("failed", len(batch.Selections))
		slog.Error("Failed to publish selections",
			"request_id", middleware.RequestID(r.Context()),
			"batch", batch.ID,
			"error", err,
		)
		h.writeError(w, "Failed to publish selections", http.StatusBadGateway)
		return
	}
	result := "skipped"
	if published {
		result = "published"
	}
	h.metrics.SelectionsPublished(result, len(batch.Selections))

	slog.Info("Selections accepted",
		"request_id", middleware.RequestID(r.Context()),
		"batch", batch.ID,
		"project", batch.Project,
		"panels", len(batch.Selections),
		"published", published,
		"total_cost", batch.BOQ.TotalCost,
	)

	h.writeJSON(w, http.StatusOK, SelectionsResponse{
		BatchID:   batch.ID,
		Published: published,
		Topic:     h.publisher.Topic(),
		BOQ:       batch.BOQ,
	})
}
