// ABOUTME: API envelope types shared by every endpoint
// ABOUTME: JSON-serializable structures matching CLI expectations

package models

import "time"

// HealthResponse reports service readiness.
type HealthResponse struct {
	Status    string          `json:"status"`
	Catalog   *CatalogSummary `json:"catalog,omitempty"`
	Publisher PublisherStatus `json:"publisher"`
	Timestamp time.Time       `json:"timestamp"`
}

// PublisherStatus describes the selections hand-off.
type PublisherStatus struct {
	Enabled bool   `json:"enabled"`
	Topic   string `json:"topic,omitempty"`
}

// Metadata contains response metadata
type Metadata struct {
	Timestamp      time.Time `json:"timestamp"`
	Cached         bool      `json:"cached"`
	CatalogVersion string    `json:"catalog_version"`
}

// OptimizeResponse wraps a single panel result.
type OptimizeResponse struct {
	Result   PanelResult `json:"result"`
	Metadata Metadata    `json:"metadata"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
