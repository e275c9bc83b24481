// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import (
	"net/http"

	"github.com/asman100/BMS-SELECTION-KING/backend/middleware"
)

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	jsonBody := middleware.RequireContentType("application/json")
	catalogBody := middleware.RequireContentType(
		"application/yaml", "application/x-yaml", "text/yaml", "application/json",
	)

	return []Route{
		// Health & Status
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},

		// Catalog
		{Method: http.MethodGet, Path: "/api/v1/catalog", Handler: h.GetCatalog},
		{Method: http.MethodPut, Path: "/api/v1/catalog", Handler: catalogBody(h.PutCatalog)},

		// Optimization
		{Method: http.MethodPost, Path: "/api/v1/optimize", Handler: jsonBody(h.Optimize)},
		{Method: http.MethodPost, Path: "/api/v1/optimize/project", Handler: jsonBody(h.OptimizeProject)},

		// Selections
		{Method: http.MethodPost, Path: "/api/v1/boq", Handler: jsonBody(h.BOQ)},
		{Method: http.MethodPost, Path: "/api/v1/selections", Handler: jsonBody(h.AcceptSelections)},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}

// IsWrite reports whether a route mutates state or does heavy work, and so
// falls under the stricter write rate limit.
func (r Route) IsWrite() bool {
	return r.Method != http.MethodGet
}
