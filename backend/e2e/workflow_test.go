// ABOUTME: End-to-end tests for the catalog, optimize, BOQ and accept workflow
// ABOUTME: Drives the HTTP API the way the CLI does, from empty service to accepted selections

package e2e

import (
	"math"
	"net/http"
	"testing"

	"github.com/asman100/BMS-SELECTION-KING/backend/handlers"
	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

func TestWorkflow_E2E(t *testing.T) {
	server := newTestServer(t, serverOptions{})

	// No catalog yet: health is degraded and optimize is unavailable
	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	var health models.HealthResponse
	decodeBody(t, resp, &health)
	if health.Status != "degraded" {
		t.Errorf("Expected degraded before catalog load, got %s", health.Status)
	}

	resp = postJSON(t, server, "/api/v1/optimize", models.PanelRequest{
		Panel:       "LP-01",
		Requirement: &models.RequirementVector{DI: 4},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 before catalog load, got %d", resp.StatusCode)
	}

	// Install the catalog
	resp = putCatalog(t, server, sampleCatalog(t))
	var installed handlers.CatalogResponse
	decodeBody(t, resp, &installed)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from catalog upload, got %d", resp.StatusCode)
	}
	if installed.Summary.ModularServers != 1 || installed.Summary.FixedServers != 1 {
		t.Errorf("Unexpected catalog summary: %+v", installed.Summary)
	}

	// Optimize a project
	project := models.ProjectRequest{
		Name: "Tower A",
		Panels: []models.PanelRequest{
			{Panel: "LP-01", Floor: "L1", Requirement: &models.RequirementVector{DI: 27, DO: 8}},
			{Panel: "LP-02", Floor: "L2", Requirement: &models.RequirementVector{AI: 20}},
			{Panel: "LP-03", Floor: "L2", Requirement: &models.RequirementVector{}},
		},
	}
	resp = postJSON(t, server, "/api/v1/optimize/project", project)
	var result models.ProjectResult
	decodeBody(t, resp, &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from project optimize, got %d", resp.StatusCode)
	}
	if result.CatalogVersion != installed.Summary.Version {
		t.Errorf("Expected catalog version %s, got %s", installed.Summary.Version, result.CatalogVersion)
	}
	if len(result.Panels) != 3 {
		t.Fatalf("Expected 3 panel results, got %d", len(result.Panels))
	}
	for i, want := range []string{"LP-01", "LP-02", "LP-03"} {
		if result.Panels[i].Panel != want {
			t.Errorf("Panel %d: expected %s, got %s", i, want, result.Panels[i].Panel)
		}
	}
	if result.Panels[2].Status != models.StatusNoRequirement {
		t.Errorf("Expected LP-03 no_requirement, got %s", result.Panels[2].Status)
	}
	if result.Feasible != 2 {
		t.Errorf("Expected 2 feasible panels, got %d", result.Feasible)
	}

	lp01 := result.Panels[0]
	if len(lp01.Solutions) != 3 {
		t.Fatalf("Expected 3 solutions for LP-01, got %d", len(lp01.Solutions))
	}
	for i := 1; i < len(lp01.Solutions); i++ {
		if lp01.Solutions[i].TotalCost < lp01.Solutions[i-1].TotalCost {
			t.Errorf("Solutions not sorted by cost at %d", i)
		}
	}

	cheapest := lp01.Solutions[0].TotalCost + result.Panels[1].Solutions[0].TotalCost
	if math.Abs(result.DefaultBOQ.TotalCost-cheapest) > 1e-9 {
		t.Errorf("Default BOQ cost = %v, want %v", result.DefaultBOQ.TotalCost, cheapest)
	}

	// Override LP-01 with its most expensive option and rebuild the BOQ
	selections := models.SelectionsRequest{
		Project: "Tower A",
		Selections: []models.SelectedSolution{
			{Panel: "LP-01", Solution: lp01.Solutions[2]},
			{Panel: "LP-02", Solution: result.Panels[1].Solutions[0]},
		},
	}
	resp = postJSON(t, server, "/api/v1/boq", selections)
	var boq models.BOQ
	decodeBody(t, resp, &boq)
	want := lp01.Solutions[2].TotalCost + result.Panels[1].Solutions[0].TotalCost
	if math.Abs(boq.TotalCost-want) > 1e-9 {
		t.Errorf("BOQ cost = %v, want %v", boq.TotalCost, want)
	}
	if boq.Panels != 2 {
		t.Errorf("Expected 2 panels in BOQ, got %d", boq.Panels)
	}

	// Accept the selections; no broker is configured
	resp = postJSON(t, server, "/api/v1/selections", selections)
	var accepted handlers.SelectionsResponse
	decodeBody(t, resp, &accepted)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from accept, got %d", resp.StatusCode)
	}
	if accepted.Published {
		t.Error("Expected unpublished batch without a broker")
	}
	if accepted.BatchID == "" {
		t.Error("Expected a batch id")
	}
	if math.Abs(accepted.BOQ.TotalCost-want) > 1e-9 {
		t.Errorf("Accepted BOQ cost = %v, want %v", accepted.BOQ.TotalCost, want)
	}
}

func TestWorkflow_E2E_MethodAndPathRouting(t *testing.T) {
	server := newTestServer(t, serverOptions{})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"wrong method", http.MethodGet, "/api/v1/optimize", http.StatusMethodNotAllowed},
		{"unknown path", http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		{"openapi", http.MethodGet, "/api/v1/openapi.yaml", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, server.URL+tt.path, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestWorkflow_E2E_RequestIDPropagates(t *testing.T) {
	server := newTestServer(t, serverOptions{})
	const id = "5f0c3b8e-2a7d-4c1e-9b6a-1d2e3f4a5b6c"

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/v1/health", nil)
	req.Header.Set("X-Request-ID", id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}
}
