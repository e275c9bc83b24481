// ABOUTME: HTTP client for the panel planner API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

// Client is the API client for the panel planner backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CatalogResponse mirrors GET /api/v1/catalog.
type CatalogResponse struct {
	Summary     models.CatalogSummary `json:"summary"`
	Devices     []models.DeviceType   `json:"devices"`
	Modules     []models.Module       `json:"modules"`
	Accessories []models.Accessory    `json:"accessories"`
}

// SelectionsResponse mirrors POST /api/v1/selections.
type SelectionsResponse struct {
	BatchID   string     `json:"batch_id"`
	Published bool       `json:"published"`
	Topic     string     `json:"topic,omitempty"`
	BOQ       models.BOQ `json:"boq"`
}

// Health calls GET /api/v1/health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var health models.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", "", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Catalog calls GET /api/v1/catalog
func (c *Client) Catalog(ctx context.Context) (*CatalogResponse, error) {
	var catalog CatalogResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/catalog", "", nil, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// PutCatalog uploads a YAML or JSON catalog document to PUT /api/v1/catalog
func (c *Client) PutCatalog(ctx context.Context, document []byte) (*CatalogResponse, error) {
	var catalog CatalogResponse
	if err := c.do(ctx, http.MethodPut, "/api/v1/catalog", "application/yaml", document, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Optimize calls POST /api/v1/optimize for a single panel
func (c *Client) Optimize(ctx context.Context, panel models.PanelRequest) (*models.OptimizeResponse, error) {
	var result models.OptimizeResponse
	if err := c.postJSON(ctx, "/api/v1/optimize", panel, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OptimizeProject calls POST /api/v1/optimize/project
func (c *Client) OptimizeProject(ctx context.Context, project models.ProjectRequest) (*models.ProjectResult, error) {
	var result models.ProjectResult
	if err := c.postJSON(ctx, "/api/v1/optimize/project", project, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BOQ calls POST /api/v1/boq
func (c *Client) BOQ(ctx context.Context, selections models.SelectionsRequest) (*models.BOQ, error) {
	var boq models.BOQ
	if err := c.postJSON(ctx, "/api/v1/boq", selections, &boq); err != nil {
		return nil, err
	}
	return &boq, nil
}

// AcceptSelections calls POST /api/v1/selections
func (c *Client) AcceptSelections(ctx context.Context, selections models.SelectionsRequest) (*SelectionsResponse, error) {
	var accepted SelectionsResponse
	if err := c.postJSON(ctx, "/api/v1/selections", selections, &accepted); err != nil {
		return nil, err
	}
	return &accepted, nil
}

func (c *Client) postJSON(ctx context.Context, path string, input, out any) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", body, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	if errResp.Details != "" {
		return fmt.Errorf("backend error: %s: %s", errResp.Error, errResp.Details)
	}
	return fmt.Errorf("backend error: %s", errResp.Error)
}
