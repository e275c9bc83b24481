// ABOUTME: Shared fixtures for command tests
// ABOUTME: Runs the real backend handlers in-process and writes temporary project files

package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/asman100/BMS-SELECTION-KING/backend/config"
	"github.com/asman100/BMS-SELECTION-KING/backend/handlers"
	"github.com/asman100/BMS-SELECTION-KING/backend/services"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/recent"
)

const exampleCatalog = "../../catalog.example.yaml"

// LP-01 is met by controllers, LP-02 only by servers, LP-03 needs nothing.
const towerProject = `name: Tower A
panels:
  - panel: LP-01
    floor: L1
    requirement: {di: 27, do: 8}
  - panel: LP-02
    floor: L2
    requirement: {ai: 20}
  - panel: LP-03
    requirement: {}
`

// newTestBackend serves the API with the example catalog installed and
// points the CLI at it for the duration of the test.
func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()

	h := handlers.NewHandler(&config.Config{OptimizerWorkers: 2}, nil, nil)
	t.Cleanup(h.Close)

	catalog, err := services.LoadCatalogFile(exampleCatalog)
	if err != nil {
		t.Fatalf("load example catalog: %v", err)
	}
	h.SetCatalog(catalog)

	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Method+" "+route.Path, route.Handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	apiURL = server.URL
	t.Cleanup(func() { apiURL = "" })
	return server
}

// isolateCLI resets global CLI state the commands read.
func isolateCLI(t *testing.T) {
	t.Helper()

	viper.Reset()
	saved := recentProjects
	recentProjects = recent.New(t.TempDir())
	t.Cleanup(func() {
		recentProjects = saved
		jsonOutput = false
		viper.Reset()
	})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeProject(t *testing.T) string {
	t.Helper()
	return writeFile(t, "project.yaml", towerProject)
}
