// ABOUTME: Health command for panel-planner CLI
// ABOUTME: Checks backend connectivity, catalog state and the selections publisher

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the panel planner backend and report whether a catalog is loaded.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()
	c := client.New(url)

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(url, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}

	return 0
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *models.HealthResponse) string {
	catalog := "not loaded"
	if resp.Catalog != nil {
		catalog = fmt.Sprintf("%s (%d controllers, %d modular servers, %d fixed servers, %d modules)",
			resp.Catalog.Version, resp.Catalog.Controllers, resp.Catalog.ModularServers,
			resp.Catalog.FixedServers, resp.Catalog.Modules)
	}
	publisher := "disabled"
	if resp.Publisher.Enabled {
		publisher = "kafka topic " + resp.Publisher.Topic
	}
	return fmt.Sprintf(`Backend:   %s
Status:    %s
Catalog:   %s
Publisher: %s`, url, resp.Status, catalog, publisher)
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(url string, resp *models.HealthResponse) string {
	output := map[string]interface{}{
		"backend":   url,
		"status":    resp.Status,
		"catalog":   resp.Catalog,
		"publisher": resp.Publisher,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
