// ABOUTME: Catalog commands for panel-planner CLI
// ABOUTME: Shows the backend's active catalog and uploads replacement catalog files

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

	"github.com/asman100/BMS-SELECTION-KING/backend/services"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/client"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/report"
)

var (
	catalogFile   string
	catalogVerify bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the active hardware catalog",
	Long:  `Show the catalog loaded in the backend: version, entry counts and devices.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runCatalogShow(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var catalogPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Replace the backend catalog",
	Long: `Upload a YAML or JSON catalog file to the backend. The file is validated
locally first; with --verify-only nothing is uploaded.

Exit codes:
  0 - Catalog valid (and uploaded)
  2 - Error (invalid catalog, connectivity)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runCatalogPush(ctx, os.Stdout, catalogFile, catalogVerify); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogPushCmd)
	catalogPushCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "Catalog file (YAML or JSON)")
	catalogPushCmd.Flags().BoolVar(&catalogVerify, "verify-only", false, "Validate the file without uploading it")
	catalogPushCmd.MarkFlagRequired("file")
}

// runCatalogShow prints the active catalog and returns exit code
func runCatalogShow(ctx context.Context, w io.Writer) int {
	resp, err := client.New(GetAPIURL()).Catalog(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}
	fmt.Fprintln(w, report.Catalog(resp.Summary, resp.Devices))
	return 0
}

// runCatalogPush validates and uploads a catalog file and returns exit code
func runCatalogPush(ctx context.Context, w io.Writer, path string, verifyOnly bool) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	local, err := services.ParseCatalog(data)
	if err != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", path, err)
		return 2
	}

	summary := local.Summary()
	if !verifyOnly {
		resp, err := client.New(GetAPIURL()).PutCatalog(ctx, data)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		summary = resp.Summary
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]interface{}{
			"uploaded": !verifyOnly,
			"summary":  summary,
		}, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	action := "Uploaded"
	if verifyOnly {
		action = "Validated"
	}
	fmt.Fprintf(w, "%s catalog %s\n", action, summary.Version)
	fmt.Fprintln(w, report.Catalog(summary, nil))
	return 0
}
