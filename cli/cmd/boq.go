// ABOUTME: BOQ command for panel-planner CLI
// ABOUTME: Aggregates a saved selections file into a bill of quantities

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
	"github.com/asman100/BMS-SELECTION-KING/backend/services"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/client"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/report"
)

var (
	boqFile  string
	boqLocal bool
)

var boqCmd = &cobra.Command{
	Use:   "boq",
	Short: "Build a bill of quantities from selections",
	Long: `Aggregate a selections file (as written by "select --out") into a bill of
quantities keyed by part number.

Exit codes:
  0 - BOQ built
  2 - Error (connectivity, invalid selections file)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runBOQ(ctx, os.Stdout, boqFile, boqLocal); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(boqCmd)
	boqCmd.Flags().StringVarP(&boqFile, "file", "f", "", "Selections file (JSON)")
	boqCmd.Flags().BoolVar(&boqLocal, "local", false, "Aggregate locally instead of calling the backend")
	boqCmd.MarkFlagRequired("file")
}

// loadSelections reads a selections file. Unknown fields are rejected.
func loadSelections(path string) (models.SelectionsRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.SelectionsRequest{}, fmt.Errorf("read selections %s: %w", path, err)
	}
	defer f.Close()

	var req models.SelectionsRequest
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return models.SelectionsRequest{}, fmt.Errorf("parse selections %s: %w", path, err)
	}
	return req, nil
}

// runBOQ builds the bill of quantities and returns exit code
func runBOQ(ctx context.Context, w io.Writer, path string, local bool) int {
	req, err := loadSelections(path)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	var boq models.BOQ
	if local {
		if err := req.Validate(); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		boq = services.AggregateBOQ(req.Selections)
	} else {
		resp, err := client.New(GetAPIURL()).BOQ(ctx, req)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		boq = *resp
	}

	writeBOQ(w, boq)
	return 0
}

func writeBOQ(w io.Writer, boq models.BOQ) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(boq, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintln(w, report.BOQ(boq))
}
