// ABOUTME: Optimize command for panel-planner CLI
// ABOUTME: Ranks controller and server solutions for every panel in a project file

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

	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/report"
)

var optimizeOpts projectOptions

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rank hardware solutions for a project",
	Long: `Rank every feasible controller and server solution per panel, cheapest first,
and print the bill of quantities of the cheapest choices.

Example project file:

  name: Tower A
  spare_pct: 10
  panels:
    - panel: LP-01
      floor: L1
      requirement: {di: 27, do: 8}
    - panel: LP-02
      schedule:
        equipment:
          - instance_name: AHU-1
            quantity: 2
            points:
              - {name: Supply temp, point_type: AI}
              - {name: Fan start, point_type: DO}

Exit codes:
  0 - Project optimized (infeasible panels are reported, not failed)
  2 - Error (connectivity, invalid project file)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		bindSpare(cmd, &optimizeOpts)
		if exitCode := runOptimize(ctx, os.Stdout, optimizeOpts); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	addProjectFlags(optimizeCmd, &optimizeOpts)
}

// runOptimize solves the project and returns exit code
func runOptimize(ctx context.Context, w io.Writer, opts projectOptions) int {
	result, err := solveProject(ctx, opts)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintln(w, report.NewProjectView(result, 0).View())
	for _, p := range result.Panels {
		if len(p.Solutions) > 1 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, report.Panel(p, 0))
		}
	}
	return 0
}
