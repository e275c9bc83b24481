// ABOUTME: Check command for panel-planner CLI
// ABOUTME: Gates CI pipelines on panel feasibility and a project cost ceiling

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
)

// checkOptions extends the project flags with gate thresholds
type checkOptions struct {
	projectOptions
	maxCost         float64
	allowInfeasible bool
}

var checkOpts checkOptions

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a project for unsized panels and cost overruns",
	Long: `Optimize a project and exit non-zero if any panel cannot be sized or the
cheapest bill of quantities exceeds --max-cost.

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Error (connectivity, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		bindSpare(cmd, &checkOpts.projectOptions)
		exitCode := runCheck(ctx, os.Stdout, checkOpts)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addProjectFlags(checkCmd, &checkOpts.projectOptions)
	checkCmd.Flags().Float64Var(&checkOpts.maxCost, "max-cost", 0, "Fail when the cheapest BOQ costs more than this (0 disables)")
	checkCmd.Flags().BoolVar(&checkOpts.allowInfeasible, "allow-infeasible", false, "Report infeasible panels without failing")
}

// checkResult represents the result of a single check
type checkResult struct {
	name      string
	value     float64
	threshold float64
	unit      string
	passed    bool
	detail    string
}

// runCheck executes the project checks and returns exit code
func runCheck(ctx context.Context, w io.Writer, opts checkOptions) int {
	if opts.maxCost < 0 {
		fmt.Fprintln(w, "Error: --max-cost must be >= 0")
		return 2
	}

	result, err := solveProject(ctx, opts.projectOptions)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	results := performChecks(result, opts)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	_, failed := countResults(results)
	if failed > 0 {
		return 1
	}
	return 0
}

// performChecks runs one check per panel plus the optional cost ceiling
func performChecks(result *models.ProjectResult, opts checkOptions) []checkResult {
	var results []checkResult

	for _, p := range result.Panels {
		r := checkResult{name: "Panel " + p.Panel, unit: "solutions", value: float64(len(p.Solutions))}
		switch p.Status {
		case models.StatusOK:
			r.passed = true
			if s, ok := p.Cheapest(); ok {
				r.detail = s.Description
			}
		case models.StatusNoRequirement:
			r.passed = true
			r.detail = "no hardware points"
		case models.StatusInfeasible:
			r.passed = opts.allowInfeasible
			r.detail = "no catalog hardware fits"
		default:
			r.detail = p.Error
		}
		results = append(results, r)
	}

	if opts.maxCost > 0 {
		total := result.DefaultBOQ.TotalCost
		results = append(results, checkResult{
			name:      "Project cost",
			value:     total,
			threshold: opts.maxCost,
			passed:    total <= opts.maxCost,
		})
	}

	return results
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

// formatCheckHuman formats check results for human readability
func formatCheckHuman(results []checkResult) string {
	var output string

	for _, r := range results {
		symbol := "✓"
		if !r.passed {
			symbol = "✗"
		}
		if r.threshold > 0 {
			output += fmt.Sprintf("%s %s: %.2f (limit: %.2f)\n", symbol, r.name, r.value, r.threshold)
			continue
		}
		output += fmt.Sprintf("%s %s: %.0f %s", symbol, r.name, r.value, r.unit)
		if r.detail != "" {
			output += " (" + r.detail + ")"
		}
		output += "\n"
	}

	passed, failed := countResults(results)
	if failed > 0 {
		output += fmt.Sprintf("\nFAILED: %d check(s) failed", failed)
	} else {
		output += fmt.Sprintf("\nPASSED: All %d check(s) passed", passed)
	}

	return output
}

// formatCheckJSON formats check results as JSON
func formatCheckJSON(results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]interface{}, len(results))
	for i, r := range results {
		check := map[string]interface{}{
			"name":   r.name,
			"value":  r.value,
			"passed": r.passed,
		}
		if r.threshold > 0 {
			check["threshold"] = r.threshold
		}
		if r.unit != "" {
			check["unit"] = r.unit
		}
		if r.detail != "" {
			check["detail"] = r.detail
		}
		checks[i] = check
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	output := map[string]interface{}{
		"status": status,
		"checks": checks,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
