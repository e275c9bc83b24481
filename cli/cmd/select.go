// ABOUTME: Select command for panel-planner CLI
// ABOUTME: Picks one solution per panel interactively and accepts or saves the selections

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
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/picker"
)

// selectOptions extends the project flags with selection handling
type selectOptions struct {
	projectOptions
	publish bool
	out     string
	choose  map[string]int
	yes     bool
}

var selectOpts selectOptions

// runPicker shows the interactive form; swapped in tests
var runPicker = func(p *picker.Picker) ([]models.SelectedSolution, error) {
	return p.Run()
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Choose a solution per panel",
	Long: `Optimize a project, then choose one solution per feasible panel. Every panel
defaults to its cheapest solution; --choose overrides by solution index and
--yes skips the interactive form.

With --publish the selections are accepted by the backend, which hands them to
the persistence layer. With --out they are saved for the boq command.

Exit codes:
  0 - Selections accepted or saved
  2 - Error (connectivity, invalid project, no feasible panel)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		bindSpare(cmd, &selectOpts.projectOptions)
		if exitCode := runSelect(ctx, os.Stdout, selectOpts); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
	addProjectFlags(selectCmd, &selectOpts.projectOptions)
	selectCmd.Flags().BoolVar(&selectOpts.publish, "publish", false, "Accept the selections in the backend")
	selectCmd.Flags().StringVarP(&selectOpts.out, "out", "o", "", "Write the selections to a JSON file")
	selectCmd.Flags().StringToIntVar(&selectOpts.choose, "choose", nil, "Override choices by solution index, e.g. LP-01=2,LP-04=1")
	selectCmd.Flags().BoolVarP(&selectOpts.yes, "yes", "y", false, "Skip the interactive form")
}

// runSelect runs the selection flow and returns exit code
func runSelect(ctx context.Context, w io.Writer, opts selectOptions) int {
	if opts.publish && opts.local {
		fmt.Fprintln(w, "Error: --publish needs the backend and cannot be combined with --local")
		return 2
	}

	result, err := solveProject(ctx, opts.projectOptions)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	p := picker.New(result)
	if p.Len() == 0 {
		fmt.Fprintln(w, "Error: no panel has a feasible solution")
		return 2
	}
	for panel, index := range opts.choose {
		if err := p.Choose(panel, index); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	selections := p.Selections()
	if !opts.yes {
		selections, err = runPicker(p)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}
	req := models.SelectionsRequest{Project: result.Name, Selections: selections}

	if opts.out != "" {
		data, _ := json.MarshalIndent(req, "", "  ")
		if err := os.WriteFile(opts.out, data, 0o644); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if !IsJSONOutput() {
			fmt.Fprintf(w, "Saved %d selections to %s\n", len(selections), opts.out)
		}
	}

	if opts.publish {
		accepted, err := client.New(GetAPIURL()).AcceptSelections(ctx, req)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if IsJSONOutput() {
			data, _ := json.MarshalIndent(accepted, "", "  ")
			fmt.Fprintln(w, string(data))
			return 0
		}
		status := "not published (no broker configured)"
		if accepted.Published {
			status = "published to " + accepted.Topic
		}
		fmt.Fprintf(w, "Batch %s %s\n", accepted.BatchID, status)
		writeBOQ(w, accepted.BOQ)
		return 0
	}

	var boq models.BOQ
	if opts.local {
		boq = services.AggregateBOQ(selections)
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
