// ABOUTME: Browse command for panel-planner CLI
// ABOUTME: Launches the interactive TUI over a project's ranked solutions

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
	"github.com/asman100/BMS-SELECTION-KING/backend/services"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/recent"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/debuglog"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/report"
)

var browseOpts projectOptions

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse ranked solutions interactively",
	Long: `Open a terminal UI listing every panel with its ranked solutions. Pick a
different solution per panel, view the resulting bill of quantities, and
reload after editing the project file.

Keys: enter opens a panel or chooses a solution, b goes back, o shows the
bill of quantities, r reloads, q quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bindSpare(cmd, &browseOpts)
		return runBrowse(os.Stdout, browseOpts)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	addProjectFlags(browseCmd, &browseOpts)
}

// browseLoader solves the project on every (re)load.
func browseLoader(opts projectOptions) tui.Loader {
	return func(ctx context.Context) (*models.ProjectResult, error) {
		return solveProject(ctx, opts)
	}
}

func runBrowse(w io.Writer, opts projectOptions) error {
	if err := debuglog.Init(recent.DefaultConfigDir()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
	}
	defer debuglog.Close()

	// Resolve up front so a missing file fails before the screen is taken over
	path, err := resolveProjectFile(opts.file)
	if err != nil {
		return err
	}
	opts.file = path

	app := tui.New(nil, browseLoader(opts))
	final, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run browser: %w", err)
	}

	if a, ok := final.(*tui.App); ok && a.Changed() {
		fmt.Fprintln(w, report.BOQ(services.AggregateBOQ(a.Selections())))
	}
	return nil
}
