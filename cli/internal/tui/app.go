// ABOUTME: Root bubbletea model for browsing a project's ranked panel solutions
// ABOUTME: Manages screen state and routes keyboard input to the panel and solution tables

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
	"github.com/asman100/BMS-SELECTION-KING/backend/services"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/debuglog"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/icons"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/report"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/styles"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/widgets"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenPanels Screen = iota
	ScreenSolutions
	ScreenBOQ
)

// Layout constants
const (
	defaultTableHeight = 12
	chromeHeight       = 8 // title, status line, help and borders
)

// Loader fetches a fresh project result, from the backend or a local catalog
type Loader func(ctx context.Context) (*models.ProjectResult, error)

// projectLoadedMsg is sent when a (re)load finishes
type projectLoadedMsg struct {
	result *models.ProjectResult
	err    error
}

// App is the root model for the TUI
type App struct {
	load    Loader
	result  *models.ProjectResult
	choices map[string]int // panel -> chosen solution index
	screen  Screen
	panel   int // index into result.Panels while on ScreenSolutions
	width   int
	height  int
	err     error
	loading bool

	panels    table.Model
	solutions table.Model
}

// New creates the browser. A nil result is loaded through load on Init.
func New(result *models.ProjectResult, load Loader) *App {
	a := &App{
		load:      load,
		choices:   make(map[string]int),
		screen:    ScreenPanels,
		panels:    newTable(panelColumns(0)),
		solutions: newTable(solutionColumns(0)),
	}
	if result != nil {
		a.setResult(result)
	}
	return a
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(defaultTableHeight),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Accent)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Primary).
		Bold(false)
	t.SetStyles(s)
	return t
}

func panelColumns(width int) []table.Column {
	desc := 28
	if width > 100 {
		desc += width - 100
	}
	return []table.Column{
		{Title: "Panel", Width: 10},
		{Title: "Floor", Width: 6},
		{Title: "Status", Width: 14},
		{Title: "Requirement", Width: 22},
		{Title: "Opts", Width: 4},
		{Title: "Choice", Width: desc},
		{Title: "Cost", Width: 12},
	}
}

func solutionColumns(width int) []table.Column {
	desc := 30
	if width > 100 {
		desc += width - 100
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Kind", Width: 16},
		{Title: "Description", Width: desc},
		{Title: "Lines", Width: 6},
		{Title: "Cost", Width: 12},
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.result == nil && a.load != nil {
		a.loading = true
		return a.reload()
	}
	return nil
}

func (a *App) reload() tea.Cmd {
	load := a.load
	return func() tea.Msg {
		result, err := load(context.Background())
		return projectLoadedMsg{result: result, err: err}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		h := msg.Height - chromeHeight
		if h < 3 {
			h = 3
		}
		a.panels.SetColumns(panelColumns(msg.Width))
		a.panels.SetHeight(h)
		a.solutions.SetColumns(solutionColumns(msg.Width))
		a.solutions.SetHeight(h)
		return a, nil

	case projectLoadedMsg:
		a.loading = false
		if msg.err != nil {
			debuglog.Error("load project", msg.err)
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.setResult(msg.result)
		a.screen = ScreenPanels
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenPanels:
			return a.updatePanels(msg)
		case ScreenSolutions:
			return a.updateSolutions(msg)
		case ScreenBOQ:
			return a.updateBOQ(msg)
		}
	}

	return a, nil
}

func (a *App) updatePanels(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		if a.load != nil && !a.loading {
			a.loading = true
			return a, a.reload()
		}
		return a, nil
	case "o":
		if a.result != nil {
			a.screen = ScreenBOQ
		}
		return a, nil
	case "enter":
		if a.result == nil {
			return a, nil
		}
		idx := a.panels.Cursor()
		if idx < 0 || idx >= len(a.result.Panels) || len(a.result.Panels[idx].Solutions) == 0 {
			return a, nil
		}
		a.panel = idx
		a.solutions.SetRows(a.solutionRows())
		a.solutions.SetCursor(a.choices[a.result.Panels[idx].Panel])
		a.screen = ScreenSolutions
		return a, nil
	}

	var cmd tea.Cmd
	a.panels, cmd = a.panels.Update(msg)
	return a, cmd
}

func (a *App) updateSolutions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b", "esc":
		a.screen = ScreenPanels
		return a, nil
	case "enter":
		p := a.result.Panels[a.panel]
		if c := a.solutions.Cursor(); c >= 0 && c < len(p.Solutions) {
			a.choices[p.Panel] = c
		}
		a.panels.SetRows(a.panelRows())
		a.screen = ScreenPanels
		return a, nil
	}

	var cmd tea.Cmd
	a.solutions, cmd = a.solutions.Update(msg)
	return a, cmd
}

func (a *App) updateBOQ(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b", "esc":
		a.screen = ScreenPanels
	}
	return a, nil
}

// setResult installs a new result. Choices survive a reload when the panel
// still has that many solutions.
func (a *App) setResult(result *models.ProjectResult) {
	a.result = result
	kept := make(map[string]int)
	for _, p := range result.Panels {
		if c, ok := a.choices[p.Panel]; ok && c < len(p.Solutions) {
			kept[p.Panel] = c
		}
	}
	a.choices = kept
	a.panels.SetRows(a.panelRows())
	a.panels.SetCursor(0)
}

func (a *App) panelRows() []table.Row {
	if a.result == nil {
		return nil
	}
	rows := make([]table.Row, 0, len(a.result.Panels))
	for _, p := range a.result.Panels {
		choice, cost := "-", "-"
		if len(p.Solutions) > 0 {
			s := p.Solutions[a.choices[p.Panel]]
			choice = s.Description
			cost = report.Money(s.TotalCost)
		} else if p.Error != "" {
			choice = p.Error
		}
		rows = append(rows, table.Row{
			p.Panel,
			p.Floor,
			string(p.Status),
			report.Requirement(p.Requirement),
			strconv.Itoa(len(p.Solutions)),
			choice,
			cost,
		})
	}
	return rows
}

func (a *App) solutionRows() []table.Row {
	p := a.result.Panels[a.panel]
	chosen := a.choices[p.Panel]
	rows := make([]table.Row, 0, len(p.Solutions))
	for i, s := range p.Solutions {
		marker := strconv.Itoa(i)
		if i == chosen {
			marker += " " + icons.CheckOK.String()
		}
		rows = append(rows, table.Row{
			marker,
			widgets.KindIcon(s.Kind) + " " + string(s.Kind),
			s.Description,
			strconv.Itoa(len(s.Lines)),
			report.Money(s.TotalCost),
		})
	}
	return rows
}

// Selections returns the chosen solution for every panel that has one
func (a *App) Selections() []models.SelectedSolution {
	if a.result == nil {
		return nil
	}
	var out []models.SelectedSolution
	for _, p := range a.result.Panels {
		if len(p.Solutions) == 0 {
			continue
		}
		out = append(out, models.SelectedSolution{Panel: p.Panel, Solution: p.Solutions[a.choices[p.Panel]]})
	}
	return out
}

// Changed reports whether any panel moved off its cheapest solution
func (a *App) Changed() bool {
	for _, c := range a.choices {
		if c != 0 {
			return true
		}
	}
	return false
}

// View implements tea.Model
func (a *App) View() string {
	var sb strings.Builder

	title := "Panel Planner"
	if a.result != nil && a.result.Name != "" {
		title += " · " + a.result.Name
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")

	switch {
	case a.err != nil:
		sb.WriteString(widgets.StatusText("Error: "+a.err.Error(), widgets.StatusCritical))
		sb.WriteString("\n")
	case a.loading:
		sb.WriteString(styles.Subtitle.Render("Optimizing panels..."))
		sb.WriteString("\n")
	}

	if a.result == nil {
		sb.WriteString(a.help("r reload", "q quit"))
		return sb.String()
	}

	switch a.screen {
	case ScreenPanels:
		sb.WriteString(a.summaryLine())
		sb.WriteString("\n")
		sb.WriteString(styles.ActivePanel.Render(a.panels.View()))
		sb.WriteString("\n")
		sb.WriteString(a.help("enter solutions", "o bill of quantities", "r reload", "q quit"))

	case ScreenSolutions:
		p := a.result.Panels[a.panel]
		sb.WriteString(fmt.Sprintf("%s %s  %s\n", widgets.PanelBadge(p.Status), styles.ValueStyle.Render(p.Panel), report.Requirement(p.Requirement)))
		sb.WriteString(styles.ActivePanel.Render(a.solutions.View()))
		sb.WriteString("\n")
		if c := a.solutions.Cursor(); c >= 0 && c < len(p.Solutions) {
			sb.WriteString(lines(p.Solutions[c]))
		}
		sb.WriteString(a.help("enter choose", "b back", "q quit"))

	case ScreenBOQ:
		sb.WriteString(report.BOQ(services.AggregateBOQ(a.Selections())))
		sb.WriteString("\n")
		sb.WriteString(a.help("b back", "q quit"))
	}

	return sb.String()
}

func (a *App) summaryLine() string {
	total := 0.0
	for _, s := range a.Selections() {
		total += s.Solution.TotalCost
	}
	r := a.result
	level := widgets.StatusOK
	if r.Infeasible > 0 || r.Invalid > 0 {
		level = widgets.StatusWarning
	}
	return widgets.StatusText(fmt.Sprintf("%d/%d panels sized · selection total %s",
		r.Feasible, len(r.Panels), report.Money(total)), level)
}

func lines(s models.Solution) string {
	var sb strings.Builder
	for _, l := range s.Lines {
		sb.WriteString(fmt.Sprintf("  %s %-12s %3d × %s  %s\n",
			widgets.CategoryIcon(l.Category), l.PartNumber, l.Quantity, report.Money(l.UnitCost), l.Description))
	}
	return sb.String()
}

func (a *App) help(keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		key, desc, _ := strings.Cut(k, " ")
		parts = append(parts, styles.KeyStyle.Render(key)+" "+desc)
	}
	return styles.Help.Render(strings.Join(parts, "  "))
}
