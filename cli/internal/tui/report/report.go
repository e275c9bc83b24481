// ABOUTME: Static lipgloss reports for projects, panel solutions, catalogs and BOQs
// ABOUTME: Shared by the non-interactive commands and the browse TUI detail pane

package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/styles"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/widgets"
)

var cell = lipgloss.NewStyle().Padding(0, 1)

// Money formats a cost with thousands separators and two decimals.
func Money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// Requirement lists the non-zero point counts, e.g. "DI 27 · DO 8".
func Requirement(r models.RequirementVector) string {
	var parts []string
	for _, k := range []struct {
		name  string
		value int
	}{
		{models.PointAI, r.AI}, {models.PointAO, r.AO}, {models.PointDI, r.DI}, {models.PointDO, r.DO}, {models.PointUI, r.UI},
	} {
		if k.value > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", k.name, k.value))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " · ")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Header.Padding(0, 1)
			}
			return cell
		}).
		Headers(headers...)
}

// ProjectView renders a whole project result
type ProjectView struct {
	result *models.ProjectResult
	width  int
}

// NewProjectView creates a project report
func NewProjectView(result *models.ProjectResult, width int) *ProjectView {
	return &ProjectView{result: result, width: width}
}

// View renders the panel summary followed by the default bill of quantities
func (v *ProjectView) View() string {
	if v.result == nil {
		return "No project data"
	}
	r := v.result

	var sb strings.Builder
	title := "Project"
	if r.Name != "" {
		title = "Project " + r.Name
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Catalog %s · %d feasible · %d infeasible · %d invalid",
		r.CatalogVersion, r.Feasible, r.Infeasible, r.Invalid)))
	sb.WriteString("\n")

	t := newTable("Panel", "Floor", "Status", "Requirement", "Options", "Cheapest", "Cost")
	for _, p := range r.Panels {
		cheapest, cost := "-", "-"
		if s, ok := p.Cheapest(); ok {
			cheapest = s.Description
			cost = Money(s.TotalCost)
		} else if p.Error != "" {
			cheapest = p.Error
		}
		t.Row(p.Panel, p.Floor, widgets.PanelBadge(p.Status), Requirement(p.Requirement),
			strconv.Itoa(len(p.Solutions)), cheapest, cost)
	}
	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(BOQ(r.DefaultBOQ))

	if v.width > 0 {
		return lipgloss.NewStyle().MaxWidth(v.width).Render(sb.String())
	}
	return sb.String()
}

// Panel renders one panel's ranked solutions. selected marks a row, or -1 for none.
func Panel(p models.PanelResult, selected int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Panel " + p.Panel))
	sb.WriteString("\n")

	meta := fmt.Sprintf("%s  Requirement %s", widgets.PanelBadge(p.Status), Requirement(p.Requirement))
	if p.SparePct > 0 {
		meta += fmt.Sprintf(" (scheduled %s + %g%% spare)", Requirement(p.Scheduled), p.SparePct)
	}
	sb.WriteString(meta)
	sb.WriteString("\n")
	if len(p.NetworkPoints) > 0 {
		var names []string
		for name, n := range p.NetworkPoints {
			names = append(names, fmt.Sprintf("%s %d", name, n))
		}
		sort.Strings(names)
		sb.WriteString(styles.Subtitle.Render("Network points: " + strings.Join(names, ", ")))
		sb.WriteString("\n")
	}

	switch p.Status {
	case models.StatusInvalid:
		sb.WriteString(styles.StatusCritical.Render(p.Error))
		return sb.String()
	case models.StatusNoRequirement:
		sb.WriteString(styles.StatusInfo.Render("No hardware points scheduled"))
		return sb.String()
	case models.StatusInfeasible:
		sb.WriteString(styles.StatusWarning.Render("No catalog hardware covers this requirement"))
		return sb.String()
	}

	t := newTable("#", "Kind", "Description", "Parts", "Cost")
	for i, s := range p.Solutions {
		marker := strconv.Itoa(i)
		if i == selected {
			marker = "▶ " + marker
		}
		t.Row(marker, widgets.KindIcon(s.Kind)+" "+string(s.Kind), s.Description, partList(s), Money(s.TotalCost))
	}
	sb.WriteString(t.Render())
	return sb.String()
}

func partList(s models.Solution) string {
	parts := make([]string, 0, len(s.Lines))
	for _, l := range s.Lines {
		parts = append(parts, fmt.Sprintf("%d×%s", l.Quantity, l.PartNumber))
	}
	return strings.Join(parts, " ")
}

// BOQ renders a bill of quantities table with totals
func BOQ(b models.BOQ) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Bill of Quantities"))
	sb.WriteString("\n")

	if len(b.Items) == 0 {
		sb.WriteString(styles.Subtitle.Render("No parts selected"))
		return sb.String()
	}

	t := newTable("Part", "Category", "Description", "Qty", "Unit", "Total")
	for _, item := range b.Sorted() {
		t.Row(item.PartNumber, widgets.CategoryIcon(item.Category)+" "+string(item.Category), item.Description,
			strconv.Itoa(item.Quantity), Money(item.UnitCost), Money(item.TotalCost))
	}
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%d panels · %d parts · total %s",
		b.Panels, b.TotalQuantity, styles.ValueStyle.Render(Money(b.TotalCost))))
	return sb.String()
}

// Catalog renders catalog counts and the device list
func Catalog(summary models.CatalogSummary, devices []models.DeviceType) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Catalog " + summary.Version))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Controllers: %d  Modular servers: %d  Fixed servers: %d  Modules: %d  Accessories: %d\n",
		summary.Controllers, summary.ModularServers, summary.FixedServers, summary.Modules, summary.Accessories))

	if len(devices) == 0 {
		return sb.String()
	}
	t := newTable("Part", "Name", "Role", "Capacity", "Unit cost")
	for _, d := range devices {
		t.Row(d.PartNumber, d.Name, string(d.Role()), capacity(d.Capacity), Money(d.UnitCost))
	}
	sb.WriteString(t.Render())
	return sb.String()
}

func capacity(c models.CapacityVector) string {
	var parts []string
	for _, k := range []struct {
		name  string
		value int
	}{
		{"AI", c.AI}, {"AO", c.AO}, {"DI", c.DI}, {"DO", c.DO}, {"UI", c.UI}, {"UO", c.UO}, {"UIO", c.UIO},
	} {
		if k.value > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", k.name, k.value))
		}
	}
	if len(parts) == 0 {
		return "modules only"
	}
	return strings.Join(parts, " · ")
}
