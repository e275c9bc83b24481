// ABOUTME: Per-panel solution picker for accepting a project's hardware
// ABOUTME: One huh select per feasible panel, defaulting to the cheapest solution

package picker

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/report"
)

// Picker holds the chosen solution index for every panel that has solutions
type Picker struct {
	panels  []models.PanelResult
	choices []int
}

// New creates a picker over the feasible panels of a project. Every choice
// starts at index 0, the cheapest solution.
func New(result *models.ProjectResult) *Picker {
	p := &Picker{}
	if result == nil {
		return p
	}
	for _, panel := range result.Panels {
		if len(panel.Solutions) == 0 {
			continue
		}
		p.panels = append(p.panels, panel)
	}
	p.choices = make([]int, len(p.panels))
	return p
}

// Len returns the number of panels offered for selection
func (p *Picker) Len() int {
	return len(p.panels)
}

// Choose overrides the selection for a panel by solution index
func (p *Picker) Choose(panel string, index int) error {
	for i, pr := range p.panels {
		if pr.Panel != panel {
			continue
		}
		if index < 0 || index >= len(pr.Solutions) {
			return fmt.Errorf("panel %s has %d solutions, index %d is out of range", panel, len(pr.Solutions), index)
		}
		p.choices[i] = index
		return nil
	}
	return fmt.Errorf("panel %s has no solutions to choose from", panel)
}

// Form builds one select group per panel, bound to the picker's choices
func (p *Picker) Form() *huh.Form {
	groups := make([]*huh.Group, 0, len(p.panels))
	for i, panel := range p.panels {
		options := make([]huh.Option[int], 0, len(panel.Solutions))
		for j, s := range panel.Solutions {
			label := fmt.Sprintf("%s  %s", report.Money(s.TotalCost), s.Description)
			options = append(options, huh.NewOption(label, j))
		}

		title := "Panel " + panel.Panel
		if panel.Floor != "" {
			title += " (" + panel.Floor + ")"
		}
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Description("Requirement " + report.Requirement(panel.Requirement)).
				Options(options...).
				Value(&p.choices[i]),
		))
	}
	return huh.NewForm(groups...).WithTheme(huh.ThemeBase())
}

// Run displays the form and returns the accepted selections
func (p *Picker) Run() ([]models.SelectedSolution, error) {
	if len(p.panels) == 0 {
		return nil, fmt.Errorf("no panel has a feasible solution")
	}
	if err := p.Form().Run(); err != nil {
		return nil, err
	}
	return p.Selections(), nil
}

// Selections returns the chosen solution for every offered panel
func (p *Picker) Selections() []models.SelectedSolution {
	out := make([]models.SelectedSolution, 0, len(p.panels))
	for i, panel := range p.panels {
		out = append(out, models.SelectedSolution{
			Panel:    panel.Panel,
			Solution: panel.Solutions[p.choices[i]],
		})
	}
	return out
}
