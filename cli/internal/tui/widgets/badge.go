// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Maps panel outcomes and solution kinds to colored badges and icons

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
	"github.com/asman100/BMS-SELECTION-KING/cli/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

func colors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return BadgeOKBg, BadgeOKFg
	case StatusWarning:
		return BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		return BadgeCritBg, BadgeCritFg
	case StatusInfo:
		return BadgeInfoBg, BadgeInfoFg
	default:
		return BadgeNeutralBg, BadgeNeutralFg
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := colors(level)
	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// LevelFor maps a panel outcome onto a badge severity.
func LevelFor(status models.PanelStatus) StatusLevel {
	switch status {
	case models.StatusOK:
		return StatusOK
	case models.StatusInfeasible:
		return StatusWarning
	case models.StatusInvalid:
		return StatusCritical
	case models.StatusNoRequirement:
		return StatusInfo
	default:
		return StatusNeutral
	}
}

// PanelBadge renders the badge for a panel outcome (OK, NO FIT, INVALID, EMPTY)
func PanelBadge(status models.PanelStatus) string {
	switch status {
	case models.StatusOK:
		return Badge("OK", StatusOK)
	case models.StatusInfeasible:
		return Badge("NO FIT", StatusWarning)
	case models.StatusInvalid:
		return Badge("INVALID", StatusCritical)
	case models.StatusNoRequirement:
		return Badge("EMPTY", StatusInfo)
	default:
		return Badge("--", StatusNeutral)
	}
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := colors(level)
	icon := "•"
	switch level {
	case StatusOK:
		icon = icons.CheckOK.String()
	case StatusWarning:
		icon = icons.Warning.String()
	case StatusCritical:
		icon = icons.Critical.String()
	case StatusInfo:
		icon = icons.Info.String()
	}
	return lipgloss.NewStyle().Foreground(bg).Render(icon)
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	color, _ := colors(level)
	textStyle := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("%s %s", StatusIcon(level), textStyle.Render(text))
}

// KindIcon returns the hardware icon for a solution kind
func KindIcon(kind models.SolutionKind) string {
	switch kind {
	case models.KindSingleDevice:
		return icons.Controller.String()
	case models.KindModularServer, models.KindFixedServer:
		return icons.Server.String()
	default:
		return icons.Panel.String()
	}
}

// CategoryIcon returns the icon for a bill-of-quantities category
func CategoryIcon(category models.PartCategory) string {
	switch category {
	case models.CategoryController:
		return icons.Controller.String()
	case models.CategoryServer:
		return icons.Server.String()
	case models.CategoryModule:
		return icons.Module.String()
	case models.CategoryAccessory:
		return icons.Accessory.String()
	default:
		return "•"
	}
}
