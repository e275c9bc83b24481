// ABOUTME: Panel schedules, optimize requests and per-panel results
// ABOUTME: Converts scheduled equipment point lists into hardware requirement vectors

package models

import (
	"fmt"
	"strings"
)

// ScheduledPoint is one point of an equipment template at a per-unit quantity.
type ScheduledPoint struct {
	Name      string `json:"name" yaml:"name"`
	PointType string `json:"point_type" yaml:"point_type"`
	Quantity  int    `json:"quantity,omitempty" yaml:"quantity,omitempty"` // per equipment unit, default 1
}

// ScheduledEquipment is equipment scheduled on a panel with its selected points.
type ScheduledEquipment struct {
	InstanceName string           `json:"instance_name" yaml:"instance_name"`
	Type         string           `json:"type,omitempty" yaml:"type,omitempty"`
	Quantity     int              `json:"quantity,omitempty" yaml:"quantity,omitempty"` // default 1
	Points       []ScheduledPoint `json:"points" yaml:"points"`
}

// PanelSchedule lists the equipment served by one electrical panel.
type PanelSchedule struct {
	Equipment []ScheduledEquipment `json:"equipment" yaml:"equipment"`
}

// PointSummary is a panel's point totals split into hardware and network points.
type PointSummary struct {
	Requirement   RequirementVector `json:"requirement"`
	NetworkPoints map[string]int    `json:"network_points,omitempty"`
}

// Summarize totals point quantity times equipment quantity per point type.
// AI/AO/DI/DO/UI feed the hardware requirement; any other type (BACnet,
// Modbus, ...) is an integration point and is only counted.
func (s PanelSchedule) Summarize() (PointSummary, error) {
	summary := PointSummary{}
	for _, eq := range s.Equipment {
		eqQty := eq.Quantity
		if eqQty == 0 {
			eqQty = 1
		}
		if eqQty < 0 {
			return PointSummary{}, fmt.Errorf("%w: equipment %q has negative quantity %d", ErrInvalidInput, eq.InstanceName, eq.Quantity)
		}
		for _, p := range eq.Points {
			pQty := p.Quantity
			if pQty == 0 {
				pQty = 1
			}
			if pQty < 0 {
				return PointSummary{}, fmt.Errorf("%w: point %q on %q has negative quantity %d", ErrInvalidInput, p.Name, eq.InstanceName, p.Quantity)
			}
			total := pQty * eqQty
			switch strings.ToUpper(strings.TrimSpace(p.PointType)) {
			case PointAI:
				summary.Requirement.AI += total
			case PointAO:
				summary.Requirement.AO += total
			case PointDI:
				summary.Requirement.DI += total
			case PointDO:
				summary.Requirement.DO += total
			case PointUI:
				summary.Requirement.UI += total
			case "":
				return PointSummary{}, fmt.Errorf("%w: point %q on %q has no point type", ErrInvalidInput, p.Name, eq.InstanceName)
			default:
				if summary.NetworkPoints == nil {
					summary.NetworkPoints = make(map[string]int)
				}
				summary.NetworkPoints[strings.TrimSpace(p.PointType)] += total
			}
		}
	}
	return summary, nil
}

// PanelRequest asks for solutions for one panel. Exactly one of Requirement
// or Schedule must be set.
type PanelRequest struct {
	Panel       string             `json:"panel" yaml:"panel"`
	Floor       string             `json:"floor,omitempty" yaml:"floor,omitempty"`
	Requirement *RequirementVector `json:"requirement,omitempty" yaml:"requirement,omitempty"`
	Schedule    *PanelSchedule     `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	SparePct    *float64           `json:"spare_pct,omitempty" yaml:"spare_pct,omitempty"`
}

// Resolve validates the request and returns its point summary before spare inflation.
func (p PanelRequest) Resolve() (PointSummary, error) {
	if strings.TrimSpace(p.Panel) == "" {
		return PointSummary{}, fmt.Errorf("%w: panel name is required", ErrInvalidInput)
	}
	if p.SparePct != nil && (*p.SparePct < 0 || *p.SparePct > 100) {
		return PointSummary{}, fmt.Errorf("%w: spare_pct must be between 0 and 100, got %g", ErrInvalidInput, *p.SparePct)
	}
	switch {
	case p.Requirement != nil && p.Schedule != nil:
		return PointSummary{}, fmt.Errorf("%w: panel %q sets both requirement and schedule", ErrInvalidInput, p.Panel)
	case p.Requirement != nil:
		if err := p.Requirement.Validate(); err != nil {
			return PointSummary{}, fmt.Errorf("panel %q: %w", p.Panel, err)
		}
		return PointSummary{Requirement: *p.Requirement}, nil
	case p.Schedule != nil:
		summary, err := p.Schedule.Summarize()
		if err != nil {
			return PointSummary{}, fmt.Errorf("panel %q: %w", p.Panel, err)
		}
		return summary, nil
	default:
		return PointSummary{}, fmt.Errorf("%w: panel %q needs a requirement or a schedule", ErrInvalidInput, p.Panel)
	}
}

// PanelStatus distinguishes the outcomes callers must surface differently.
type PanelStatus string

const (
	StatusOK            PanelStatus = "ok"
	StatusInfeasible    PanelStatus = "infeasible"
	StatusNoRequirement PanelStatus = "no_requirement"
	StatusInvalid       PanelStatus = "invalid"
)

// PanelResult is the ranked outcome for one panel.
type PanelResult struct {
	Panel         string            `json:"panel"`
	Floor         string            `json:"floor,omitempty"`
	Status        PanelStatus       `json:"status"`
	SparePct      float64           `json:"spare_pct"`
	Scheduled     RequirementVector `json:"scheduled"`   // before spare margin
	Requirement   RequirementVector `json:"requirement"` // what the solvers sized against
	NetworkPoints map[string]int    `json:"network_points,omitempty"`
	Solutions     []Solution        `json:"solutions"`
	Error         string            `json:"error,omitempty"`
}

// Cheapest returns the first ranked solution, if any.
func (r PanelResult) Cheapest() (Solution, bool) {
	if len(r.Solutions) == 0 {
		return Solution{}, false
	}
	return r.Solutions[0], true
}

// ProjectRequest asks for solutions for many panels.
type ProjectRequest struct {
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	SparePct *float64       `json:"spare_pct,omitempty" yaml:"spare_pct,omitempty"`
	Panels   []PanelRequest `json:"panels" yaml:"panels"`
}

// ProjectResult holds every panel result plus the BOQ of the cheapest choices.
type ProjectResult struct {
	Name           string        `json:"name,omitempty"`
	CatalogVersion string        `json:"catalog_version"`
	Panels         []PanelResult `json:"panels"`
	Feasible       int           `json:"feasible"`
	Infeasible     int           `json:"infeasible"`
	Invalid        int           `json:"invalid"`
	DefaultBOQ     BOQ           `json:"default_boq"`
}
