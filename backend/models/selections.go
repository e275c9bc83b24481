// ABOUTME: Accepted panel selections handed off to the external persistence layer
// ABOUTME: One batch per accept call; one event per panel on the wire

package models

import (
	"fmt"
	"strings"
	"time"
)

// SelectionsRequest is the body of BOQ and accept calls.
type SelectionsRequest struct {
	Project    string             `json:"project,omitempty"`
	Selections []SelectedSolution `json:"selections"`
}

// Validate checks that every selection names a panel once and carries a solution.
func (r SelectionsRequest) Validate() error {
	seen := make(map[string]bool, len(r.Selections))
	for i, s := range r.Selections {
		panel := strings.TrimSpace(s.Panel)
		if panel == "" {
			return fmt.Errorf("%w: selection %d has no panel", ErrInvalidInput, i)
		}
		if seen[panel] {
			return fmt.Errorf("%w: panel %q selected more than once", ErrInvalidInput, panel)
		}
		seen[panel] = true
		if len(s.Solution.Lines) == 0 {
			return fmt.Errorf("%w: selection for panel %q has no line items", ErrInvalidInput, panel)
		}
		for _, l := range s.Solution.Lines {
			if l.Quantity < 0 || l.UnitCost < 0 {
				return fmt.Errorf("%w: panel %q line %s has negative quantity or cost", ErrInvalidInput, panel, l.PartNumber)
			}
		}
	}
	return nil
}

// SelectionBatch records one accept call.
type SelectionBatch struct {
	ID             string             `json:"id"`
	Project        string             `json:"project,omitempty"`
	CatalogVersion string             `json:"catalog_version,omitempty"`
	AcceptedAt     time.Time          `json:"accepted_at"`
	Selections     []SelectedSolution `json:"selections"`
	BOQ            BOQ                `json:"boq"`
	Published      bool               `json:"published"`
}

// SelectionEvent is the message published for each accepted panel.
type SelectionEvent struct {
	BatchID        string    `json:"batch_id"`
	Project        string    `json:"project,omitempty"`
	CatalogVersion string    `json:"catalog_version,omitempty"`
	AcceptedAt     time.Time `json:"accepted_at"`
	Panel          string    `json:"panel"`
	Solution       Solution  `json:"solution"`
}

// Events splits a batch into per-panel events.
func (b SelectionBatch) Events() []SelectionEvent {
	events := make([]SelectionEvent, 0, len(b.Selections))
	for _, s := range b.Selections {
		events = append(events, SelectionEvent{
			BatchID:        b.ID,
			Project:        b.Project,
			CatalogVersion: b.CatalogVersion,
			AcceptedAt:     b.AcceptedAt,
			Panel:          s.Panel,
			Solution:       s.Solution,
		})
	}
	return events
}
