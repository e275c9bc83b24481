// ABOUTME: Panel optimizer ranking every feasible controller and server solution by cost
// ABOUTME: Projects are solved panel-by-panel in parallel against one catalog snapshot

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

// ErrNoCatalog is returned when optimization is requested before a catalog is loaded.
var ErrNoCatalog = errors.New("no catalog loaded")

// OptimizePanel returns every feasible solution for req, cheapest first: the
// best controller quantity, one solution per modular server and one per fixed
// server that fits. A zero requirement returns an empty list and no error; an
// empty list for a non-zero requirement means nothing in the catalog fits.
func OptimizePanel(req models.RequirementVector, catalog *models.Catalog) ([]models.Solution, error) {
	if catalog == nil {
		return nil, ErrNoCatalog
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	solutions := []models.Solution{}
	if req.IsZero() {
		return solutions, nil
	}

	if s, ok := SolveSingleDevice(req, catalog); ok {
		solutions = append(solutions, s)
	}
	for _, server := range catalog.DevicesByRole(models.RoleModularServer) {
		if s, ok := SolveModularServer(req, server, catalog); ok {
			solutions = append(solutions, s)
		}
	}
	for _, server := range catalog.DevicesByRole(models.RoleFixedServer) {
		if s, ok := SolveFixedServer(req, server, catalog); ok {
			solutions = append(solutions, s)
		}
	}

	sort.SliceStable(solutions, func(i, j int) bool {
		return solutions[i].TotalCost < solutions[j].TotalCost
	})
	return solutions, nil
}

// ProjectOptions tunes project-wide optimization.
type ProjectOptions struct {
	Workers         int     // concurrent panel solves, minimum 1
	DefaultSparePct float64 // used when neither panel nor project sets one
}

// SolvePanel resolves a panel request, applies its spare margin and ranks the
// solutions. Problems with the request are reported in the result, not as an
// error, so one bad panel never fails a project.
func SolvePanel(p models.PanelRequest, catalog *models.Catalog, sparePct float64) models.PanelResult {
	result := models.PanelResult{
		Panel:     p.Panel,
		Floor:     p.Floor,
		Solutions: []models.Solution{},
	}

	summary, err := p.Resolve()
	if err != nil {
		result.Status = models.StatusInvalid
		result.Error = err.Error()
		return result
	}
	if p.SparePct != nil {
		sparePct = *p.SparePct
	}

	result.SparePct = sparePct
	result.Scheduled = summary.Requirement
	result.Requirement = summary.Requirement.WithSpare(sparePct)
	result.NetworkPoints = summary.NetworkPoints

	solutions, err := OptimizePanel(result.Requirement, catalog)
	if err != nil {
		result.Status = models.StatusInvalid
		result.Error = err.Error()
		return result
	}
	result.Solutions = solutions

	switch {
	case result.Requirement.IsZero():
		result.Status = models.StatusNoRequirement
	case len(solutions) == 0:
		result.Status = models.StatusInfeasible
	default:
		result.Status = models.StatusOK
	}
	return result
}

// OptimizeProject solves every panel concurrently and builds the bill of
// quantities of the cheapest solution per feasible panel. Results keep the
// request's panel order. The only error is context cancellation or a missing
// catalog.
func OptimizeProject(ctx context.Context, req models.ProjectRequest, catalog *models.Catalog, opts ProjectOptions) (models.ProjectResult, error) {
	if catalog == nil {
		return models.ProjectResult{}, ErrNoCatalog
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	sparePct := opts.DefaultSparePct
	if req.SparePct != nil {
		sparePct = *req.SparePct
	}

	results := make([]models.PanelResult, len(req.Panels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, panel := range req.Panels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = SolvePanel(panel, catalog, sparePct)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.ProjectResult{}, fmt.Errorf("optimize project: %w", err)
	}

	out := models.ProjectResult{
		Name:           req.Name,
		CatalogVersion: catalog.Version(),
		Panels:         results,
	}
	var selections []models.SelectedSolution
	for _, r := range results {
		switch r.Status {
		case models.StatusOK:
			out.Feasible++
			if best, ok := r.Cheapest(); ok {
				selections = append(selections, models.SelectedSolution{Panel: r.Panel, Solution: best})
			}
		case models.StatusInfeasible:
			out.Infeasible++
		case models.StatusInvalid:
			out.Invalid++
		}
	}
	out.DefaultBOQ = AggregateBOQ(selections)

	slog.Info("Project optimized",
		"project", req.Name,
		"panels", len(results),
		"feasible", out.Feasible,
		"infeasible", out.Infeasible,
		"invalid", out.Invalid,
		"total_cost", out.DefaultBOQ.TotalCost,
	)
	return out, nil
}
