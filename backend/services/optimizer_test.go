// ABOUTME: Tests for panel ranking and concurrent project optimization
// ABOUTME: Covers ordering, zero and infeasible panels, spare precedence and cancellation

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

func TestOptimizePanel_RanksAllSolversByCost(t *testing.T) {
	solutions, err := OptimizePanel(models.RequirementVector{DI: 27, DO: 8}, fullCatalog(t))
	require.NoError(t, err)

	require.Len(t, solutions, 3)
	assert.Equal(t, models.KindSingleDevice, solutions[0].Kind)
	assert.InDelta(t, 200.0, solutions[0].TotalCost, 1e-9)
	assert.Equal(t, models.KindFixedServer, solutions[1].Kind)
	assert.InDelta(t, 400.0, solutions[1].TotalCost, 1e-9)
	assert.Equal(t, models.KindModularServer, solutions[2].Kind)
	assert.InDelta(t, 690.0, solutions[2].TotalCost, 1e-9)
}

func TestOptimizePanel_ZeroRequirement(t *testing.T) {
	solutions, err := OptimizePanel(models.RequirementVector{}, fullCatalog(t))

	require.NoError(t, err)
	assert.NotNil(t, solutions)
	assert.Empty(t, solutions)
}

func TestOptimizePanel_NegativeRequirement(t *testing.T) {
	_, err := OptimizePanel(models.RequirementVector{AI: -1}, fullCatalog(t))

	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestOptimizePanel_InfeasibleIsEmptyNotError(t *testing.T) {
	catalog := mustCatalog(t, []models.DeviceType{ctl16, asB}, nil, nil)

	solutions, err := OptimizePanel(models.RequirementVector{AI: 100}, catalog)

	require.NoError(t, err)
	assert.Empty(t, solutions)
}

func TestOptimizePanel_NilCatalog(t *testing.T) {
	_, err := OptimizePanel(models.RequirementVector{AI: 1}, nil)

	assert.ErrorIs(t, err, ErrNoCatalog)
}

func TestOptimizePanel_EqualCostsKeepSolverOrder(t *testing.T) {
	ctl := models.DeviceType{Name: "C", PartNumber: "C-8", Capacity: models.CapacityVector{AI: 8}, UnitCost: 400}
	catalog := mustCatalog(t, []models.DeviceType{asB, ctl}, nil, nil)

	solutions, err := OptimizePanel(models.RequirementVector{AI: 4}, catalog)

	require.NoError(t, err)
	require.Len(t, solutions, 2)
	assert.Equal(t, models.KindSingleDevice, solutions[0].Kind)
	assert.Equal(t, models.KindFixedServer, solutions[1].Kind)
}

func TestSolvePanel_AppliesSpareMargin(t *testing.T) {
	p := models.PanelRequest{Panel: "LP-1", Requirement: &models.RequirementVector{DI: 10}, SparePct: ptr(20.0)}

	r := SolvePanel(p, fullCatalog(t), 50)

	assert.Equal(t, models.StatusOK, r.Status)
	assert.Equal(t, 20.0, r.SparePct)
	assert.Equal(t, models.RequirementVector{DI: 10}, r.Scheduled)
	assert.Equal(t, models.RequirementVector{DI: 12}, r.Requirement)
}

func TestSolvePanel_Statuses(t *testing.T) {
	catalog := mustCatalog(t, []models.DeviceType{ctl16, asB}, nil, nil)
	tests := []struct {
		name  string
		req   models.PanelRequest
		want  models.PanelStatus
		error bool
	}{
		{"ok", models.PanelRequest{Panel: "A", Requirement: &models.RequirementVector{DI: 4}}, models.StatusOK, false},
		{"zero", models.PanelRequest{Panel: "B", Requirement: &models.RequirementVector{}}, models.StatusNoRequirement, false},
		{"infeasible", models.PanelRequest{Panel: "C", Requirement: &models.RequirementVector{AI: 100}}, models.StatusInfeasible, false},
		{"negative", models.PanelRequest{Panel: "D", Requirement: &models.RequirementVector{DO: -2}}, models.StatusInvalid, true},
		{"missing input", models.PanelRequest{Panel: "E"}, models.StatusInvalid, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SolvePanel(tt.req, catalog, 0)
			assert.Equal(t, tt.want, r.Status)
			assert.Equal(t, tt.error, r.Error != "")
			assert.NotNil(t, r.Solutions)
		})
	}
}

func TestOptimizeProject_MixedPanels(t *testing.T) {
	catalog := mustCatalog(t, []models.DeviceType{ctl16, asB}, nil, nil)
	req := models.ProjectRequest{
		Name: "Tower A",
		Panels: []models.PanelRequest{
			{Panel: "LP-01", Requirement: &models.RequirementVector{DI: 27, DO: 8}},
			{Panel: "LP-02", Schedule: &models.PanelSchedule{Equipment: []models.ScheduledEquipment{{
				InstanceName: "AHU-1",
				Quantity:     2,
				Points: []models.ScheduledPoint{
					{Name: "Supply Temp", PointType: "AI"},
					{Name: "Fan Status", PointType: "DI"},
					{Name: "Fan Command", PointType: "DO"},
					{Name: "VFD", PointType: "Modbus"},
				},
			}}}},
			{Panel: "LP-03", Requirement: &models.RequirementVector{AI: -1}},
			{Panel: "LP-04", Requirement: &models.RequirementVector{}},
			{Panel: "LP-05", Requirement: &models.RequirementVector{AI: 100}},
		},
	}

	result, err := OptimizeProject(context.Background(), req, catalog, ProjectOptions{Workers: 3})
	require.NoError(t, err)

	require.Len(t, result.Panels, 5)
	for i, p := range result.Panels {
		assert.Equal(t, req.Panels[i].Panel, p.Panel, "results keep request order")
	}
	assert.Equal(t, "Tower A", result.Name)
	assert.Equal(t, catalog.Version(), result.CatalogVersion)
	assert.Equal(t, 2, result.Feasible)
	assert.Equal(t, 1, result.Infeasible)
	assert.Equal(t, 1, result.Invalid)
	assert.Equal(t, models.StatusNoRequirement, result.Panels[3].Status)

	lp2 := result.Panels[1]
	assert.Equal(t, models.RequirementVector{AI: 2, DI: 2, DO: 2}, lp2.Requirement)
	assert.Equal(t, map[string]int{"Modbus": 2}, lp2.NetworkPoints)

	boq := result.DefaultBOQ
	assert.Equal(t, 2, boq.Panels)
	assert.Equal(t, 2, boq.Items["CTL-16"].Quantity)
	assert.Equal(t, 1, boq.Items["AS-B-24"].Quantity)
	assert.Equal(t, 3, boq.TotalQuantity)
	assert.InDelta(t, 600.0, boq.TotalCost, 1e-9)
}

func TestOptimizeProject_SparePrecedence(t *testing.T) {
	req := models.ProjectRequest{
		SparePct: ptr(10.0),
		Panels: []models.PanelRequest{
			{Panel: "uses project", Requirement: &models.RequirementVector{DI: 10}},
			{Panel: "uses panel", Requirement: &models.RequirementVector{DI: 10}, SparePct: ptr(50.0)},
		},
	}

	result, err := OptimizeProject(context.Background(), req, fullCatalog(t), ProjectOptions{Workers: 2, DefaultSparePct: 30})
	require.NoError(t, err)

	assert.Equal(t, 11, result.Panels[0].Requirement.DI)
	assert.Equal(t, 15, result.Panels[1].Requirement.DI)

	req.SparePct = nil
	result, err = OptimizeProject(context.Background(), req, fullCatalog(t), ProjectOptions{Workers: 2, DefaultSparePct: 30})
	require.NoError(t, err)
	assert.Equal(t, 13, result.Panels[0].Requirement.DI)
}

func TestOptimizeProject_WorkersDoNotChangeResult(t *testing.T) {
	catalog := fullCatalog(t)
	var panels []models.PanelRequest
	for i := 1; i <= 24; i++ {
		panels = append(panels, models.PanelRequest{
			Panel:       "P" + string(rune('A'+i)),
			Requirement: &models.RequirementVector{AI: i % 7, DI: i * 2, DO: i % 5, UI: i % 3},
		})
	}
	req := models.ProjectRequest{Panels: panels}

	serial, err := OptimizeProject(context.Background(), req, catalog, ProjectOptions{Workers: 1})
	require.NoError(t, err)
	parallel, err := OptimizeProject(context.Background(), req, catalog, ProjectOptions{Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestOptimizeProject_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := models.ProjectRequest{Panels: []models.PanelRequest{
		{Panel: "A", Requirement: &models.RequirementVector{DI: 1}},
		{Panel: "B", Requirement: &models.RequirementVector{DI: 2}},
	}}

	_, err := OptimizeProject(ctx, req, fullCatalog(t), ProjectOptions{Workers: 1})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptimizeProject_NilCatalog(t *testing.T) {
	_, err := OptimizeProject(context.Background(), models.ProjectRequest{}, nil, ProjectOptions{})

	assert.ErrorIs(t, err, ErrNoCatalog)
}
