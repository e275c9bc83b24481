// ABOUTME: Modular-server solver packing expansion modules onto one scalable chassis
// ABOUTME: Greedy over modules ranked by 0.7*specificity + 0.3*efficiency

package services

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

// Module ranking weights.
const (
	specificityWeight = 0.7
	efficiencyWeight  = 0.3
)

type scoredModule struct {
	module      models.Module
	specificity float64
	efficiency  float64
	score       float64
}

// rankModules scores every module with capacity and sorts them best first.
// The sort is stable so equal scores keep catalog order.
func rankModules(modules []models.Module) []scoredModule {
	ranked := make([]scoredModule, 0, len(modules))
	for _, m := range modules {
		total := m.Capacity.Total()
		if total <= 0 {
			continue
		}
		specificity := float64(m.Capacity.DedicatedSum()) / float64(total)
		efficiency := math.Inf(1)
		if m.UnitCost > 0 {
			efficiency = float64(total) / m.UnitCost
		}
		ranked = append(ranked, scoredModule{
			module:      m,
			specificity: specificity,
			efficiency:  efficiency,
			score:       specificityWeight*specificity + efficiencyWeight*efficiency,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

// attachModule evaluates one more unit of m on top of the capacity already
// attached. The whole accumulated set is re-allocated against req, so the
// UI/UO/UIO pools are shared across every attached module. progressed is
// false when no residual component shrinks; the caller then discards the
// returned values.
func attachModule(req, residual models.RequirementVector, attached models.CapacityVector, m models.Module) (models.RequirementVector, models.CapacityVector, bool) {
	next := attached.Add(m.Capacity)
	nextResidual := Allocate(req, next, 1).Residual
	return nextResidual, next, shrank(residual, nextResidual)
}

// shrank reports whether any positive component of before is smaller in after.
func shrank(before, after models.RequirementVector) bool {
	less := func(b, a int) bool { return b > 0 && a < b }
	return less(before.AI, after.AI) ||
		less(before.AO, after.AO) ||
		less(before.DI, after.DI) ||
		less(before.DO, after.DO) ||
		less(before.UI, after.UI)
}

// SolveModularServer assembles modules onto one unit of a scalable server.
// Any onboard capacity of the chassis is applied before modules. It returns
// false when every module type has been exhausted without covering req.
func SolveModularServer(req models.RequirementVector, server models.DeviceType, catalog *models.Catalog) (models.Solution, bool) {
	if req.IsZero() {
		return models.Solution{}, false
	}

	attached := server.Capacity
	residual := Allocate(req, attached, 1).Residual

	var order []models.Module
	counts := make(map[string]int)

	for _, sm := range rankModules(catalog.Modules()) {
		if residual.Covered() {
			break
		}
		for !residual.Covered() {
			nextResidual, nextAttached, progressed := attachModule(req, residual, attached, sm.module)
			if !progressed {
				break
			}
			residual, attached = nextResidual, nextAttached
			if counts[sm.module.PartNumber] == 0 {
				order = append(order, sm.module)
			}
			counts[sm.module.PartNumber]++
		}
		slog.Debug("Module pass", "server", server.PartNumber, "module", sm.module.PartNumber,
			"score", sm.score, "attached", counts[sm.module.PartNumber])
	}

	if !residual.Covered() {
		slog.Debug("Modular server cannot cover requirement", "server", server.PartNumber, "residual", residual.Key())
		return models.Solution{}, false
	}

	lines := partLines(catalog, server.PartNumber, server.Name, models.CategoryServer, server.UnitCost, 1)
	moduleLines := make([]models.ModuleLine, 0, len(order))
	moduleCount := 0
	for _, m := range order {
		qty := counts[m.PartNumber]
		moduleCount += qty
		moduleLines = append(moduleLines, models.ModuleLine{
			PartNumber: m.PartNumber,
			Name:       m.Name,
			Quantity:   qty,
		})
		lines = append(lines, partLines(catalog, m.PartNumber, m.Name, models.CategoryModule, m.UnitCost, qty)...)
	}

	return models.Solution{
		Kind:        models.KindModularServer,
		PartNumber:  server.PartNumber,
		Name:        server.Name,
		Quantity:    1,
		Modules:     moduleLines,
		Lines:       lines,
		TotalCost:   linesTotal(lines),
		Description: fmt.Sprintf("%s with %d modules", server.Name, moduleCount),
	}, true
}
