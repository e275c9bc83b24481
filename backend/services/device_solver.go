// ABOUTME: Single-device multi-unit solver for non-modular controllers
// ABOUTME: Finds the cheapest controller type and quantity that covers a requirement

package services

import (
	"fmt"
	"log/slog"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

// QuantitySearchWindow bounds how many quantities are probed per device,
// starting at the optimistic lower bound. It guarantees termination and is
// not configurable.
const QuantitySearchWindow = 20

// lowerBound returns the optimistic minimum quantity of a device for req,
// assuming every compatible flexible channel is free for each kind. ok is
// false when some required kind has no compatible channel at all.
func lowerBound(req models.RequirementVector, c models.CapacityVector) (int, bool) {
	kinds := []struct {
		need, effective int
	}{
		{req.AI, c.AI + c.UI + c.UIO},
		{req.AO, c.AO + c.UO + c.UIO},
		{req.DI, c.DI + c.UI + c.UIO},
		{req.DO, c.DO + c.UO + c.UIO},
		{req.UI, c.UIO},
	}

	n0 := 1
	for _, k := range kinds {
		if k.need <= 0 {
			continue
		}
		if k.effective <= 0 {
			return 0, false
		}
		if n := ceilDiv(k.need, k.effective); n > n0 {
			n0 = n
		}
	}
	return n0, true
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// minimumQuantity probes n0 .. n0+QuantitySearchWindow-1 and returns the first
// quantity the allocation engine reports as covering req.
func minimumQuantity(req models.RequirementVector, d models.DeviceType) (int, bool) {
	n0, ok := lowerBound(req, d.Capacity)
	if !ok {
		slog.Debug("Device cannot serve a required kind", "part_number", d.PartNumber)
		return 0, false
	}
	for n := n0; n < n0+QuantitySearchWindow; n++ {
		if Allocate(req, d.Capacity, n).Covered() {
			return n, true
		}
	}
	slog.Debug("Device exceeded quantity search window", "part_number", d.PartNumber, "from", n0, "window", QuantitySearchWindow)
	return 0, false
}

// SolveSingleDevice returns the cheapest controller type and quantity that
// covers req, or false when no controller covers it inside the search window.
// Ties keep the earlier catalog entry.
func SolveSingleDevice(req models.RequirementVector, catalog *models.Catalog) (models.Solution, bool) {
	if req.IsZero() {
		return models.Solution{}, false
	}

	var (
		best     models.DeviceType
		bestQty  int
		bestCost float64
		found    bool
	)
	for _, d := range catalog.DevicesByRole(models.RoleController) {
		if d.Capacity.IsZero() {
			continue
		}
		n, ok := minimumQuantity(req, d)
		if !ok {
			continue
		}
		cost := unitCostWithAccessories(catalog, d.PartNumber, d.UnitCost) * float64(n)
		slog.Debug("Controller candidate", "part_number", d.PartNumber, "quantity", n, "cost", cost)
		if !found || cost < bestCost {
			best, bestQty, bestCost, found = d, n, cost, true
		}
	}
	if !found {
		return models.Solution{}, false
	}

	lines := partLines(catalog, best.PartNumber, best.Name, deviceCategory(best), best.UnitCost, bestQty)
	return models.Solution{
		Kind:        models.KindSingleDevice,
		PartNumber:  best.PartNumber,
		Name:        best.Name,
		Quantity:    bestQty,
		Lines:       lines,
		TotalCost:   linesTotal(lines),
		Description: fmt.Sprintf("%d x %s", bestQty, best.Name),
	}, true
}
