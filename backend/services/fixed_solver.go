// ABOUTME: Fixed-capacity server solver for single-chassis servers without modules
// ABOUTME: One unit only; dedicated channels plus the UIO pool, no UI/UO

package services

import (
	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

// SolveFixedServer checks whether exactly one unit of a fixed server covers req.
// Fixed servers expose only dedicated channels and UIO, so any UI/UO on the
// catalog entry is ignored.
func SolveFixedServer(req models.RequirementVector, server models.DeviceType, catalog *models.Catalog) (models.Solution, bool) {
	if req.IsZero() {
		return models.Solution{}, false
	}
	if !Allocate(req, server.Capacity.WithoutFlexible(), 1).Covered() {
		return models.Solution{}, false
	}

	lines := partLines(catalog, server.PartNumber, server.Name, models.CategoryServer, server.UnitCost, 1)
	return models.Solution{
		Kind:        models.KindFixedServer,
		PartNumber:  server.PartNumber,
		Name:        server.Name,
		Quantity:    1,
		Lines:       lines,
		TotalCost:   linesTotal(lines),
		Description: server.Name,
	}, true
}
