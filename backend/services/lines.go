// ABOUTME: Builds solution line items for devices, modules and their mandatory accessories
// ABOUTME: Accessories are always added once per unit of the parent part

package services

import "github.com/asman100/BMS-SELECTION-KING/backend/models"

func deviceCategory(d models.DeviceType) models.PartCategory {
	if d.IsServer {
		return models.CategoryServer
	}
	return models.CategoryController
}

// unitCostWithAccessories is the price of one unit of a part including its accessories.
func unitCostWithAccessories(catalog *models.Catalog, partNumber string, unitCost float64) float64 {
	return unitCost + catalog.AccessoryCost(partNumber)
}

// partLines returns the line for qty units of a part followed by its accessory lines.
func partLines(catalog *models.Catalog, partNumber, name string, category models.PartCategory, unitCost float64, qty int) []models.LineItem {
	lines := []models.LineItem{{
		PartNumber:  partNumber,
		Description: name,
		Category:    category,
		Quantity:    qty,
		UnitCost:    unitCost,
	}}
	for _, a := range catalog.AccessoriesFor(partNumber) {
		lines = append(lines, models.LineItem{
			PartNumber:  a.PartNumber,
			Description: a.Name,
			Category:    models.CategoryAccessory,
			Quantity:    qty,
			UnitCost:    a.UnitCost,
		})
	}
	return lines
}

func linesTotal(lines []models.LineItem) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Total()
	}
	return total
}
