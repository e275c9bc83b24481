// ABOUTME: Folds accepted panel solutions into one bill of quantities
// ABOUTME: The result does not depend on the order selections arrive in

package services

import (
	"sort"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

// AggregateBOQ sums every line of every selected solution per part number.
// When the same part appears with different unit costs the highest is kept,
// and description/category resolve to the lexically smallest non-empty value,
// so permuting selections never changes the result.
func AggregateBOQ(selections []models.SelectedSolution) models.BOQ {
	boq := models.BOQ{
		Items:  make(map[string]models.BOQItem),
		Panels: len(selections),
	}

	for _, sel := range selections {
		for _, line := range sel.Solution.Lines {
			item, seen := boq.Items[line.PartNumber]
			if !seen {
				item = models.BOQItem{
					PartNumber:  line.PartNumber,
					Description: line.Description,
					Category:    line.Category,
					UnitCost:    line.UnitCost,
				}
			}
			item.Quantity += line.Quantity
			if line.UnitCost > item.UnitCost {
				item.UnitCost = line.UnitCost
			}
			item.Description = minNonEmpty(item.Description, line.Description)
			item.Category = models.PartCategory(minNonEmpty(string(item.Category), string(line.Category)))
			boq.Items[line.PartNumber] = item
		}
	}

	keys := make([]string, 0, len(boq.Items))
	for pn := range boq.Items {
		keys = append(keys, pn)
	}
	sort.Strings(keys)

	for _, pn := range keys {
		item := boq.Items[pn]
		item.TotalCost = float64(item.Quantity) * item.UnitCost
		boq.Items[pn] = item
		boq.TotalQuantity += item.Quantity
		boq.TotalCost += item.TotalCost
	}
	return boq
}

func minNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case b < a:
		return b
	default:
		return a
	}
}
