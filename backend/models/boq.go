// ABOUTME: Bill of quantities aggregated from accepted panel solutions
// ABOUTME: Items are keyed by part number with summed quantities and costs

package models

import "sort"

// BOQItem is one part number's aggregated quantity and cost.
type BOQItem struct {
	PartNumber  string       `json:"part_number"`
	Description string       `json:"description"`
	Category    PartCategory `json:"category"`
	Quantity    int          `json:"quantity"`
	UnitCost    float64      `json:"unit_cost"`
	TotalCost   float64      `json:"total_cost"`
}

// BOQ is the consolidated bill of quantities for a set of selections.
type BOQ struct {
	Items         map[string]BOQItem `json:"items"`
	Panels        int                `json:"panels"`
	TotalQuantity int                `json:"total_quantity"`
	TotalCost     float64            `json:"total_cost"`
}

// Sorted returns the items ordered by category then part number.
func (b BOQ) Sorted() []BOQItem {
	items := make([]BOQItem, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		ri, rj := categoryRank(items[i].Category), categoryRank(items[j].Category)
		if ri != rj {
			return ri < rj
		}
		return items[i].PartNumber < items[j].PartNumber
	})
	return items
}

func categoryRank(c PartCategory) int {
	switch c {
	case CategoryServer:
		return 0
	case CategoryController:
		return 1
	case CategoryModule:
		return 2
	case CategoryAccessory:
		return 3
	default:
		return 4
	}
}
