// ABOUTME: Hardware solutions produced by the optimizer for a single panel
// ABOUTME: Each solution carries its full part list so bills of quantities need no catalog

package models

// SolutionKind names the solver that produced a solution.
type SolutionKind string

const (
	KindSingleDevice  SolutionKind = "single-device"
	KindModularServer SolutionKind = "modular-server"
	KindFixedServer   SolutionKind = "fixed-server"
)

// PartCategory groups bill-of-quantities lines.
type PartCategory string

const (
	CategoryController PartCategory = "controller"
	CategoryServer     PartCategory = "server"
	CategoryModule     PartCategory = "module"
	CategoryAccessory  PartCategory = "accessory"
)

// LineItem is one part of a solution at a quantity.
type LineItem struct {
	PartNumber  string       `json:"part_number"`
	Description string       `json:"description"`
	Category    PartCategory `json:"category"`
	Quantity    int          `json:"quantity"`
	UnitCost    float64      `json:"unit_cost"`
}

// Total is quantity times unit cost.
func (l LineItem) Total() float64 {
	return float64(l.Quantity) * l.UnitCost
}

// ModuleLine is a consolidated module count on a modular server.
type ModuleLine struct {
	PartNumber string `json:"part_number"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

// Solution is a feasible hardware assignment for one panel. Values are not
// mutated after the solver returns them.
type Solution struct {
	Kind        SolutionKind `json:"kind"`
	PartNumber  string       `json:"part_number"`
	Name        string       `json:"name"`
	Quantity    int          `json:"quantity"`
	Modules     []ModuleLine `json:"modules,omitempty"`
	Lines       []LineItem   `json:"lines"`
	TotalCost   float64      `json:"total_cost"`
	Description string       `json:"description"`
}

// SelectedSolution is the solution a user accepted for a panel.
type SelectedSolution struct {
	Panel    string   `json:"panel"`
	Solution Solution `json:"solution"`
}
