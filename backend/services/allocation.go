// ABOUTME: Allocation engine applying channel fungibility to a point requirement
// ABOUTME: Fixed order: dedicated, then UI/UO, then the shared UIO pool, with no backtracking

package services

import "github.com/asman100/BMS-SELECTION-KING/backend/models"

// Allocation is the outcome of applying capacity to a requirement.
type Allocation struct {
	Residual models.RequirementVector
	// Unused capacity left in each pool after allocation.
	Spare models.CapacityVector
}

// Covered reports whether the requirement was fully met.
func (a Allocation) Covered() bool {
	return a.Residual.Covered()
}

// Allocate applies n units of capacity to req in the fixed priority order:
//  1. dedicated AI/AO/DI/DO against the same kind
//  2. UI against remaining AI, then DI
//  3. UO against remaining AO, then DO
//  4. one UIO pool against remaining AI, AO, DI, DO, UI in that order
//
// The order is part of the observable behaviour; a requirement that some
// other split could cover may still be reported as uncovered.
func Allocate(req models.RequirementVector, capacity models.CapacityVector, n int) Allocation {
	if n < 0 {
		n = 0
	}
	supply := capacity.Scale(n)
	r := req

	take(&r.AI, &supply.AI)
	take(&r.AO, &supply.AO)
	take(&r.DI, &supply.DI)
	take(&r.DO, &supply.DO)

	take(&r.AI, &supply.UI)
	take(&r.DI, &supply.UI)

	take(&r.AO, &supply.UO)
	take(&r.DO, &supply.UO)

	take(&r.AI, &supply.UIO)
	take(&r.AO, &supply.UIO)
	take(&r.DI, &supply.UIO)
	take(&r.DO, &supply.UIO)
	take(&r.UI, &supply.UIO)

	return Allocation{Residual: r, Spare: supply}
}

// take moves min(need, pool) from pool to need.
func take(need, pool *int) {
	if *need <= 0 || *pool <= 0 {
		return
	}
	used := *need
	if *pool < used {
		used = *pool
	}
	*need -= used
	*pool -= used
}
