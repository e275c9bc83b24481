// ABOUTME: Shared catalog fixtures for solver and optimizer tests
// ABOUTME: Mirrors testdata/catalog.yaml so tests can build subsets in code

package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

var (
	ctl16 = models.DeviceType{Name: "Controller 16", PartNumber: "CTL-16", Capacity: models.CapacityVector{DI: 16, DO: 8}, UnitCost: 100}
	ctl32 = models.DeviceType{Name: "Controller 32", PartNumber: "CTL-32", Capacity: models.CapacityVector{DI: 32, DO: 16, UIO: 4}, UnitCost: 220}
	asP   = models.DeviceType{Name: "AS-P", PartNumber: "AS-P", UnitCost: 500, IsServer: true, Scalable: true}
	asB   = models.DeviceType{Name: "AS-B 24", PartNumber: "AS-B-24", Capacity: models.CapacityVector{AI: 8, AO: 8, DI: 16, DO: 8, UI: 8, UIO: 16}, UnitCost: 400, IsServer: true}

	modAI8  = models.Module{Name: "AI-8 module", PartNumber: "AI-8", Capacity: models.CapacityVector{AI: 8}, UnitCost: 50}
	modUIO8 = models.Module{Name: "UIO-8 module", PartNumber: "UIO-8", Capacity: models.CapacityVector{UIO: 8}, UnitCost: 40}
	modDI16 = models.Module{Name: "DI-16 module", PartNumber: "DI-16", Capacity: models.CapacityVector{DI: 16}, UnitCost: 60}
	modDO8  = models.Module{Name: "DO-8 module", PartNumber: "DO-8", Capacity: models.CapacityVector{DO: 8}, UnitCost: 45}

	psu24 = models.Accessory{Name: "24V power supply", PartNumber: "PS-24", ParentPartNumber: "AS-P", UnitCost: 25}
)

func mustCatalog(t *testing.T, devices []models.DeviceType, modules []models.Module, accessories []models.Accessory) *models.Catalog {
	t.Helper()
	c, err := models.NewCatalog(devices, modules, accessories)
	require.NoError(t, err)
	return c
}

// fullCatalog matches testdata/catalog.yaml.
func fullCatalog(t *testing.T) *models.Catalog {
	t.Helper()
	return mustCatalog(t,
		[]models.DeviceType{ctl16, ctl32, asP, asB},
		[]models.Module{modAI8, modUIO8, modDI16, modDO8},
		[]models.Accessory{psu24},
	)
}

func ptr[T any](v T) *T {
	return &v
}
