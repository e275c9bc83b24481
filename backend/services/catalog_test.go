// ABOUTME: Tests for catalog file parsing and validation
// ABOUTME: Uses testdata/catalog.yaml plus inline documents for error cases

package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asman100/BMS-SELECTION-KING/backend/models"
)

func TestLoadCatalogFile(t *testing.T) {
	catalog, err := LoadCatalogFile(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	s := catalog.Summary()
	assert.Equal(t, 2, s.Controllers)
	assert.Equal(t, 1, s.ModularServers)
	assert.Equal(t, 1, s.FixedServers)
	assert.Equal(t, 4, s.Modules)
	assert.Equal(t, 1, s.Accessories)
	assert.Equal(t, fullCatalog(t).Version(), catalog.Version())
}

func TestLoadCatalogFile_Missing(t *testing.T) {
	_, err := LoadCatalogFile(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseCatalog_JSON(t *testing.T) {
	doc := `{"devices":[{"name":"C","part_number":"C-1","capacity":{"ai":4},"unit_cost":90}]}`

	catalog, err := ParseCatalog([]byte(doc))
	require.NoError(t, err)

	devices := catalog.Devices()
	require.Len(t, devices, 1)
	assert.Equal(t, models.CapacityVector{AI: 4}, devices[0].Capacity)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"no devices", "modules: []\n"},
		{"unknown field", "devices:\n  - name: C\n    part_number: C-1\n    capacity: {ai: 1}\n    colour: red\n"},
		{"malformed yaml", "devices: [\n"},
		{"duplicate part number", "devices:\n  - {name: A, part_number: X, capacity: {ai: 1}}\n  - {name: B, part_number: X, capacity: {ai: 1}}\n"},
		{"zero capacity controller", "devices:\n  - {name: A, part_number: A-1, unit_cost: 10}\n"},
		{"negative cost", "devices:\n  - {name: A, part_number: A-1, capacity: {ai: 1}, unit_cost: -1}\n"},
		{"orphan accessory", "devices:\n  - {name: A, part_number: A-1, capacity: {ai: 1}}\naccessories:\n  - {name: T, part_number: T-1}\n"},
		{"scalable controller", "devices:\n  - {name: A, part_number: A-1, capacity: {ai: 1}, scalable: true}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.doc))
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestCatalogVersion_ContentAddressed(t *testing.T) {
	a := fullCatalog(t)
	b := fullCatalog(t)
	assert.Equal(t, a.Version(), b.Version())

	cheaper := ctl16
	cheaper.UnitCost = 95
	c := mustCatalog(t, []models.DeviceType{cheaper, ctl32, asP, asB}, []models.Module{modAI8, modUIO8, modDI16, modDO8}, []models.Accessory{psu24})
	assert.NotEqual(t, a.Version(), c.Version())
}
