// ABOUTME: Read-only hardware catalog of controllers, servers, modules and accessories
// ABOUTME: Validated once at load time and shared by every optimization run

package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// DeviceRole classifies a device type for solver dispatch.
type DeviceRole string

const (
	RoleController    DeviceRole = "controller"
	RoleModularServer DeviceRole = "modular_server"
	RoleFixedServer   DeviceRole = "fixed_server"
)

// DeviceType is a controller or automation server that can be assigned to a panel.
type DeviceType struct {
	Name       string         `json:"name" yaml:"name"`
	PartNumber string         `json:"part_number" yaml:"part_number"`
	Capacity   CapacityVector `json:"capacity" yaml:"capacity"`
	UnitCost   float64        `json:"unit_cost" yaml:"unit_cost"`
	IsServer   bool           `json:"is_server" yaml:"is_server"`
	Scalable   bool           `json:"scalable" yaml:"scalable"` // accepts expansion modules; servers only
}

// Role derives the solver family from the server flags.
func (d DeviceType) Role() DeviceRole {
	switch {
	case d.IsServer && d.Scalable:
		return RoleModularServer
	case d.IsServer:
		return RoleFixedServer
	default:
		return RoleController
	}
}

// Module is an expansion I/O module attachable to any scalable server.
type Module struct {
	Name       string         `json:"name" yaml:"name"`
	PartNumber string         `json:"part_number" yaml:"part_number"`
	Capacity   CapacityVector `json:"capacity" yaml:"capacity"`
	UnitCost   float64        `json:"unit_cost" yaml:"unit_cost"`
}

// Accessory is added once per unit of its parent part whenever the parent is selected.
type Accessory struct {
	Name             string  `json:"name" yaml:"name"`
	PartNumber       string  `json:"part_number" yaml:"part_number"`
	ParentPartNumber string  `json:"parent_part_number" yaml:"parent_part_number"`
	UnitCost         float64 `json:"unit_cost" yaml:"unit_cost"`
}

// Catalog is an immutable snapshot. Build it with NewCatalog; accessors return copies.
type Catalog struct {
	devices     []DeviceType
	modules     []Module
	accessories []Accessory
	byParent    map[string][]Accessory
	version     string
}

// NewCatalog validates the entries and indexes accessories by parent part number.
// Every failure wraps ErrInvalidInput.
func NewCatalog(devices []DeviceType, modules []Module, accessories []Accessory) (*Catalog, error) {
	seen := make(map[string]string)
	claim := func(partNumber, what string) error {
		pn := strings.TrimSpace(partNumber)
		if pn == "" {
			return fmt.Errorf("%w: %s has an empty part number", ErrInvalidInput, what)
		}
		if prev, ok := seen[pn]; ok {
			return fmt.Errorf("%w: duplicate part number %q (%s and %s)", ErrInvalidInput, pn, prev, what)
		}
		seen[pn] = what
		return nil
	}

	parents := make(map[string]bool, len(devices)+len(modules))

	devs := make([]DeviceType, 0, len(devices))
	for _, d := range devices {
		if err := claim(d.PartNumber, "device "+d.Name); err != nil {
			return nil, err
		}
		d.PartNumber = strings.TrimSpace(d.PartNumber)
		if err := d.Capacity.Validate(); err != nil {
			return nil, fmt.Errorf("device %s: %w", d.PartNumber, err)
		}
		if d.UnitCost < 0 {
			return nil, fmt.Errorf("%w: device %s has negative cost %.2f", ErrInvalidInput, d.PartNumber, d.UnitCost)
		}
		if d.Scalable && !d.IsServer {
			return nil, fmt.Errorf("%w: device %s is scalable but not a server", ErrInvalidInput, d.PartNumber)
		}
		switch d.Role() {
		case RoleModularServer:
			// Modular chassis take their I/O from modules, so only they may be empty.
		case RoleFixedServer:
			// Fixed servers never use their UI/UO pools.
			if d.Capacity.WithoutFlexible().IsZero() {
				return nil, fmt.Errorf("%w: fixed server %s has no usable capacity", ErrInvalidInput, d.PartNumber)
			}
		default:
			if d.Capacity.IsZero() {
				return nil, fmt.Errorf("%w: device %s has zero capacity", ErrInvalidInput, d.PartNumber)
			}
		}
		parents[d.PartNumber] = true
		devs = append(devs, d)
	}

	mods := make([]Module, 0, len(modules))
	for _, m := range modules {
		if err := claim(m.PartNumber, "module "+m.Name); err != nil {
			return nil, err
		}
		m.PartNumber = strings.TrimSpace(m.PartNumber)
		if err := m.Capacity.Validate(); err != nil {
			return nil, fmt.Errorf("module %s: %w", m.PartNumber, err)
		}
		if m.UnitCost < 0 {
			return nil, fmt.Errorf("%w: module %s has negative cost %.2f", ErrInvalidInput, m.PartNumber, m.UnitCost)
		}
		if m.Capacity.IsZero() {
			return nil, fmt.Errorf("%w: module %s has zero capacity", ErrInvalidInput, m.PartNumber)
		}
		parents[m.PartNumber] = true
		mods = append(mods, m)
	}

	accs := make([]Accessory, 0, len(accessories))
	byParent := make(map[string][]Accessory)
	for _, a := range accessories {
		if err := claim(a.PartNumber, "accessory "+a.Name); err != nil {
			return nil, err
		}
		a.PartNumber = strings.TrimSpace(a.PartNumber)
		a.ParentPartNumber = strings.TrimSpace(a.ParentPartNumber)
		if a.ParentPartNumber == "" {
			return nil, fmt.Errorf("%w: accessory %s has no parent part number", ErrInvalidInput, a.PartNumber)
		}
		if !parents[a.ParentPartNumber] {
			return nil, fmt.Errorf("%w: accessory %s names unknown parent %q", ErrInvalidInput, a.PartNumber, a.ParentPartNumber)
		}
		if a.UnitCost < 0 {
			return nil, fmt.Errorf("%w: accessory %s has negative cost %.2f", ErrInvalidInput, a.PartNumber, a.UnitCost)
		}
		byParent[a.ParentPartNumber] = append(byParent[a.ParentPartNumber], a)
		accs = append(accs, a)
	}

	c := &Catalog{
		devices:     devs,
		modules:     mods,
		accessories: accs,
		byParent:    byParent,
	}
	c.version = c.fingerprint()
	return c, nil
}

// Devices returns every device type in catalog order.
func (c *Catalog) Devices() []DeviceType {
	return append([]DeviceType(nil), c.devices...)
}

// DevicesByRole returns the device types of one role in catalog order.
func (c *Catalog) DevicesByRole(role DeviceRole) []DeviceType {
	var out []DeviceType
	for _, d := range c.devices {
		if d.Role() == role {
			out = append(out, d)
		}
	}
	return out
}

// Modules returns every module in catalog order.
func (c *Catalog) Modules() []Module {
	return append([]Module(nil), c.modules...)
}

// Accessories returns every accessory in catalog order.
func (c *Catalog) Accessories() []Accessory {
	return append([]Accessory(nil), c.accessories...)
}

// AccessoriesFor returns the mandatory accessories of a parent part.
func (c *Catalog) AccessoriesFor(parentPartNumber string) []Accessory {
	return append([]Accessory(nil), c.byParent[parentPartNumber]...)
}

// AccessoryCost sums the per-unit cost of a part's mandatory accessories.
func (c *Catalog) AccessoryCost(parentPartNumber string) float64 {
	total := 0.0
	for _, a := range c.byParent[parentPartNumber] {
		total += a.UnitCost
	}
	return total
}

// Version identifies the catalog content. Equal content yields equal versions.
func (c *Catalog) Version() string {
	return c.version
}

// Summary reports entry counts for health and catalog endpoints.
func (c *Catalog) Summary() CatalogSummary {
	s := CatalogSummary{
		Version:     c.version,
		Modules:     len(c.modules),
		Accessories: len(c.accessories),
	}
	for _, d := range c.devices {
		switch d.Role() {
		case RoleController:
			s.Controllers++
		case RoleModularServer:
			s.ModularServers++
		case RoleFixedServer:
			s.FixedServers++
		}
	}
	return s
}

func (c *Catalog) fingerprint() string {
	data, _ := json.Marshal(struct {
		Devices     []DeviceType `json:"devices"`
		Modules     []Module     `json:"modules"`
		Accessories []Accessory  `json:"accessories"`
	}{c.devices, c.modules, c.accessories})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// CatalogSummary is the JSON view of catalog counts.
type CatalogSummary struct {
	Version        string `json:"version"`
	Controllers    int    `json:"controllers"`
	ModularServers int    `json:"modular_servers"`
	FixedServers   int    `json:"fixed_servers"`
	Modules        int    `json:"modules"`
	Accessories    int    `json:"accessories"`
}

// CatalogFile is the on-disk and wire shape of a catalog.
type CatalogFile struct {
	Devices     []DeviceType `json:"devices" yaml:"devices"`
	Modules     []Module     `json:"modules" yaml:"modules"`
	Accessories []Accessory  `json:"accessories" yaml:"accessories"`
}

// Build validates the file contents into a Catalog.
func (f CatalogFile) Build() (*Catalog, error) {
	return NewCatalog(f.Devices, f.Modules, f.Accessories)
}

// File converts a snapshot back into its serializable form.
func (c *Catalog) File() CatalogFile {
	return CatalogFile{
		Devices:     c.Devices(),
		Modules:     c.Modules(),
		Accessories: c.Accessories(),
	}
}
