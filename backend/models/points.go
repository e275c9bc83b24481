// ABOUTME: Point requirement and channel capacity vectors for panel sizing
// ABOUTME: Fixed-field structs replace per-point-type maps so allocation order is checked at compile time

package models

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// ErrInvalidInput marks requests or catalog entries rejected before solving.
var ErrInvalidInput = errors.New("invalid input")

// Point type identifiers used in schedules and API payloads.
const (
	PointAI = "AI"
	PointAO = "AO"
	PointDI = "DI"
	PointDO = "DO"
	PointUI = "UI"
)

// RequirementVector holds the I/O points a panel needs, per channel kind.
type RequirementVector struct {
	AI int `json:"ai" yaml:"ai"`
	AO int `json:"ao" yaml:"ao"`
	DI int `json:"di" yaml:"di"`
	DO int `json:"do" yaml:"do"`
	UI int `json:"ui" yaml:"ui"`
}

// Validate rejects negative counts.
func (r RequirementVector) Validate() error {
	for _, k := range []struct {
		name  string
		value int
	}{
		{PointAI, r.AI}, {PointAO, r.AO}, {PointDI, r.DI}, {PointDO, r.DO}, {PointUI, r.UI},
	} {
		if k.value < 0 {
			return fmt.Errorf("%w: %s count must be >= 0, got %d", ErrInvalidInput, k.name, k.value)
		}
	}
	return nil
}

// IsZero reports whether no points are required.
func (r RequirementVector) IsZero() bool {
	return r == RequirementVector{}
}

// Covered reports whether every component is <= 0.
func (r RequirementVector) Covered() bool {
	return r.AI <= 0 && r.AO <= 0 && r.DI <= 0 && r.DO <= 0 && r.UI <= 0
}

// Total returns the sum of all components.
func (r RequirementVector) Total() int {
	return r.AI + r.AO + r.DI + r.DO + r.UI
}

// Add returns the component-wise sum.
func (r RequirementVector) Add(o RequirementVector) RequirementVector {
	return RequirementVector{
		AI: r.AI + o.AI,
		AO: r.AO + o.AO,
		DI: r.DI + o.DI,
		DO: r.DO + o.DO,
		UI: r.UI + o.UI,
	}
}

// WithSpare inflates every kind independently by ceil(count * pct / 100).
// A zero or negative percentage returns the vector unchanged. pct is taken
// at its shortest decimal form, so 20 adds exactly 2 to 10 and any positive
// percentage adds at least one point to a nonzero count.
func (r RequirementVector) WithSpare(pct float64) RequirementVector {
	if pct <= 0 || math.IsNaN(pct) || math.IsInf(pct, 0) {
		return r
	}
	ratio, ok := new(big.Rat).SetString(strconv.FormatFloat(pct, 'f', -1, 64))
	if !ok {
		return r
	}
	ratio.Quo(ratio, big.NewRat(100, 1))

	spare := func(count int) int {
		if count <= 0 {
			return count
		}
		margin := new(big.Rat).Mul(ratio, new(big.Rat).SetInt64(int64(count)))
		q, m := new(big.Int).QuoRem(margin.Num(), margin.Denom(), new(big.Int))
		if m.Sign() > 0 {
			q.Add(q, big.NewInt(1))
		}
		return count + int(q.Int64())
	}
	return RequirementVector{
		AI: spare(r.AI),
		AO: spare(r.AO),
		DI: spare(r.DI),
		DO: spare(r.DO),
		UI: spare(r.UI),
	}
}

// Key returns a stable string form used for cache keys.
func (r RequirementVector) Key() string {
	return fmt.Sprintf("ai=%d,ao=%d,di=%d,do=%d,ui=%d", r.AI, r.AO, r.DI, r.DO, r.UI)
}

// CapacityVector describes the channels a controller, server or module provides.
// UI serves AI or DI, UO serves AO or DO, and UIO serves any kind.
type CapacityVector struct {
	AI  int `json:"ai" yaml:"ai"`
	AO  int `json:"ao" yaml:"ao"`
	DI  int `json:"di" yaml:"di"`
	DO  int `json:"do" yaml:"do"`
	UI  int `json:"ui" yaml:"ui"`
	UO  int `json:"uo" yaml:"uo"`
	UIO int `json:"uio" yaml:"uio"`
}

// Validate rejects negative capacities.
func (c CapacityVector) Validate() error {
	for _, k := range []struct {
		name  string
		value int
	}{
		{"AI", c.AI}, {"AO", c.AO}, {"DI", c.DI}, {"DO", c.DO},
		{"UI", c.UI}, {"UO", c.UO}, {"UIO", c.UIO},
	} {
		if k.value < 0 {
			return fmt.Errorf("%w: %s capacity must be >= 0, got %d", ErrInvalidInput, k.name, k.value)
		}
	}
	return nil
}

// IsZero reports whether the vector provides no channels at all.
func (c CapacityVector) IsZero() bool {
	return c == CapacityVector{}
}

// DedicatedSum counts channels fixed to a single kind.
func (c CapacityVector) DedicatedSum() int {
	return c.AI + c.AO + c.DI + c.DO
}

// Total counts every channel.
func (c CapacityVector) Total() int {
	return c.DedicatedSum() + c.UI + c.UO + c.UIO
}

// Add returns the component-wise sum.
func (c CapacityVector) Add(o CapacityVector) CapacityVector {
	return CapacityVector{
		AI:  c.AI + o.AI,
		AO:  c.AO + o.AO,
		DI:  c.DI + o.DI,
		DO:  c.DO + o.DO,
		UI:  c.UI + o.UI,
		UO:  c.UO + o.UO,
		UIO: c.UIO + o.UIO,
	}
}

// Scale multiplies every component by n.
func (c CapacityVector) Scale(n int) CapacityVector {
	return CapacityVector{
		AI:  c.AI * n,
		AO:  c.AO * n,
		DI:  c.DI * n,
		DO:  c.DO * n,
		UI:  c.UI * n,
		UO:  c.UO * n,
		UIO: c.UIO * n,
	}
}

// WithoutFlexible drops the UI and UO pools, leaving dedicated channels and UIO.
func (c CapacityVector) WithoutFlexible() CapacityVector {
	c.UI = 0
	c.UO = 0
	return c
}
