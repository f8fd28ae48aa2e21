// Package energy carries the energy, carbon and water-use figures a device
// reports through its info actions.
package energy

import (
	"encoding/json"
	"fmt"

	"github.com/berfenger/devicecap/pkg/collections"
)

type Class uint8

const (
	APlusPlusPlus Class = iota
	APlusPlus
	APlus
	A
	B
	C
	D
	E
	F
	G
)

var classNames = [...]string{"A+++", "A++", "A+", "A", "B", "C", "D", "E", "F", "G"}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

func ParseClass(s string) (Class, error) {
	for i, name := range classNames {
		if name == s {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("unknown energy class %q", s)
}

func (c Class) MarshalJSON() ([]byte, error) {
	if int(c) >= len(classNames) {
		return nil, fmt.Errorf("unknown energy class %d", uint8(c))
	}
	return json.Marshal(c.String())
}

func (c *Class) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClass(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func clampPercentage(p int8) int8 {
	switch {
	case p >= 100:
		return 100
	case p <= -100:
		return -100
	}
	return p
}

// Efficiency is the share of energy a device saves (negative) or consumes
// (positive) relative to an energy class.
type Efficiency struct {
	Percentage int8  `json:"percentage"`
	Class      Class `json:"energy-class"`
}

// NewEfficiency clamps percentage to [-100, 100].
func NewEfficiency(percentage int8, class Class) Efficiency {
	return Efficiency{Percentage: clampPercentage(percentage), Class: class}
}

func (e Efficiency) DecimalPercentage() float64 {
	return float64(e.Percentage) / 100
}

func (e Efficiency) String() string {
	verb := "consumes"
	if e.Percentage < 0 {
		verb = "saves"
	}
	return fmt.Sprintf("The device %s a %d%% of energy for the %q efficiency class", verb, abs(e.Percentage), e.Class.String())
}

// CarbonFootprint is the share of greenhouse gases a device removes
// (negative) or adds (positive) relative to an energy class.
type CarbonFootprint struct {
	Percentage int8  `json:"percentage"`
	Class      Class `json:"energy-class"`
}

// NewCarbonFootprint clamps percentage to [-100, 100].
func NewCarbonFootprint(percentage int8, class Class) CarbonFootprint {
	return CarbonFootprint{Percentage: clampPercentage(percentage), Class: class}
}

func (c CarbonFootprint) DecimalPercentage() float64 {
	return float64(c.Percentage) / 100
}

func (c CarbonFootprint) String() string {
	verb := "adds to"
	if c.Percentage < 0 {
		verb = "removes from"
	}
	return fmt.Sprintf("The device %s the atmosphere a %d%% of greenhouse gases for the %q efficiency class", verb, abs(c.Percentage), c.Class.String())
}

func abs(p int8) int {
	if p < 0 {
		return -int(p)
	}
	return int(p)
}

// WaterUseEfficiency holds optional water-use metrics.
type WaterUseEfficiency struct {
	GrossPrimaryProductivity *float64 `json:"gross-primary-productivity"`
	PenmanMonteithEquation   *float64 `json:"penman-monteith-equation"`
	WaterEquivalentRatio     *float64 `json:"water-equivalent-ratio"`
}

func (w WaterUseEfficiency) WithGPP(v float64) WaterUseEfficiency {
	w.GrossPrimaryProductivity = &v
	return w
}

func (w WaterUseEfficiency) WithPenmanMonteith(v float64) WaterUseEfficiency {
	w.PenmanMonteithEquation = &v
	return w
}

func (w WaterUseEfficiency) WithWER(v float64) WaterUseEfficiency {
	w.WaterEquivalentRatio = &v
	return w
}

// Energy groups every energy figure of a device. Nil members are omitted
// from the JSON form.
type Energy struct {
	Efficiencies       []Efficiency        `json:"energy-efficiencies,omitempty"`
	CarbonFootprints   []CarbonFootprint   `json:"carbon-footprints,omitempty"`
	WaterUseEfficiency *WaterUseEfficiency `json:"water-use-efficiency,omitempty"`
}

// WithEfficiencies replaces the efficiencies, dropping duplicates.
func (e Energy) WithEfficiencies(values ...Efficiency) Energy {
	e.Efficiencies = unique(values)
	return e
}

// WithCarbonFootprints replaces the footprints, dropping duplicates.
func (e Energy) WithCarbonFootprints(values ...CarbonFootprint) Energy {
	e.CarbonFootprints = unique(values)
	return e
}

func (e Energy) WithWaterUseEfficiency(w WaterUseEfficiency) Energy {
	e.WaterUseEfficiency = &w
	return e
}

// IsEmpty reports whether no figure is set at all.
func (e Energy) IsEmpty() bool {
	return e.Efficiencies == nil && e.CarbonFootprints == nil && e.WaterUseEfficiency == nil
}

func unique[T comparable](values []T) []T {
	set := collections.NewUnboundedSet[T](len(values))
	for _, v := range values {
		_, _ = set.Insert(v)
	}
	return set.Values()
}

// DeviceInfo is the payload of an info action.
type DeviceInfo struct {
	Energy Energy `json:"energy"`
}
