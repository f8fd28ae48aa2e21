package device

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

type Kind uint8

const (
	Unknown Kind = iota
	Light
	Fridge
)

var kindNames = [...]string{"Unknown", "Light", "Fridge"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind accepts kind names in any case.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(i), nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalJSON() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// DefaultMainRoute is the prefix used when none is configured.
func (k Kind) DefaultMainRoute() string {
	if k == Unknown {
		return "/device"
	}
	return "/" + strings.ToLower(k.String())
}

// Slot names an action a device kind cannot work without.
type Slot string

const (
	SlotOn                  Slot = "on"
	SlotOff                 Slot = "off"
	SlotIncreaseTemperature Slot = "increase_temperature"
	SlotDecreaseTemperature Slot = "decrease_temperature"
)

var mandatorySlots = map[Kind][]Slot{
	Light:  {SlotOn, SlotOff},
	Fridge: {SlotIncreaseTemperature, SlotDecreaseTemperature},
}

// MandatorySlots returns the slots that must be filled before Finalize
// succeeds, in declaration order.
func (k Kind) MandatorySlots() []Slot {
	return append([]Slot(nil), mandatorySlots[k]...)
}

func (k Kind) hasSlot(s Slot) bool {
	return slices.Contains(mandatorySlots[k], s)
}
