// Package device assembles actions into a device: it rejects conflicting
// routes, checks the mandatory actions of the device kind and produces the
// manifest a controller reads before invoking anything.
package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/berfenger/devicecap/pkg/action"
	"github.com/berfenger/devicecap/pkg/collections"
	"github.com/berfenger/devicecap/pkg/route"
)

var (
	ErrDuplicateRoute    = errors.New("duplicate route")
	ErrIncompleteDevice  = errors.New("incomplete device")
	ErrUnknownKind       = errors.New("unknown device kind")
	ErrUnknownSlot       = errors.New("unknown mandatory slot")
	ErrFinalized         = errors.New("device already finalized")
	ErrInvalidInfoAction = errors.New("invalid info action")
)

// MaxActions bounds each action table on bounded builds.
const MaxActions = 16

// Device is a builder. Adding methods return a new value and leave the
// receiver untouched, so a failed call keeps the previous device usable.
type Device struct {
	kind      Kind
	mainRoute string
	actions   collections.Map[route.Key, action.Action]
	info      collections.Map[route.Key, action.Action]
	slots     collections.Map[Slot, route.Key]
	finalized bool
}

func New(kind Kind) Device {
	return Device{
		kind:      kind,
		mainRoute: kind.DefaultMainRoute(),
		actions:   collections.NewMap[route.Key, action.Action](MaxActions),
		info:      collections.NewMap[route.Key, action.Action](MaxActions),
		slots:     collections.NewMap[Slot, route.Key](len(mandatorySlots[kind]) + 1),
	}
}

func NewLight() Device  { return New(Light) }
func NewFridge() Device { return New(Fridge) }

func (d Device) Kind() Kind        { return d.kind }
func (d Device) MainRoute() string { return d.mainRoute }
func (d Device) IsEmpty() bool     { return d.actions.IsEmpty() && d.info.IsEmpty() }

// WithMainRoute sets the prefix every route is served under.
func (d Device) WithMainRoute(prefix string) (Device, error) {
	if d.finalized {
		return d, ErrFinalized
	}
	if !strings.HasPrefix(prefix, "/") {
		return d, fmt.Errorf("main route %q must start with /", prefix)
	}
	d.mainRoute = strings.TrimSuffix(prefix, "/")
	if d.mainRoute == "" {
		d.mainRoute = "/"
	}
	return d, nil
}

// Contains reports whether method and path are taken in either table.
func (d Device) Contains(key route.Key) bool {
	if _, ok := d.actions.Get(key); ok {
		return true
	}
	_, ok := d.info.Get(key)
	return ok
}

func (d Device) check(a action.Action) error {
	if d.finalized {
		return ErrFinalized
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if d.Contains(a.Key()) {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, a.Key())
	}
	return nil
}

func (d Device) AddAction(a action.Action) (Device, error) {
	if err := d.check(a); err != nil {
		return d, err
	}
	actions := d.actions.Clone()
	if _, err := actions.Insert(a.Key(), a); err != nil {
		return d, fmt.Errorf("action %s: %w", a.Key(), err)
	}
	d.actions = actions
	return d, nil
}

// AddInfoAction adds a read-only action. It must be a GET route answering
// with the Info contract.
func (d Device) AddInfoAction(a action.Action) (Device, error) {
	if a.Route().Method() != route.GET || a.Contract() != action.Info {
		return d, fmt.Errorf("%w: %s answers %s", ErrInvalidInfoAction, a.Key(), a.Contract())
	}
	if err := d.check(a); err != nil {
		return d, err
	}
	info := d.info.Clone()
	if _, err := info.Insert(a.Key(), a); err != nil {
		return d, fmt.Errorf("info action %s: %w", a.Key(), err)
	}
	d.info = info
	return d, nil
}

// SetMandatory adds a and records it as filling slot.
func (d Device) SetMandatory(slot Slot, a action.Action) (Device, error) {
	if !d.kind.hasSlot(slot) {
		return d, fmt.Errorf("%w: %s has no slot %q", ErrUnknownSlot, d.kind, slot)
	}
	if key, ok := d.slots.Get(slot); ok {
		return d, fmt.Errorf("%w: slot %q already bound to %s", ErrDuplicateRoute, slot, key)
	}
	next, err := d.AddAction(a)
	if err != nil {
		return d, err
	}
	slots := d.slots.Clone()
	if _, err := slots.Insert(slot, a.Key()); err != nil {
		return d, err
	}
	next.slots = slots
	return next, nil
}

func (d Device) TurnOn(a action.Action) (Device, error)  { return d.SetMandatory(SlotOn, a) }
func (d Device) TurnOff(a action.Action) (Device, error) { return d.SetMandatory(SlotOff, a) }

func (d Device) IncreaseTemperature(a action.Action) (Device, error) {
	return d.SetMandatory(SlotIncreaseTemperature, a)
}

func (d Device) DecreaseTemperature(a action.Action) (Device, error) {
	return d.SetMandatory(SlotDecreaseTemperature, a)
}

// MissingSlots lists the mandatory slots still unfilled.
func (d Device) MissingSlots() []Slot {
	var missing []Slot
	for _, slot := range mandatorySlots[d.kind] {
		if _, ok := d.slots.Get(slot); !ok {
			missing = append(missing, slot)
		}
	}
	return missing
}

func (d Device) ordered() []action.Action {
	out := make([]action.Action, 0, d.actions.Len()+d.info.Len())
	for _, a := range d.actions.All() {
		out = append(out, a)
	}
	for _, a := range d.info.All() {
		out = append(out, a)
	}
	return out
}
