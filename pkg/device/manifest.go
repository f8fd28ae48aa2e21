package device

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/berfenger/devicecap/pkg/action"
	"github.com/berfenger/devicecap/pkg/route"
)

// Manifest is the document a controller fetches to learn what a device can
// do. Routes list actions first, then info actions, each in insertion order.
type Manifest struct {
	Kind      Kind          `json:"kind"`
	MainRoute string        `json:"main_route"`
	Routes    []route.Route `json:"routes"`
}

// ParseManifest decodes manifest bytes as served by a device.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: %w", err)
	}
	if m.Routes == nil {
		m.Routes = []route.Route{}
	}
	return m, nil
}

// Finalized is the immutable outcome of Finalize. Manifest must not be
// modified by its holders.
type Finalized struct {
	MainRoute string
	Kind      Kind
	Manifest  []byte
	Actions   []action.Action
}

// Path joins the main route with the path of a.
func (f Finalized) Path(a action.Action) string {
	if f.MainRoute == "/" {
		return a.Route().Path()
	}
	return f.MainRoute + a.Route().Path()
}

// Finalize checks the mandatory slots and freezes the device. It succeeds
// at most once per Device value.
func (d *Device) Finalize() (Finalized, error) {
	if d.finalized {
		return Finalized{}, ErrFinalized
	}
	if missing := d.MissingSlots(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, slot := range missing {
			names[i] = string(slot)
		}
		return Finalized{}, fmt.Errorf("%w: %s is missing %s", ErrIncompleteDevice, d.kind, strings.Join(names, ", "))
	}

	actions := d.ordered()
	manifest := d.Manifest()
	data, err := json.Marshal(manifest)
	if err != nil {
		return Finalized{}, fmt.Errorf("manifest: %w", err)
	}

	d.finalized = true
	return Finalized{
		MainRoute: d.mainRoute,
		Kind:      d.kind,
		Manifest:  data,
		Actions:   actions,
	}, nil
}

// Manifest describes the device as built so far.
func (d Device) Manifest() Manifest {
	actions := d.ordered()
	routes := make([]route.Route, len(actions))
	for i, a := range actions {
		routes[i] = a.Route()
	}
	return Manifest{Kind: d.kind, MainRoute: d.mainRoute, Routes: routes}
}
