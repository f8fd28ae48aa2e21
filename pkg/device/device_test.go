package device

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/berfenger/devicecap/pkg/action"
	"github.com/berfenger/devicecap/pkg/collections"
	"github.com/berfenger/devicecap/pkg/hazard"
	"github.com/berfenger/devicecap/pkg/parameter"
	"github.com/berfenger/devicecap/pkg/route"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, action.Request) (any, error) { return nil, nil }

func onAction() action.Action {
	return action.NewEmpty(route.Put("/on").Description("Turn light on.").WithHazard(hazard.FireHazard), noop)
}

func offAction() action.Action {
	return action.NewEmpty(route.Put("/off").Description("Turn light off."), noop)
}

func buildLight(t *testing.T) Device {
	require := require.New(t)
	d, err := NewLight().TurnOn(onAction())
	require.NoError(err)
	d, err = d.TurnOff(offAction())
	require.NoError(err)
	return d
}

func TestLightManifest(t *testing.T) {
	require := require.New(t)

	d := buildLight(t)
	f, err := d.Finalize()
	require.NoError(err)
	require.Equal("/light", f.MainRoute)
	require.Equal(Light, f.Kind)
	require.Len(f.Actions, 2)
	require.Equal("/light/on", f.Path(f.Actions[0]))

	fire, err := json.Marshal(hazard.FireHazard)
	require.NoError(err)
	expected := `{"kind":"Light","main_route":"/light","routes":[` +
		`{"route":"/on","method":"PUT","description":"Turn light on.","parameters":{},"hazards":[` + string(fire) + `]},` +
		`{"route":"/off","method":"PUT","description":"Turn light off.","parameters":{},"hazards":[]}]}`
	require.JSONEq(expected, string(f.Manifest))
	require.Equal(expected, string(f.Manifest))
}

func TestFinalizeIncomplete(t *testing.T) {
	require := require.New(t)

	d, err := NewLight().TurnOn(onAction())
	require.NoError(err)
	require.Equal([]Slot{SlotOff}, d.MissingSlots())

	_, err = d.Finalize()
	require.ErrorIs(err, ErrIncompleteDevice)
	require.Contains(err.Error(), "off")

	d, err = d.TurnOff(offAction())
	require.NoError(err)
	_, err = d.Finalize()
	require.NoError(err)
}

func TestFinalizeOnce(t *testing.T) {
	require := require.New(t)

	d := buildLight(t)
	_, err := d.Finalize()
	require.NoError(err)

	_, err = d.Finalize()
	require.ErrorIs(err, ErrFinalized)
	_, err = d.AddAction(action.NewEmpty(route.Put("/toggle"), noop))
	require.ErrorIs(err, ErrFinalized)
}

func TestDuplicateRoute(t *testing.T) {
	require := require.New(t)

	d, err := New(Unknown).AddAction(onAction())
	require.NoError(err)
	before := d.Manifest()

	next, err := d.AddAction(action.NewEmpty(route.Put("/on").Description("again"), noop))
	require.ErrorIs(err, ErrDuplicateRoute)
	require.Equal(before, next.Manifest())
	require.Equal(before, d.Manifest())

	_, err = d.AddAction(action.NewEmpty(route.Post("/on"), noop))
	require.NoError(err, "method is part of the identity")
}

func TestDuplicateAcrossTables(t *testing.T) {
	require := require.New(t)

	info := action.NewInfo(route.Get("/info"), noop)
	d, err := New(Unknown).AddInfoAction(info)
	require.NoError(err)

	_, err = d.AddAction(action.NewSerial(route.Get("/info"), noop))
	require.ErrorIs(err, ErrDuplicateRoute)

	d, err = New(Unknown).AddAction(action.NewInfo(route.Get("/info"), noop))
	require.NoError(err)
	_, err = d.AddInfoAction(info)
	require.ErrorIs(err, ErrDuplicateRoute)
}

func TestInfoActionRules(t *testing.T) {
	assert := assert.New(t)

	_, err := New(Unknown).AddInfoAction(action.NewInfo(route.Put("/info"), noop))
	assert.ErrorIs(err, ErrInvalidInfoAction)
	_, err = New(Unknown).AddInfoAction(action.NewSerial(route.Get("/info"), noop))
	assert.ErrorIs(err, ErrInvalidInfoAction)
}

func TestSlots(t *testing.T) {
	assert := assert.New(t)

	_, err := NewFridge().TurnOn(onAction())
	assert.ErrorIs(err, ErrUnknownSlot)

	d, err := NewLight().TurnOn(onAction())
	assert.NoError(err)
	_, err = d.TurnOn(action.NewEmpty(route.Put("/on2"), noop))
	assert.ErrorIs(err, ErrDuplicateRoute)

	assert.Empty(New(Unknown).MissingSlots())
	assert.Equal([]Slot{SlotIncreaseTemperature, SlotDecreaseTemperature}, Fridge.MandatorySlots())
}

func TestInvalidActionRejected(t *testing.T) {
	bad := route.Put("/t").WithParameters(parameter.New().RangeF64WithDefault("t", parameter.Range[float64]{Min: 1, Max: 4, Step: 0.1}, 5))
	_, err := New(Unknown).AddAction(action.NewEmpty(bad, noop))
	assert.ErrorIs(t, err, parameter.ErrInvalidParameterRange)
}

func TestOrderActionsThenInfo(t *testing.T) {
	require := require.New(t)

	d, err := New(Unknown).AddInfoAction(action.NewInfo(route.Get("/info"), noop))
	require.NoError(err)
	d, err = d.AddAction(action.NewEmpty(route.Put("/b"), noop))
	require.NoError(err)
	d, err = d.AddAction(action.NewEmpty(route.Put("/a"), noop))
	require.NoError(err)

	f, err := d.Finalize()
	require.NoError(err)
	var paths []string
	for _, a := range f.Actions {
		paths = append(paths, a.Route().Path())
	}
	require.Equal([]string{"/b", "/a", "/info"}, paths)

	m, err := ParseManifest(f.Manifest)
	require.NoError(err)
	require.Equal("/info", m.Routes[2].Path())
}

func TestManifestIdempotent(t *testing.T) {
	require := require.New(t)

	a := buildLight(t)
	b := buildLight(t)
	fa, err := a.Finalize()
	require.NoError(err)
	fb, err := b.Finalize()
	require.NoError(err)
	require.Equal(fa.Manifest, fb.Manifest)
	require.Contains(string(fa.Manifest), `"kind":"Light"`)
}

func TestManifestRoundTrip(t *testing.T) {
	require := require.New(t)

	d, err := NewFridge().IncreaseTemperature(action.NewSerial(route.Put("/increase-temperature").
		WithSliceHazards([]hazard.Hazard{hazard.ElectricEnergyConsumption, hazard.SpoiledFood}).
		WithParameters(parameter.New().RangeF64WithDefault("increment", parameter.Range[float64]{Min: 1, Max: 4, Step: 0.1}, 2)), noop))
	require.NoError(err)
	d, err = d.DecreaseTemperature(action.NewSerial(route.Put("/decrease-temperature"), noop))
	require.NoError(err)
	d, err = d.WithMainRoute("/kitchen/fridge/")
	require.NoError(err)

	f, err := d.Finalize()
	require.NoError(err)
	require.Equal("/kitchen/fridge", f.MainRoute)

	m, err := ParseManifest(f.Manifest)
	require.NoError(err)
	require.Equal(Fridge, m.Kind)
	require.Len(m.Routes, 2)
	require.True(f.Actions[0].Route().Equal(m.Routes[0]))

	again, err := json.Marshal(m)
	require.NoError(err)
	require.Equal(string(f.Manifest), string(again))
}

func TestMainRouteValidation(t *testing.T) {
	_, err := NewLight().WithMainRoute("light")
	assert.Error(t, err)

	d, err := NewLight().WithMainRoute("/")
	assert.NoError(t, err)
	assert.Equal(t, "/", d.MainRoute())
}

func TestKindJSON(t *testing.T) {
	require := require.New(t)

	k, err := ParseKind("fridge")
	require.NoError(err)
	require.Equal(Fridge, k)

	_, err = ParseKind("toaster")
	require.ErrorIs(err, ErrUnknownKind)

	var back Kind
	require.NoError(json.Unmarshal([]byte(`"Light"`), &back))
	require.Equal(Light, back)
}

func TestCapacityOnBoundedBuilds(t *testing.T) {
	if collections.Backend != "bounded" {
		t.Skip("unbounded backend")
	}
	require := require.New(t)

	d := New(Unknown)
	var err error
	for i := 0; i < MaxActions; i++ {
		d, err = d.AddAction(action.NewEmpty(route.Put("/a"+string(rune('a'+i))), noop))
		require.NoError(err)
	}
	_, err = d.AddAction(action.NewEmpty(route.Put("/overflow"), noop))
	require.ErrorIs(err, collections.ErrCapacityExceeded)
}

func TestManifestSchema(t *testing.T) {
	require := require.New(t)

	s := ManifestSchema()
	for _, name := range []string{"kind", "main_route", "routes"} {
		_, ok := s.Properties.Get(name)
		require.True(ok, name)
	}

	b, err := ManifestSchemaJSON()
	require.NoError(err)
	require.Contains(string(b), `"main_route"`)
}
