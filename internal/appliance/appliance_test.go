package appliance

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/berfenger/devicecap/internal/config"
	"github.com/berfenger/devicecap/internal/util"
	"github.com/berfenger/devicecap/pkg/action"
	"github.com/berfenger/devicecap/pkg/device"
	"github.com/berfenger/devicecap/pkg/energy"
	"github.com/berfenger/devicecap/pkg/route"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func find(t *testing.T, f device.Finalized, key route.Key) action.Action {
	for _, a := range f.Actions {
		if a.Key() == key {
			return a
		}
	}
	t.Fatalf("action %s not found", key)
	return action.Action{}
}

func invoke(t *testing.T, a action.Action, state any, raw map[string]json.RawMessage) any {
	inputs, err := a.Route().Parameters().Resolve(raw)
	require.NoError(t, err)
	out, err := a.Invoke(context.Background(), action.Request{Inputs: inputs, State: state})
	require.NoError(t, err)
	return out
}

func TestLight(t *testing.T) {
	require := require.New(t)

	d, err := NewLightDevice()
	require.NoError(err)
	f, err := d.Finalize()
	require.NoError(err)
	require.Len(f.Actions, 3)

	light := &Light{Driver: &LightMockup{}}
	invoke(t, find(t, f, route.Key{Method: route.PUT, Path: "/on"}), light, nil)
	require.Equal(LightStatus{On: true}, invoke(t, find(t, f, route.Key{Method: route.GET, Path: "/status"}), light, nil))

	invoke(t, find(t, f, route.Key{Method: route.PUT, Path: "/off"}), light, nil)
	require.Equal(LightStatus{On: false}, invoke(t, find(t, f, route.Key{Method: route.GET, Path: "/status"}), light, nil))
}

func TestFridge(t *testing.T) {
	require := require.New(t)

	d, err := NewFridgeDevice()
	require.NoError(err)
	f, err := d.Finalize()
	require.NoError(err)
	require.Len(f.Actions, 5)
	require.Equal("/fridge/info", f.Path(f.Actions[3]))

	fridge := &Fridge{}
	increase := find(t, f, route.Key{Method: route.PUT, Path: "/increase-temperature"})
	decrease := find(t, f, route.Key{Method: route.PUT, Path: "/decrease-temperature"})

	require.Equal(TemperatureResponse{Temperature: 2}, invoke(t, increase, fridge, nil))
	require.Equal(TemperatureResponse{Temperature: 5}, invoke(t, increase, fridge, map[string]json.RawMessage{"increment": json.RawMessage("3")}))
	require.Equal(TemperatureResponse{Temperature: 1}, invoke(t, decrease, fridge, map[string]json.RawMessage{"decrement": json.RawMessage("4")}))

	_, err = increase.Route().Parameters().Resolve(map[string]json.RawMessage{"increment": json.RawMessage("9")})
	require.Error(err)

	info := find(t, f, route.Key{Method: route.GET, Path: "/info"})
	require.Equal(energy.DeviceInfo{}, invoke(t, info, fridge, nil))

	update := find(t, f, route.Key{Method: route.GET, Path: "/update-energy"})
	out := invoke(t, update, fridge, nil).(energy.DeviceInfo)
	require.Equal([]energy.Efficiency{energy.NewEfficiency(-5, energy.D)}, out.Energy.Efficiencies)

	fridge.Mockup.Temperature = -3
	out = invoke(t, update, fridge, nil).(energy.DeviceInfo)
	require.Equal([]energy.Efficiency{energy.NewEfficiency(5, energy.C)}, out.Energy.Efficiencies)
	require.Equal(out, invoke(t, info, fridge, nil))
}

func TestNew(t *testing.T) {
	assert := assert.New(t)
	logger := zap.NewNop()

	cfg := util.LoadTestConfig()
	app, err := New(&cfg, logger)
	assert.NoError(err)
	assert.Equal(device.Light, app.Device.Kind())
	assert.IsType(&Light{}, app.State)
	assert.NoError(app.Close())

	cfg.Device.Kind = "fridge"
	cfg.Device.MainRoute = "/kitchen/fridge"
	app, err = New(&cfg, logger)
	assert.NoError(err)
	assert.Equal("/kitchen/fridge", app.Device.MainRoute())
	assert.IsType(&Fridge{}, app.State)

	cfg.Device.Driver = config.DRIVER_MODBUS
	_, err = New(&cfg, logger)
	assert.Error(err)

	cfg.Device.Kind = "unknown"
	_, err = New(&cfg, logger)
	assert.ErrorIs(err, device.ErrUnknownKind)
}
