package appliance

import (
	"context"

	"github.com/berfenger/devicecap/pkg/action"
	"github.com/berfenger/devicecap/pkg/device"
	"github.com/berfenger/devicecap/pkg/energy"
	"github.com/berfenger/devicecap/pkg/hazard"
	"github.com/berfenger/devicecap/pkg/parameter"
	"github.com/berfenger/devicecap/pkg/route"
)

// FridgeMockup simulates the cooling unit.
type FridgeMockup struct {
	Temperature float64
}

func (f *FridgeMockup) IncreaseTemperature(delta float64) {
	f.Temperature += delta
}

func (f *FridgeMockup) DecreaseTemperature(delta float64) {
	f.Temperature -= delta
}

// Fridge is the state handed to every fridge handler.
type Fridge struct {
	Mockup FridgeMockup
	Info   energy.DeviceInfo
}

type TemperatureResponse struct {
	Temperature float64 `json:"temperature"`
}

var temperatureStep = parameter.Range[float64]{Min: 1, Max: 4, Step: 0.1}

func increaseTemperature(_ context.Context, f *Fridge, in parameter.Values) (any, error) {
	f.Mockup.IncreaseTemperature(in.F64("increment"))
	return TemperatureResponse{Temperature: f.Mockup.Temperature}, nil
}

func decreaseTemperature(_ context.Context, f *Fridge, in parameter.Values) (any, error) {
	f.Mockup.DecreaseTemperature(in.F64("decrement"))
	return TemperatureResponse{Temperature: f.Mockup.Temperature}, nil
}

func fridgeInfo(_ context.Context, f *Fridge, _ parameter.Values) (any, error) {
	return f.Info, nil
}

// updateEnergy recomputes the efficiency from the sign of the temperature.
func updateEnergy(_ context.Context, f *Fridge, _ parameter.Values) (any, error) {
	efficiency := energy.NewEfficiency(-5, energy.D)
	if f.Mockup.Temperature < 0 {
		efficiency = energy.NewEfficiency(5, energy.C)
	}
	f.Info.Energy = f.Info.Energy.WithEfficiencies(efficiency)
	return f.Info, nil
}

func temperatureRoute(r route.Route, description, name string) route.Route {
	return r.Description(description).
		WithSliceHazards([]hazard.Hazard{hazard.ElectricEnergyConsumption, hazard.SpoiledFood}).
		WithParameters(parameter.One().RangeF64WithDefault(name, temperatureStep, 2))
}

// NewFridgeDevice declares the fridge actions and its info actions.
func NewFridgeDevice() (device.Device, error) {
	increase := action.NewSerialStateful(
		temperatureRoute(route.Put("/increase-temperature"), "Increase temperature.", "increment"),
		action.WithState(increaseTemperature))
	decrease := action.NewSerialStateful(
		temperatureRoute(route.Put("/decrease-temperature"), "Decrease temperature.", "decrement"),
		action.WithState(decreaseTemperature))
	increasePost := action.NewSerialStateful(
		temperatureRoute(route.Post("/increase-temperature"), "Increase temperature.", "increment"),
		action.WithState(increaseTemperature))
	info := action.NewInfoStateful(route.Get("/info").
		Description("Get info about a fridge.").
		WithHazard(hazard.LogEnergyConsumption), action.WithState(fridgeInfo))
	update := action.NewInfoStateful(route.Get("/update-energy").
		Description("Update energy efficiency.").
		WithHazard(hazard.LogEnergyConsumption), action.WithState(updateEnergy))

	d, err := device.NewFridge().IncreaseTemperature(increase)
	if err != nil {
		return d, err
	}
	if d, err = d.DecreaseTemperature(decrease); err != nil {
		return d, err
	}
	if d, err = d.AddAction(increasePost); err != nil {
		return d, err
	}
	if d, err = d.AddInfoAction(info); err != nil {
		return d, err
	}
	return d.AddInfoAction(update)
}
