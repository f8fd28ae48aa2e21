// Package appliance wires the example light and fridge devices to their
// drivers.
package appliance

import (
	"fmt"

	"github.com/berfenger/devicecap/internal/config"
	"github.com/berfenger/devicecap/pkg/device"

	"go.uber.org/zap"
)

// Appliance is a device declaration plus the state its stateful handlers
// receive.
type Appliance struct {
	Device device.Device
	State  any
	close  func() error
}

func (a *Appliance) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

// New builds the appliance selected by cfg.Device.Kind.
func New(cfg *config.Config, logger *zap.Logger) (*Appliance, error) {
	kind, err := device.ParseKind(cfg.Device.Kind)
	if err != nil {
		return nil, err
	}

	var app *Appliance
	switch kind {
	case device.Light:
		app, err = newLight(cfg, logger)
	case device.Fridge:
		if cfg.Device.Driver != config.DRIVER_MOCKUP {
			return nil, fmt.Errorf("fridge supports only the %s driver", config.DRIVER_MOCKUP)
		}
		var d device.Device
		d, err = NewFridgeDevice()
		app = &Appliance{Device: d, State: &Fridge{}}
	default:
		return nil, fmt.Errorf("%w: no appliance for %s", device.ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Device.MainRoute != "" {
		if app.Device, err = app.Device.WithMainRoute(cfg.Device.MainRoute); err != nil {
			_ = app.Close()
			return nil, err
		}
	}
	return app, nil
}

func newLight(cfg *config.Config, logger *zap.Logger) (*Appliance, error) {
	d, err := NewLightDevice()
	if err != nil {
		return nil, err
	}

	var driver LightDriver = &LightMockup{}
	if cfg.Device.Driver == config.DRIVER_MODBUS {
		driver, err = NewModbusLight(cfg.Modbus, logger)
		if err != nil {
			return nil, err
		}
	}
	return &Appliance{Device: d, State: &Light{Driver: driver}, close: driver.Close}, nil
}
