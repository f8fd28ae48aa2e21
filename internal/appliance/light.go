package appliance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/berfenger/devicecap/internal/config"
	"github.com/berfenger/devicecap/pkg/action"
	"github.com/berfenger/devicecap/pkg/device"
	"github.com/berfenger/devicecap/pkg/hazard"
	"github.com/berfenger/devicecap/pkg/parameter"
	"github.com/berfenger/devicecap/pkg/route"

	"github.com/simonvetter/modbus"
	"go.uber.org/zap"
)

type LightDriver interface {
	SetPower(ctx context.Context, on bool) error
	IsOn(ctx context.Context) (bool, error)
	Close() error
}

// LightMockup keeps the power state in memory.
type LightMockup struct {
	mu sync.Mutex
	on bool
}

func (l *LightMockup) SetPower(_ context.Context, on bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = on
	return nil
}

func (l *LightMockup) IsOn(context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on, nil
}

func (l *LightMockup) Close() error {
	return nil
}

// ModbusLight switches a relay exposed as a Modbus coil.
type ModbusLight struct {
	client *modbus.ModbusClient
	coil   uint16
	logger *zap.Logger
}

func NewModbusLight(cfg config.ModbusConfig, logger *zap.Logger) (*ModbusLight, error) {
	client, err := modbus.NewClient(&modbus.ClientConfiguration{
		URL:     fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port),
		Timeout: cfg.Timeout(),
	})
	if err != nil {
		return nil, err
	}

	// set unit address
	if cfg.UnitId > 0 {
		if err := client.SetUnitId(uint8(cfg.UnitId)); err != nil {
			return nil, err
		}
	}

	if err := client.Open(); err != nil {
		return nil, err
	}

	return &ModbusLight{
		client: client,
		coil:   cfg.Coil,
		logger: logger.With(zap.String("target", "light"), zap.Uint16("coil", cfg.Coil)),
	}, nil
}

func (l *ModbusLight) SetPower(_ context.Context, on bool) error {
	start := time.Now()
	err := l.client.WriteCoil(l.coil, on)
	l.logger.Debug("modbus write coil", zap.Bool("value", on), zap.Duration("took", time.Since(start)), zap.Error(err))
	return err
}

func (l *ModbusLight) IsOn(context.Context) (bool, error) {
	return l.client.ReadCoil(l.coil)
}

func (l *ModbusLight) Close() error {
	return l.client.Close()
}

// Light is the state handed to every light handler.
type Light struct {
	Driver LightDriver
}

type LightStatus struct {
	On bool `json:"on"`
}

func setPower(on bool) action.HandlerFunc {
	return action.WithState(func(ctx context.Context, l *Light, _ parameter.Values) (any, error) {
		if err := l.Driver.SetPower(ctx, on); err != nil {
			return nil, action.InternalWithError("cannot switch light", err)
		}
		return nil, nil
	})
}

func lightStatus(ctx context.Context, l *Light, _ parameter.Values) (any, error) {
	on, err := l.Driver.IsOn(ctx)
	if err != nil {
		return nil, action.InternalWithError("cannot read light", err)
	}
	return LightStatus{On: on}, nil
}

// NewLightDevice declares the light actions: the mandatory on and off plus
// a status read.
func NewLightDevice() (device.Device, error) {
	on := action.NewEmptyStateful(route.Put("/on").
		Description("Turn light on.").
		WithHazard(hazard.FireHazard), setPower(true))
	off := action.NewEmptyStateful(route.Put("/off").
		Description("Turn light off."), setPower(false))
	status := action.NewSerialStateful(route.Get("/status").
		Description("Get light power state."), action.WithState(lightStatus))

	d, err := device.NewLight().TurnOn(on)
	if err != nil {
		return d, err
	}
	if d, err = d.TurnOff(off); err != nil {
		return d, err
	}
	return d.AddAction(status)
}
