package util

import (
	"github.com/berfenger/devicecap/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Port:     3000,
		Device: config.DeviceConfig{
			Kind:                "light",
			Id:                  "test-device",
			Name:                "test light",
			WellKnownService:    "devicecap",
			Driver:              config.DRIVER_MOCKUP,
			ActionTimeoutMillis: 1000,
		},
		Modbus: config.ModbusConfig{
			Host:          "-.-.-.-",
			Port:          502,
			UnitId:        1,
			TimeoutMillis: 500,
		},
		MQTT: config.MQTTConfig{
			Host:                     "localhost",
			Port:                     1883,
			BaseTopic:                "devicecap",
			DiscoveryIntervalSeconds: 60,
		},
	}
}
