package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	require := require.New(t)

	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(err)

	require.Equal(uint(3000), cfg.Port)
	require.Equal("light", cfg.Device.Kind)
	require.Equal(DRIVER_MOCKUP, cfg.Device.Driver)
	require.Equal("devicecap", cfg.MQTT.BaseTopic)
	require.Equal(zap.WarnLevel, cfg.LogLevel)
	require.Equal(uint32(60), cfg.MQTT.DiscoveryIntervalSeconds)
}

func TestLoadOverrides(t *testing.T) {
	require := require.New(t)

	v := viper.New()
	SetDefaults(v)
	v.Set("log_level", "debug")
	v.Set("device.kind", "fridge")
	v.Set("device.main_route", "/kitchen")
	v.Set("mqtt.base_topic", "Home_Devices")

	cfg, err := Load(v)
	require.NoError(err)
	require.Equal(zap.DebugLevel, cfg.LogLevel)
	require.Equal("/kitchen", cfg.Device.MainRoute)
	require.Equal("home_devices", cfg.MQTT.BaseTopic)
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)

	cases := map[string]func(v *viper.Viper){
		"port":   func(v *viper.Viper) { v.Set("port", 0) },
		"route":  func(v *viper.Viper) { v.Set("device.main_route", "light") },
		"driver": func(v *viper.Viper) { v.Set("device.driver", "zigbee") },
		"modbus": func(v *viper.Viper) { v.Set("device.driver", DRIVER_MODBUS) },
		"topic":  func(v *viper.Viper) { v.Set("mqtt.base_topic", "a/b") },
		"discovery": func(v *viper.Viper) {
			v.Set("mqtt.discovery_enable", true)
			v.Set("mqtt.discovery_interval_seconds", 1)
		},
		"timeout": func(v *viper.Viper) { v.Set("device.action_timeout_millis", 10) },
	}
	for name, mutate := range cases {
		v := viper.New()
		SetDefaults(v)
		mutate(v)
		_, err := Load(v)
		assert.Error(err, name)
	}
}

func TestCheckMQTTTopic(t *testing.T) {
	assert := assert.New(t)

	topic, err := CheckMQTTTopic("DeviceCap_1")
	assert.NoError(err)
	assert.Equal("devicecap_1", topic)

	_, err = CheckMQTTTopic("with space")
	assert.Error(err)
}

func TestRedacted(t *testing.T) {
	cfg := Config{MQTT: MQTTConfig{Username: "u", Password: "p"}}
	r := cfg.Redacted()
	assert.Equal(t, "*redacted*", r.MQTT.Password)
	assert.Equal(t, "p", cfg.MQTT.Password)
}
