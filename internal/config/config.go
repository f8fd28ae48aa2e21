package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DRIVER_MOCKUP = "mockup"
	DRIVER_MODBUS = "modbus"
)

type Config struct {
	LogLevel zapcore.Level
	Port     uint         `mapstructure:"port"`
	HttpLog  bool         `mapstructure:"http_log"`
	Device   DeviceConfig `mapstructure:"device"`
	MQTT     MQTTConfig   `mapstructure:"mqtt"`
	Modbus   ModbusConfig `mapstructure:"modbus"`
}

type DeviceConfig struct {
	Kind                string
	Id                  string
	Name                string
	MainRoute           string `mapstructure:"main_route"`
	WellKnownService    string `mapstructure:"well_known_service"`
	Driver              string
	ActionTimeoutMillis uint32 `mapstructure:"action_timeout_millis"`
}

type ModbusConfig struct {
	Host          string
	Port          uint
	UnitId        uint   `mapstructure:"unit_id"`
	Coil          uint16 `mapstructure:"coil"`
	TimeoutMillis uint32 `mapstructure:"timeout_millis"`
}

type MQTTConfig struct {
	Host                     string
	Port                     int
	Username                 string
	Password                 string
	BaseTopic                string `mapstructure:"base_topic"`
	DiscoveryEnable          bool   `mapstructure:"discovery_enable"`
	DiscoveryIntervalSeconds uint32 `mapstructure:"discovery_interval_seconds"`
}

func (c DeviceConfig) ActionTimeout() time.Duration {
	return time.Duration(c.ActionTimeoutMillis) * time.Millisecond
}

func (c ModbusConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMillis) * time.Millisecond
}

func (c MQTTConfig) DiscoveryInterval() time.Duration {
	return time.Duration(c.DiscoveryIntervalSeconds) * time.Second
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("port", 3000)
	v.SetDefault("http_log", false)
	v.SetDefault("device.kind", "light")
	v.SetDefault("device.name", "devicecap")
	v.SetDefault("device.well_known_service", "devicecap")
	v.SetDefault("device.driver", DRIVER_MOCKUP)
	v.SetDefault("device.action_timeout_millis", 2000)
	v.SetDefault("modbus.port", 502)
	v.SetDefault("modbus.unit_id", 1)
	v.SetDefault("modbus.coil", 0)
	v.SetDefault("modbus.timeout_millis", 1000)
	v.SetDefault("mqtt.host", "localhost")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.base_topic", "devicecap")
	v.SetDefault("mqtt.discovery_enable", false)
	v.SetDefault("mqtt.discovery_interval_seconds", 60)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.LogLevel = ParseLogLevel(v.GetString("log_level"))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func ParseLogLevel(level string) zapcore.Level {
	switch level {
	case "trace":
		return zap.DebugLevel
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "error":
		return zap.ErrorLevel
	case "warn":
		return zap.WarnLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

// Validate checks bounds and normalizes the MQTT base topic in place.
func (cfg *Config) Validate() error {
	if cfg.Port == 0 {
		return errors.New("config param port should be > 0")
	}
	if cfg.Device.MainRoute != "" && !strings.HasPrefix(cfg.Device.MainRoute, "/") {
		return fmt.Errorf("config param device.main_route %q must start with /", cfg.Device.MainRoute)
	}
	switch cfg.Device.Driver {
	case DRIVER_MOCKUP, DRIVER_MODBUS:
	default:
		return fmt.Errorf("config param device.driver %q should be %s or %s", cfg.Device.Driver, DRIVER_MOCKUP, DRIVER_MODBUS)
	}
	if cfg.Device.Driver == DRIVER_MODBUS && cfg.Modbus.Host == "" {
		return errors.New("config param modbus.host is required by the modbus driver")
	}
	if cfg.Device.ActionTimeoutMillis < 100 {
		return errors.New("config param device.action_timeout_millis should be >= 100")
	}

	baseTopic, err := CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	if cfg.MQTT.DiscoveryEnable && cfg.MQTT.DiscoveryIntervalSeconds < 5 {
		return errors.New("config param mqtt.discovery_interval_seconds should be >= 5")
	}
	return nil
}

// Redacted returns a copy safe to log.
func (cfg Config) Redacted() Config {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	return cfg
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
