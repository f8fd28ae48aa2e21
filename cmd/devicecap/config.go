package main

import (
	"log/slog"
	"os"

	"github.com/berfenger/devicecap/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func initConfig(v *viper.Viper, cmd *cobra.Command) (*config.Config, error) {

	// alias PORT => DEVICECAP_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("DEVICECAP_PORT", port)
	}

	config.SetDefaults(v)

	v.SetEnvPrefix("devicecap")
	v.AutomaticEnv()

	// if defined, try to load config from yaml file
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile == "" {
		cfgFile = os.Getenv("CONFIG_FILE")
	}
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			v.SetConfigFile(cfgFile)

			err = v.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	if cfg.Device.Id == "" {
		cfg.Device.Id = uuid.NewString()
	}

	return cfg, nil
}

func safePrintConfig(cfg config.Config) {
	slog.Info("Using", "config", cfg.Redacted())
}
