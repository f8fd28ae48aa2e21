package main

import (
	"fmt"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "devicecap",
		Short:         "Expose a device and its capabilities over HTTP and MQTT",
		Version:       versioninfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().String("kind", "", "device kind: light or fridge")
	rootCmd.PersistentFlags().String("main-route", "", "route prefix of every action")
	_ = v.BindPFlag("device.kind", rootCmd.PersistentFlags().Lookup("kind"))
	_ = v.BindPFlag("device.main_route", rootCmd.PersistentFlags().Lookup("main-route"))

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the device server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initConfig(v, cmd)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	serveCmd.Flags().Uint("port", 0, "HTTP port")
	serveCmd.Flags().Bool("http-log", false, "log every HTTP request")
	_ = v.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = v.BindPFlag("http_log", serveCmd.Flags().Lookup("http-log"))

	manifestCmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the device manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initConfig(v, cmd)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			return printManifest(cmd.OutOrStdout(), cfg, format)
		},
	}
	manifestCmd.Flags().String("format", "json", "output format: json or yaml")

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the device manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSchema(cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(serveCmd, manifestCmd, schemaCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
