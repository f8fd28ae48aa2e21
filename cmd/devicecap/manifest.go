package main

import (
	"fmt"
	"io"

	"github.com/berfenger/devicecap/internal/appliance"
	"github.com/berfenger/devicecap/internal/config"
	"github.com/berfenger/devicecap/pkg/device"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func printManifest(w io.Writer, cfg *config.Config, format string) error {
	// the manifest does not depend on the driver
	cfg.Device.Driver = config.DRIVER_MOCKUP
	app, err := appliance.New(cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer app.Close()

	finalized, err := app.Device.Finalize()
	if err != nil {
		return err
	}

	switch format {
	case "json":
		_, err = fmt.Fprintln(w, string(finalized.Manifest))
		return err
	case "yaml":
		out, err := manifestYAML(finalized.Manifest)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// manifestYAML re-encodes the manifest in block style keeping the key
// order of the JSON document.
func manifestYAML(manifest []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(manifest, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

func blockStyle(node *yaml.Node) {
	if node.Kind != yaml.ScalarNode || node.Style == yaml.DoubleQuotedStyle {
		node.Style = 0
	}
	for _, child := range node.Content {
		blockStyle(child)
	}
}

func printSchema(w io.Writer) error {
	schema, err := device.ManifestSchemaJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(schema))
	return err
}
