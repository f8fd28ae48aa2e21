package device

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

type schemaHazard struct {
	ID          uint16 `json:"id" jsonschema:"minimum=0,maximum=21"`
	Name        string `json:"name"`
	Category    string `json:"category" jsonschema:"enum=Safety,enum=Financial,enum=Privacy"`
	Description string `json:"description"`
}

type schemaRoute struct {
	Route       string                               `json:"route" jsonschema:"pattern=^/"`
	Method      string                               `json:"method" jsonschema:"enum=GET,enum=POST,enum=PUT,enum=DELETE"`
	Description string                               `json:"description"`
	Parameters  map[string]map[string]map[string]any `json:"parameters" jsonschema:"description=Parameter name to a single-key object naming its kind"`
	Hazards     []schemaHazard                       `json:"hazards"`
}

type schemaManifest struct {
	Kind      string        `json:"kind" jsonschema:"enum=Unknown,enum=Light,enum=Fridge"`
	MainRoute string        `json:"main_route" jsonschema:"pattern=^/"`
	Routes    []schemaRoute `json:"routes"`
}

// ManifestSchema returns the JSON Schema of the manifest document.
func ManifestSchema() *jsonschema.Schema {
	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	r.DoNotReference = true
	s := r.Reflect(&schemaManifest{})
	s.Title = "Device manifest"
	return s
}

func ManifestSchemaJSON() ([]byte, error) {
	return json.MarshalIndent(ManifestSchema(), "", "  ")
}
