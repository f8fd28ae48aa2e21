// Package route describes an addressable device action: an HTTP method and
// path with a description, the inputs it accepts and the hazards it carries.
package route

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/berfenger/devicecap/pkg/hazard"
	"github.com/berfenger/devicecap/pkg/parameter"
)

type Method uint8

const (
	GET Method = iota
	POST
	PUT
	DELETE
)

func (m Method) String() string {
	switch m {
	case GET:
		return "GET"
	case POST:
		return "POST"
	case PUT:
		return "PUT"
	case DELETE:
		return "DELETE"
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

func ParseMethod(s string) (Method, error) {
	switch strings.ToUpper(s) {
	case "GET":
		return GET, nil
	case "POST":
		return POST, nil
	case "PUT":
		return PUT, nil
	case "DELETE":
		return DELETE, nil
	}
	return 0, fmt.Errorf("unsupported method %q", s)
}

func (m Method) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Method) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Key identifies a route within a device.
type Key struct {
	Method Method
	Path   string
}

func (k Key) String() string {
	return k.Method.String() + " " + k.Path
}

// Route is an immutable value; every builder method returns a copy.
type Route struct {
	method      Method
	path        string
	description string
	parameters  parameter.Parameters
	hazards     hazard.Set
}

func newRoute(method Method, path string) Route {
	return Route{method: method, path: path}
}

func Get(path string) Route    { return newRoute(GET, path) }
func Post(path string) Route   { return newRoute(POST, path) }
func Put(path string) Route    { return newRoute(PUT, path) }
func Delete(path string) Route { return newRoute(DELETE, path) }

func (r Route) Description(description string) Route {
	r.description = description
	return r
}

func (r Route) WithHazard(h hazard.Hazard) Route {
	r.hazards = r.hazards.With(h)
	return r
}

func (r Route) WithSliceHazards(hazards []hazard.Hazard) Route {
	r.hazards = r.hazards.WithSlice(hazards)
	return r
}

func (r Route) WithHazards(hazards hazard.Set) Route {
	r.hazards = hazards
	return r
}

// WithParameters replaces the whole input schema.
func (r Route) WithParameters(p parameter.Parameters) Route {
	r.parameters = p
	return r
}

func (r Route) Method() Method                   { return r.method }
func (r Route) Path() string                     { return r.path }
func (r Route) Key() Key                         { return Key{Method: r.method, Path: r.path} }
func (r Route) Hazards() hazard.Set              { return r.hazards }
func (r Route) Parameters() parameter.Parameters { return r.parameters }

// DescriptionText returns the human description.
func (r Route) DescriptionText() string {
	return r.description
}

// Validate reports construction errors carried by the route.
func (r Route) Validate() error {
	if !strings.HasPrefix(r.path, "/") {
		return fmt.Errorf("route %s: path must start with /", r.Key())
	}
	if err := r.parameters.Err(); err != nil {
		return fmt.Errorf("route %s: %w", r.Key(), err)
	}
	return nil
}

// Equal compares routes field by field.
func (r Route) Equal(o Route) bool {
	if r.Key() != o.Key() || r.description != o.description {
		return false
	}
	if !r.parameters.Equal(o.parameters) {
		return false
	}
	a, b := r.hazards.Slice(), o.hazards.Slice()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type routeJSON struct {
	Route       string               `json:"route"`
	Method      Method               `json:"method"`
	Description string               `json:"description"`
	Parameters  parameter.Parameters `json:"parameters"`
	Hazards     hazard.Set           `json:"hazards"`
}

func (r Route) MarshalJSON() ([]byte, error) {
	return json.Marshal(routeJSON{
		Route:       r.path,
		Method:      r.method,
		Description: r.description,
		Parameters:  r.parameters,
		Hazards:     r.hazards,
	})
}

func (r *Route) UnmarshalJSON(data []byte) error {
	var raw routeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Route{
		method:      raw.Method,
		path:        raw.Route,
		description: raw.Description,
		parameters:  raw.Parameters,
		hazards:     raw.Hazards,
	}
	return nil
}
