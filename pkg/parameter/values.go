package parameter

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

var ErrInvalidInput = errors.New("invalid input")

// Values holds inputs resolved against a Parameters schema. Every schema
// entry is present, either from the request or from its default.
type Values struct {
	values map[string]any
}

func (v Values) Len() int {
	return len(v.values)
}

func (v Values) Has(name string) bool {
	_, ok := v.values[name]
	return ok
}

// Map returns a copy of the resolved values.
func (v Values) Map() map[string]any {
	return maps.Clone(v.values)
}

// Get returns the resolved value of name converted to T.
func Get[T any](v Values, name string) (T, bool) {
	value, ok := v.values[name].(T)
	return value, ok
}

func (v Values) Bool(name string) bool {
	b, _ := Get[bool](v, name)
	return b
}

func (v Values) U8(name string) uint8 {
	n, _ := Get[uint8](v, name)
	return n
}

func (v Values) U16(name string) uint16 {
	n, _ := Get[uint16](v, name)
	return n
}

func (v Values) U32(name string) uint32 {
	n, _ := Get[uint32](v, name)
	return n
}

// U64 also returns RangeU64 inputs.
func (v Values) U64(name string) uint64 {
	n, _ := Get[uint64](v, name)
	return n
}

func (v Values) F32(name string) float32 {
	n, _ := Get[float32](v, name)
	return n
}

// F64 also returns RangeF64 inputs.
func (v Values) F64(name string) float64 {
	n, _ := Get[float64](v, name)
	return n
}

func (v Values) String(name string) string {
	s, _ := Get[string](v, name)
	return s
}

// Resolve checks raw request inputs against the schema. Missing inputs take
// their default value, unknown names and out of range values are rejected.
func (p Parameters) Resolve(raw map[string]json.RawMessage) (Values, error) {
	if err := p.Err(); err != nil {
		return Values{}, err
	}
	for name := range raw {
		if _, ok := p.Get(name); !ok {
			return Values{}, fmt.Errorf("%w: unknown parameter %q", ErrInvalidInput, name)
		}
	}
	values := make(map[string]any, p.Len())
	for name, kind := range p.All() {
		input, ok := raw[name]
		if !ok || string(input) == "null" {
			values[name] = kind.DefaultValue()
			continue
		}
		value, err := kind.resolve(input)
		if err != nil {
			return Values{}, fmt.Errorf("%w: parameter %q: %v", ErrInvalidInput, name, err)
		}
		values[name] = value
	}
	return Values{values: values}, nil
}

func decodeAs[T any](raw json.RawMessage) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (Bool) resolve(raw json.RawMessage) (any, error)         { return decodeAs[bool](raw) }
func (U8) resolve(raw json.RawMessage) (any, error)           { return decodeAs[uint8](raw) }
func (U16) resolve(raw json.RawMessage) (any, error)          { return decodeAs[uint16](raw) }
func (U32) resolve(raw json.RawMessage) (any, error)          { return decodeAs[uint32](raw) }
func (U64) resolve(raw json.RawMessage) (any, error)          { return decodeAs[uint64](raw) }
func (F32) resolve(raw json.RawMessage) (any, error)          { return decodeAs[float32](raw) }
func (F64) resolve(raw json.RawMessage) (any, error)          { return decodeAs[float64](raw) }
func (CharSequence) resolve(raw json.RawMessage) (any, error) { return decodeAs[string](raw) }

func (k RangeU64) resolve(raw json.RawMessage) (any, error) {
	var v uint64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if v < k.Min || v > k.Max {
		return nil, fmt.Errorf("%d outside [%d, %d]", v, k.Min, k.Max)
	}
	return v, nil
}

func (k RangeF64) resolve(raw json.RawMessage) (any, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if v < k.Min || v > k.Max {
		return nil, fmt.Errorf("%g outside [%g, %g]", v, k.Min, k.Max)
	}
	return v, nil
}
