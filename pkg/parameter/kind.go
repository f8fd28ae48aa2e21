package parameter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidParameterRange = errors.New("invalid parameter range")
	ErrUnknownKind           = errors.New("unknown parameter kind")
)

// Kind describes the type, bounds and default value of one route input.
// The set of kinds is closed.
type Kind interface {
	// Name is the tag used on the wire, e.g. "RangeF64".
	Name() string
	// DefaultValue returns the value used when the input is missing.
	DefaultValue() any
	Validate() error
	resolve(raw json.RawMessage) (any, error)
}

type Bool struct {
	Default bool `json:"default"`
}

type U8 struct {
	Default uint8 `json:"default"`
}

type U16 struct {
	Default uint16 `json:"default"`
}

type U32 struct {
	Default uint32 `json:"default"`
}

type U64 struct {
	Default uint64 `json:"default"`
}

type F32 struct {
	Default float32 `json:"default"`
}

type F64 struct {
	Default float64 `json:"default"`
}

// RangeU64 accepts integers in [Min, Max], moving by Step.
type RangeU64 struct {
	Min     uint64 `json:"min"`
	Max     uint64 `json:"max"`
	Step    uint64 `json:"step"`
	Default uint64 `json:"default"`
}

// RangeF64 accepts numbers in [Min, Max], moving by Step.
type RangeF64 struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

type CharSequence struct {
	Default string `json:"default"`
}

// Range groups the bounds of a range parameter.
type Range[T uint64 | float64] struct {
	Min  T
	Max  T
	Step T
}

// NewRangeU64 builds a validated RangeU64.
func NewRangeU64(r Range[uint64], def uint64) (RangeU64, error) {
	k := RangeU64{Min: r.Min, Max: r.Max, Step: r.Step, Default: def}
	return k, k.Validate()
}

// NewRangeF64 builds a validated RangeF64.
func NewRangeF64(r Range[float64], def float64) (RangeF64, error) {
	k := RangeF64{Min: r.Min, Max: r.Max, Step: r.Step, Default: def}
	return k, k.Validate()
}

func (Bool) Name() string         { return "Bool" }
func (U8) Name() string           { return "U8" }
func (U16) Name() string          { return "U16" }
func (U32) Name() string          { return "U32" }
func (U64) Name() string          { return "U64" }
func (F32) Name() string          { return "F32" }
func (F64) Name() string          { return "F64" }
func (RangeU64) Name() string     { return "RangeU64" }
func (RangeF64) Name() string     { return "RangeF64" }
func (CharSequence) Name() string { return "CharSequence" }

func (k Bool) DefaultValue() any         { return k.Default }
func (k U8) DefaultValue() any           { return k.Default }
func (k U16) DefaultValue() any          { return k.Default }
func (k U32) DefaultValue() any          { return k.Default }
func (k U64) DefaultValue() any          { return k.Default }
func (k F32) DefaultValue() any          { return k.Default }
func (k F64) DefaultValue() any          { return k.Default }
func (k RangeU64) DefaultValue() any     { return k.Default }
func (k RangeF64) DefaultValue() any     { return k.Default }
func (k CharSequence) DefaultValue() any { return k.Default }

func (Bool) Validate() error         { return nil }
func (U8) Validate() error           { return nil }
func (U16) Validate() error          { return nil }
func (U32) Validate() error          { return nil }
func (U64) Validate() error          { return nil }
func (F32) Validate() error          { return nil }
func (F64) Validate() error          { return nil }
func (CharSequence) Validate() error { return nil }

func (k RangeU64) Validate() error {
	switch {
	case k.Min > k.Max:
		return fmt.Errorf("%w: min %d > max %d", ErrInvalidParameterRange, k.Min, k.Max)
	case k.Step == 0:
		return fmt.Errorf("%w: step must be positive", ErrInvalidParameterRange)
	case k.Default < k.Min || k.Default > k.Max:
		return fmt.Errorf("%w: default %d outside [%d, %d]", ErrInvalidParameterRange, k.Default, k.Min, k.Max)
	}
	return nil
}

func (k RangeF64) Validate() error {
	switch {
	case math.IsNaN(k.Min) || math.IsNaN(k.Max) || math.IsNaN(k.Step) || math.IsNaN(k.Default):
		return fmt.Errorf("%w: NaN bound", ErrInvalidParameterRange)
	case k.Min > k.Max:
		return fmt.Errorf("%w: min %g > max %g", ErrInvalidParameterRange, k.Min, k.Max)
	case k.Step <= 0:
		return fmt.Errorf("%w: step %g must be positive", ErrInvalidParameterRange, k.Step)
	case k.Default < k.Min || k.Default > k.Max:
		return fmt.Errorf("%w: default %g outside [%g, %g]", ErrInvalidParameterRange, k.Default, k.Min, k.Max)
	}
	return nil
}

// Wire form is externally tagged: {"U16": {"default": 0}}.

func tagged(name string, body any) ([]byte, error) {
	inner, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	tag, _ := json.Marshal(name)
	out := make([]byte, 0, len(tag)+len(inner)+3)
	out = append(out, '{')
	out = append(out, tag...)
	out = append(out, ':')
	out = append(out, inner...)
	out = append(out, '}')
	return out, nil
}

func (k Bool) MarshalJSON() ([]byte, error) {
	type plain Bool
	return tagged(k.Name(), plain(k))
}

func (k U8) MarshalJSON() ([]byte, error) {
	type plain U8
	return tagged(k.Name(), plain(k))
}

func (k U16) MarshalJSON() ([]byte, error) {
	type plain U16
	return tagged(k.Name(), plain(k))
}

func (k U32) MarshalJSON() ([]byte, error) {
	type plain U32
	return tagged(k.Name(), plain(k))
}

func (k U64) MarshalJSON() ([]byte, error) {
	type plain U64
	return tagged(k.Name(), plain(k))
}

func (k F32) MarshalJSON() ([]byte, error) {
	type plain F32
	return tagged(k.Name(), plain(k))
}

func (k F64) MarshalJSON() ([]byte, error) {
	type plain F64
	return tagged(k.Name(), plain(k))
}

func (k RangeU64) MarshalJSON() ([]byte, error) {
	type plain RangeU64
	return tagged(k.Name(), plain(k))
}

func (k RangeF64) MarshalJSON() ([]byte, error) {
	type plain RangeF64
	return tagged(k.Name(), plain(k))
}

func (k CharSequence) MarshalJSON() ([]byte, error) {
	type plain CharSequence
	return tagged(k.Name(), plain(k))
}

// UnmarshalKind decodes an externally tagged kind and validates it.
func UnmarshalKind(data []byte) (Kind, error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	if len(wrapper) != 1 {
		return nil, fmt.Errorf("%w: expected a single tag, got %d", ErrUnknownKind, len(wrapper))
	}
	for tag, body := range wrapper {
		k, err := decodeKind(tag, body)
		if err != nil {
			return nil, err
		}
		if err := k.Validate(); err != nil {
			return nil, err
		}
		return k, nil
	}
	return nil, ErrUnknownKind
}

func decodeKind(tag string, body json.RawMessage) (Kind, error) {
	switch tag {
	case "Bool":
		var k struct{ Default bool }
		err := json.Unmarshal(body, &k)
		return Bool{Default: k.Default}, err
	case "U8":
		var k struct{ Default uint8 }
		err := json.Unmarshal(body, &k)
		return U8{Default: k.Default}, err
	case "U16":
		var k struct{ Default uint16 }
		err := json.Unmarshal(body, &k)
		return U16{Default: k.Default}, err
	case "U32":
		var k struct{ Default uint32 }
		err := json.Unmarshal(body, &k)
		return U32{Default: k.Default}, err
	case "U64":
		var k struct{ Default uint64 }
		err := json.Unmarshal(body, &k)
		return U64{Default: k.Default}, err
	case "F32":
		var k struct{ Default float32 }
		err := json.Unmarshal(body, &k)
		return F32{Default: k.Default}, err
	case "F64":
		var k struct{ Default float64 }
		err := json.Unmarshal(body, &k)
		return F64{Default: k.Default}, err
	case "RangeU64":
		var k struct{ Min, Max, Step, Default uint64 }
		err := json.Unmarshal(body, &k)
		return RangeU64{Min: k.Min, Max: k.Max, Step: k.Step, Default: k.Default}, err
	case "RangeF64":
		var k struct{ Min, Max, Step, Default float64 }
		err := json.Unmarshal(body, &k)
		return RangeF64{Min: k.Min, Max: k.Max, Step: k.Step, Default: k.Default}, err
	case "CharSequence":
		var k struct{ Default string }
		err := json.Unmarshal(body, &k)
		return CharSequence{Default: k.Default}, err
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
}

// ensure interface compliance
var (
	_ Kind = Bool{}
	_ Kind = U8{}
	_ Kind = U16{}
	_ Kind = U32{}
	_ Kind = U64{}
	_ Kind = F32{}
	_ Kind = F64{}
	_ Kind = RangeU64{}
	_ Kind = RangeF64{}
	_ Kind = CharSequence{}
)
