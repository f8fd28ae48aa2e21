// Package parameter describes the typed inputs a route accepts.
//
// Parameters is an immutable builder: every call returns a new value and
// leaves the receiver untouched. Range kinds are validated when they are
// added; the first failure is kept and reported by Err, and the failing
// entry is never stored.
package parameter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/berfenger/devicecap/pkg/collections"
)

// DefaultCapacity bounds Parameters created with New on bounded builds.
const DefaultCapacity = 16

type Parameters struct {
	capacity int
	inner    collections.Map[string, Kind]
	err      error
}

func New() Parameters {
	return WithCapacity(DefaultCapacity)
}

func WithCapacity(capacity int) Parameters {
	return Parameters{capacity: capacity}
}

// One and Two hold up to two parameters on bounded builds.
func One() Parameters { return WithCapacity(2) }
func Two() Parameters { return WithCapacity(2) }

// Three and Four hold up to four parameters on bounded builds.
func Three() Parameters { return WithCapacity(4) }
func Four() Parameters  { return WithCapacity(4) }

// Five to Eight hold up to eight parameters on bounded builds.
func Five() Parameters  { return WithCapacity(8) }
func Six() Parameters   { return WithCapacity(8) }
func Seven() Parameters { return WithCapacity(8) }
func Eight() Parameters { return WithCapacity(8) }

func (p Parameters) Bool(name string, def bool) Parameters {
	return p.With(name, Bool{Default: def})
}

func (p Parameters) U8(name string, def uint8) Parameters {
	return p.With(name, U8{Default: def})
}

func (p Parameters) U16(name string, def uint16) Parameters {
	return p.With(name, U16{Default: def})
}

func (p Parameters) U32(name string, def uint32) Parameters {
	return p.With(name, U32{Default: def})
}

func (p Parameters) U64(name string, def uint64) Parameters {
	return p.With(name, U64{Default: def})
}

func (p Parameters) F32(name string, def float32) Parameters {
	return p.With(name, F32{Default: def})
}

func (p Parameters) F64(name string, def float64) Parameters {
	return p.With(name, F64{Default: def})
}

// RangeU64 adds a range whose default is its minimum.
func (p Parameters) RangeU64(name string, r Range[uint64]) Parameters {
	return p.RangeU64WithDefault(name, r, r.Min)
}

func (p Parameters) RangeU64WithDefault(name string, r Range[uint64], def uint64) Parameters {
	return p.With(name, RangeU64{Min: r.Min, Max: r.Max, Step: r.Step, Default: def})
}

// RangeF64 adds a range whose default is its minimum.
func (p Parameters) RangeF64(name string, r Range[float64]) Parameters {
	return p.RangeF64WithDefault(name, r, r.Min)
}

func (p Parameters) RangeF64WithDefault(name string, r Range[float64], def float64) Parameters {
	return p.With(name, RangeF64{Min: r.Min, Max: r.Max, Step: r.Step, Default: def})
}

func (p Parameters) CharSequence(name string, def string) Parameters {
	return p.With(name, CharSequence{Default: def})
}

// With adds kind under name. An existing name is replaced.
func (p Parameters) With(name string, kind Kind) Parameters {
	if p.err != nil {
		return p
	}
	if err := kind.Validate(); err != nil {
		p.err = fmt.Errorf("parameter %q: %w", name, err)
		return p
	}
	inner := p.clone()
	if _, err := inner.Insert(name, kind); err != nil {
		p.err = fmt.Errorf("parameter %q: %w", name, err)
		return p
	}
	p.inner = inner
	return p
}

func (p Parameters) clone() collections.Map[string, Kind] {
	if p.inner == nil {
		capacity := p.capacity
		if capacity == 0 {
			capacity = DefaultCapacity
		}
		return collections.NewMap[string, Kind](capacity)
	}
	return p.inner.Clone()
}

// Err returns the first construction error, if any.
func (p Parameters) Err() error {
	return p.err
}

func (p Parameters) Get(name string) (Kind, bool) {
	if p.inner == nil {
		return nil, false
	}
	return p.inner.Get(name)
}

func (p Parameters) All() iter.Seq2[string, Kind] {
	if p.inner == nil {
		return func(func(string, Kind) bool) {}
	}
	return p.inner.All()
}

func (p Parameters) Names() []string {
	if p.inner == nil {
		return []string{}
	}
	return p.inner.Keys()
}

func (p Parameters) Len() int {
	if p.inner == nil {
		return 0
	}
	return p.inner.Len()
}

func (p Parameters) IsEmpty() bool {
	return p.Len() == 0
}

func (p Parameters) MarshalJSON() ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.inner == nil {
		return []byte("{}"), nil
	}
	return collections.MarshalMap(p.inner)
}

// UnmarshalJSON keeps the order of the incoming object.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("parameters: expected object, got %v", tok)
	}
	out := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("parameters: expected name, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		kind, err := UnmarshalKind(raw)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		out = out.With(name, kind)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if out.err != nil {
		return out.err
	}
	*p = out
	return nil
}

// Equal reports whether p and o declare the same kinds under the same names,
// in the same order.
func (p Parameters) Equal(o Parameters) bool {
	if p.Len() != o.Len() || (p.err == nil) != (o.err == nil) {
		return false
	}
	names := o.Names()
	i := 0
	for name, kind := range p.All() {
		if names[i] != name {
			return false
		}
		other, _ := o.Get(name)
		if other != kind {
			return false
		}
		i++
	}
	return true
}
