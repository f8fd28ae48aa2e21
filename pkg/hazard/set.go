package hazard

import (
	"encoding/json"
	"iter"

	"github.com/berfenger/devicecap/pkg/collections"
)

// Capacity bounds a Set on bounded builds: the whole catalog fits.
const Capacity = 32

// Set is a collection of unique hazards. The zero value is an empty set.
//
// Set values are immutable: With and WithSlice return a new Set.
type Set struct {
	inner collections.Set[Hazard]
}

func NewSet(hazards ...Hazard) Set {
	return Set{}.WithSlice(hazards)
}

func (s Set) clone() collections.Set[Hazard] {
	if s.inner == nil {
		return collections.NewSet[Hazard](Capacity)
	}
	return s.inner.Clone()
}

// Insert adds h to a copy of s and reports whether the set changed.
func (s Set) Insert(h Hazard) (Set, bool) {
	inner := s.clone()
	// the catalog never exceeds Capacity
	inserted, _ := inner.Insert(h)
	return Set{inner: inner}, inserted
}

func (s Set) With(h Hazard) Set {
	next, _ := s.Insert(h)
	return next
}

func (s Set) WithSlice(hazards []Hazard) Set {
	inner := s.clone()
	for _, h := range hazards {
		_, _ = inner.Insert(h)
	}
	return Set{inner: inner}
}

func (s Set) Contains(h Hazard) bool {
	return s.inner != nil && s.inner.Contains(h)
}

func (s Set) All() iter.Seq[Hazard] {
	if s.inner == nil {
		return func(func(Hazard) bool) {}
	}
	return s.inner.All()
}

func (s Set) Slice() []Hazard {
	if s.inner == nil {
		return []Hazard{}
	}
	return s.inner.Values()
}

func (s Set) Len() int {
	if s.inner == nil {
		return 0
	}
	return s.inner.Len()
}

func (s Set) IsEmpty() bool {
	return s.Len() == 0
}

// Categories returns the distinct categories present in s.
func (s Set) Categories() []Category {
	var seen [3]bool
	var out []Category
	for h := range s.All() {
		c := h.Category()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func (s Set) MarshalJSON() ([]byte, error) {
	if s.inner == nil {
		return []byte("[]"), nil
	}
	return collections.MarshalSet(s.inner)
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var hazards []Hazard
	if err := json.Unmarshal(data, &hazards); err != nil {
		return err
	}
	*s = NewSet(hazards...)
	return nil
}
