package collections

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// UnboundedMap grows as needed. It is a thin adapter over an ordered map,
// so lookups are hashed and iteration follows insertion order.
type UnboundedMap[K comparable, V any] struct {
	om *orderedmap.OrderedMap[K, V]
}

func NewUnboundedMap[K comparable, V any](sizeHint int) *UnboundedMap[K, V] {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &UnboundedMap[K, V]{om: orderedmap.New[K, V](sizeHint)}
}

func (m *UnboundedMap[K, V]) Insert(key K, value V) (bool, error) {
	_, replaced := m.om.Set(key, value)
	return replaced, nil
}

func (m *UnboundedMap[K, V]) Get(key K) (V, bool) {
	return m.om.Get(key)
}

func (m *UnboundedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

func (m *UnboundedMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.om.Len())
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (m *UnboundedMap[K, V]) Len() int {
	return m.om.Len()
}

func (m *UnboundedMap[K, V]) IsEmpty() bool {
	return m.om.Len() == 0
}

func (m *UnboundedMap[K, V]) Cap() int {
	return Unlimited
}

func (m *UnboundedMap[K, V]) Clone() Map[K, V] {
	c := NewUnboundedMap[K, V](m.om.Len())
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		c.om.Set(pair.Key, pair.Value)
	}
	return c
}

func (m *UnboundedMap[K, V]) MarshalJSON() ([]byte, error) {
	return marshalOrderedMap[K, V](m)
}

// UnboundedSet grows as needed and keeps insertion order.
type UnboundedSet[T comparable] struct {
	m *UnboundedMap[T, struct{}]
}

func NewUnboundedSet[T comparable](sizeHint int) *UnboundedSet[T] {
	return &UnboundedSet[T]{m: NewUnboundedMap[T, struct{}](sizeHint)}
}

func (s *UnboundedSet[T]) Insert(value T) (bool, error) {
	if _, ok := s.m.Get(value); ok {
		return false, nil
	}
	s.m.om.Set(value, struct{}{})
	return true, nil
}

func (s *UnboundedSet[T]) Contains(value T) bool {
	_, ok := s.m.Get(value)
	return ok
}

func (s *UnboundedSet[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range s.m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

func (s *UnboundedSet[T]) Values() []T {
	return s.m.Keys()
}

func (s *UnboundedSet[T]) Len() int {
	return s.m.Len()
}

func (s *UnboundedSet[T]) IsEmpty() bool {
	return s.m.IsEmpty()
}

func (s *UnboundedSet[T]) Cap() int {
	return Unlimited
}

func (s *UnboundedSet[T]) Clone() Set[T] {
	return &UnboundedSet[T]{m: s.m.Clone().(*UnboundedMap[T, struct{}])}
}

func (s *UnboundedSet[T]) MarshalJSON() ([]byte, error) {
	return marshalOrderedSet[T](s)
}

// ensure interface compliance
var _ Map[string, int] = (*UnboundedMap[string, int])(nil)
var _ Set[int] = (*UnboundedSet[int])(nil)
