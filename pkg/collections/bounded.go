package collections

import (
	"fmt"
	"iter"
	"slices"
)

// BoundedMap stores at most a fixed number of entries. Its storage is
// allocated once, when the map is created, and never grows.
type BoundedMap[K comparable, V any] struct {
	keys   []K
	values []V
}

func NewBoundedMap[K comparable, V any](capacity int) *BoundedMap[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &BoundedMap[K, V]{
		keys:   make([]K, 0, capacity),
		values: make([]V, 0, capacity),
	}
}

func (m *BoundedMap[K, V]) Insert(key K, value V) (bool, error) {
	if i := slices.Index(m.keys, key); i >= 0 {
		m.values[i] = value
		return true, nil
	}
	if len(m.keys) == cap(m.keys) {
		return false, fmt.Errorf("%w: map holds %d entries", ErrCapacityExceeded, cap(m.keys))
	}
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	return false, nil
}

func (m *BoundedMap[K, V]) Get(key K) (V, bool) {
	if i := slices.Index(m.keys, key); i >= 0 {
		return m.values[i], true
	}
	var zero V
	return zero, false
}

func (m *BoundedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range m.keys {
			if !yield(m.keys[i], m.values[i]) {
				return
			}
		}
	}
}

func (m *BoundedMap[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

func (m *BoundedMap[K, V]) Len() int {
	return len(m.keys)
}

func (m *BoundedMap[K, V]) IsEmpty() bool {
	return len(m.keys) == 0
}

func (m *BoundedMap[K, V]) Cap() int {
	return cap(m.keys)
}

func (m *BoundedMap[K, V]) Clone() Map[K, V] {
	c := NewBoundedMap[K, V](cap(m.keys))
	c.keys = append(c.keys, m.keys...)
	c.values = append(c.values, m.values...)
	return c
}

func (m *BoundedMap[K, V]) MarshalJSON() ([]byte, error) {
	return marshalOrderedMap[K, V](m)
}

// BoundedSet stores at most a fixed number of unique values.
type BoundedSet[T comparable] struct {
	values []T
}

func NewBoundedSet[T comparable](capacity int) *BoundedSet[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &BoundedSet[T]{values: make([]T, 0, capacity)}
}

func (s *BoundedSet[T]) Insert(value T) (bool, error) {
	if slices.Contains(s.values, value) {
		return false, nil
	}
	if len(s.values) == cap(s.values) {
		return false, fmt.Errorf("%w: set holds %d values", ErrCapacityExceeded, cap(s.values))
	}
	s.values = append(s.values, value)
	return true, nil
}

func (s *BoundedSet[T]) Contains(value T) bool {
	return slices.Contains(s.values, value)
}

func (s *BoundedSet[T]) All() iter.Seq[T] {
	return slices.Values(s.values)
}

func (s *BoundedSet[T]) Values() []T {
	return slices.Clone(s.values)
}

func (s *BoundedSet[T]) Len() int {
	return len(s.values)
}

func (s *BoundedSet[T]) IsEmpty() bool {
	return len(s.values) == 0
}

func (s *BoundedSet[T]) Cap() int {
	return cap(s.values)
}

func (s *BoundedSet[T]) Clone() Set[T] {
	c := NewBoundedSet[T](cap(s.values))
	c.values = append(c.values, s.values...)
	return c
}

func (s *BoundedSet[T]) MarshalJSON() ([]byte, error) {
	return marshalOrderedSet[T](s)
}

// ensure interface compliance
var _ Map[string, int] = (*BoundedMap[string, int])(nil)
var _ Set[int] = (*BoundedSet[int])(nil)
