// Package collections provides the insertion-ordered, unique-key containers
// backing device manifests.
//
// Two interchangeable backends share one contract: a bounded backend whose
// storage is allocated once with a fixed capacity, and an unbounded backend
// that grows on demand. Both encode to identical JSON for identical contents.
package collections

import (
	"errors"
	"iter"
)

var ErrCapacityExceeded = errors.New("collection capacity exceeded")

// Map is an insertion-ordered associative container with unique keys.
//
// Insert replaces the value of an existing key in place, keeping its
// position, and reports whether a replacement happened.
type Map[K comparable, V any] interface {
	Insert(key K, value V) (replaced bool, err error)
	Get(key K) (V, bool)
	All() iter.Seq2[K, V]
	Keys() []K
	Len() int
	IsEmpty() bool
	Cap() int
	Clone() Map[K, V]
}

// Set is an insertion-ordered collection of unique values.
//
// Insert is a no-op on duplicates and reports false in that case.
type Set[T comparable] interface {
	Insert(value T) (inserted bool, err error)
	Contains(value T) bool
	All() iter.Seq[T]
	Values() []T
	Len() int
	IsEmpty() bool
	Cap() int
	Clone() Set[T]
}

// Unlimited is the Cap of unbounded containers.
const Unlimited = -1
