//go:build bounded

package collections

// Backend names the container implementation selected for this build.
const Backend = "bounded"

// NewMap returns the build's default Map. With the bounded build tag the
// capacity is a hard limit.
func NewMap[K comparable, V any](capacity int) Map[K, V] {
	return NewBoundedMap[K, V](capacity)
}

// NewSet returns the build's default Set.
func NewSet[T comparable](capacity int) Set[T] {
	return NewBoundedSet[T](capacity)
}
