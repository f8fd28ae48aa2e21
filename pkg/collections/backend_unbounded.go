//go:build !bounded

package collections

// Backend names the container implementation selected for this build.
const Backend = "unbounded"

// NewMap returns the build's default Map. Without the bounded build tag the
// capacity is only a size hint.
func NewMap[K comparable, V any](capacity int) Map[K, V] {
	return NewUnboundedMap[K, V](capacity)
}

// NewSet returns the build's default Set.
func NewSet[T comparable](capacity int) Set[T] {
	return NewUnboundedSet[T](capacity)
}
