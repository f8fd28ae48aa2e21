package collections

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// marshalOrderedMap writes m as a JSON object, keys in insertion order.
// encoding/json sorts map keys, which would hide the container order.
func marshalOrderedMap[K comparable, V any](m Map[K, V]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for k, v := range m.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(fmt.Sprint(k))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalOrderedSet[T comparable](s Set[T]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	first := true
	for v := range s.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		value, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalMap encodes any Map as an insertion-ordered JSON object.
func MarshalMap[K comparable, V any](m Map[K, V]) ([]byte, error) {
	return marshalOrderedMap(m)
}

// MarshalSet encodes any Set as an insertion-ordered JSON array.
func MarshalSet[T comparable](s Set[T]) ([]byte, error) {
	return marshalOrderedSet(s)
}
