package collections

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapBackend struct {
	name string
	new  func(capacity int) Map[string, int]
}

type setBackend struct {
	name string
	new  func(capacity int) Set[string]
}

var mapBackends = []mapBackend{
	{"bounded", func(c int) Map[string, int] { return NewBoundedMap[string, int](c) }},
	{"unbounded", func(c int) Map[string, int] { return NewUnboundedMap[string, int](c) }},
}

var setBackends = []setBackend{
	{"bounded", func(c int) Set[string] { return NewBoundedSet[string](c) }},
	{"unbounded", func(c int) Set[string] { return NewUnboundedSet[string](c) }},
}

func TestMapInsertReplaces(t *testing.T) {
	for _, b := range mapBackends {
		t.Run(b.name, func(t *testing.T) {
			require := require.New(t)

			m := b.new(4)
			replaced, err := m.Insert("a", 1)
			require.NoError(err)
			require.False(replaced)

			_, err = m.Insert("b", 2)
			require.NoError(err)

			replaced, err = m.Insert("a", 3)
			require.NoError(err)
			require.True(replaced, "existing key is replaced")

			v, ok := m.Get("a")
			require.True(ok)
			require.Equal(3, v, "last write wins")
			require.Equal(2, m.Len())
			require.Equal([]string{"a", "b"}, m.Keys(), "replacement keeps position")
		})
	}
}

func TestMapGetMissing(t *testing.T) {
	for _, b := range mapBackends {
		m := b.new(2)
		v, ok := m.Get("nope")
		assert.False(t, ok, b.name)
		assert.Zero(t, v, b.name)
		assert.True(t, m.IsEmpty(), b.name)
	}
}

func TestBoundedMapCapacityExceeded(t *testing.T) {
	require := require.New(t)

	m := NewBoundedMap[string, int](4)
	for i, k := range []string{"a", "b", "c", "d"} {
		_, err := m.Insert(k, i)
		require.NoError(err)
	}
	before, err := json.Marshal(m)
	require.NoError(err)

	_, err = m.Insert("e", 4)
	require.True(errors.Is(err, ErrCapacityExceeded))
	require.Equal(4, m.Len(), "container unchanged")

	after, err := json.Marshal(m)
	require.NoError(err)
	require.Equal(before, after)

	// replacing at full capacity is allowed
	replaced, err := m.Insert("d", 40)
	require.NoError(err)
	require.True(replaced)
}

func TestBoundedSetCapacityExceeded(t *testing.T) {
	require := require.New(t)

	s := NewBoundedSet[string](2)
	_, err := s.Insert("x")
	require.NoError(err)
	_, err = s.Insert("y")
	require.NoError(err)

	inserted, err := s.Insert("x")
	require.NoError(err, "duplicate is not a capacity error")
	require.False(inserted)

	_, err = s.Insert("z")
	require.ErrorIs(err, ErrCapacityExceeded)
	require.Equal([]string{"x", "y"}, s.Values())
}

func TestUnboundedNeverExceeds(t *testing.T) {
	m := NewUnboundedMap[string, int](0)
	s := NewUnboundedSet[string](0)
	for i := 0; i < 1000; i++ {
		k := string(rune('a'+i%26)) + string(rune('a'+i/26))
		_, err := m.Insert(k, i)
		assert.NoError(t, err)
		_, err = s.Insert(k)
		assert.NoError(t, err)
	}
	assert.Equal(t, 1000, m.Len())
	assert.Equal(t, 1000, s.Len())
	assert.Equal(t, Unlimited, m.Cap())
}

func TestSetInsertDuplicate(t *testing.T) {
	for _, b := range setBackends {
		s := b.new(4)
		inserted, err := s.Insert("v")
		assert.NoError(t, err)
		assert.True(t, inserted, b.name)

		inserted, err = s.Insert("v")
		assert.NoError(t, err)
		assert.False(t, inserted, b.name)
		assert.Equal(t, 1, s.Len(), b.name)
		assert.True(t, s.Contains("v"), b.name)
	}
}

func TestBackendsSerializeIdentically(t *testing.T) {
	require := require.New(t)

	bm := NewBoundedMap[string, int](4)
	um := NewUnboundedMap[string, int](4)
	bs := NewBoundedSet[string](4)
	us := NewUnboundedSet[string](4)

	for _, m := range []Map[string, int]{bm, um} {
		_, _ = m.Insert("z", 1)
		_, _ = m.Insert("a", 2)
		_, _ = m.Insert("z", 1)
	}
	for _, s := range []Set[string]{bs, us} {
		_, _ = s.Insert("z")
		_, _ = s.Insert("a")
		_, _ = s.Insert("z")
	}

	bmJSON, err := json.Marshal(bm)
	require.NoError(err)
	umJSON, err := json.Marshal(um)
	require.NoError(err)
	require.Equal(string(bmJSON), string(umJSON))
	require.Equal(`{"z":1,"a":2}`, string(bmJSON))

	bsJSON, err := json.Marshal(bs)
	require.NoError(err)
	usJSON, err := json.Marshal(us)
	require.NoError(err)
	require.Equal(string(bsJSON), string(usJSON))
	require.Equal(`["z","a"]`, string(bsJSON))
}

func TestEmptyContainersSerialize(t *testing.T) {
	b, err := MarshalMap[string, int](NewBoundedMap[string, int](0))
	assert.NoError(t, err)
	assert.Equal(t, "{}", string(b))

	b, err = MarshalSet[string](NewUnboundedSet[string](0))
	assert.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestCloneIsIndependent(t *testing.T) {
	for _, b := range mapBackends {
		m := b.new(4)
		_, _ = m.Insert("a", 1)
		c := m.Clone()
		_, _ = c.Insert("b", 2)
		_, _ = c.Insert("a", 10)

		v, _ := m.Get("a")
		assert.Equal(t, 1, v, b.name)
		assert.Equal(t, 1, m.Len(), b.name)
		assert.Equal(t, 2, c.Len(), b.name)
		assert.Equal(t, m.Cap(), c.Cap(), b.name)
	}
	for _, b := range setBackends {
		s := b.new(4)
		_, _ = s.Insert("a")
		c := s.Clone()
		_, _ = c.Insert("b")
		assert.False(t, s.Contains("b"), b.name)
		assert.True(t, c.Contains("a"), b.name)
	}
}

func TestIterationStopsEarly(t *testing.T) {
	for _, b := range mapBackends {
		m := b.new(4)
		_, _ = m.Insert("a", 1)
		_, _ = m.Insert("b", 2)
		_, _ = m.Insert("c", 3)
		seen := 0
		for range m.All() {
			seen++
			if seen == 2 {
				break
			}
		}
		assert.Equal(t, 2, seen, b.name)
	}
}

func TestDefaultBackend(t *testing.T) {
	m := NewMap[string, int](2)
	s := NewSet[string](2)
	switch Backend {
	case "bounded":
		assert.Equal(t, 2, m.Cap())
		assert.Equal(t, 2, s.Cap())
	default:
		assert.Equal(t, Unlimited, m.Cap())
		assert.Equal(t, Unlimited, s.Cap())
	}
}
