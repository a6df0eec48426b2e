package kv

import (
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func set[V any](s *Storage[V], key string, value V) *Storage[V] {
	slot, _ := s.Slot([]byte(key))
	*slot = value
	return s
}

func TestStorage(t *testing.T) {
	getStorage := func() *Storage[int] {
		s := New[int]()
		set(s, "Foo", 1)
		set(s, "Hello", 2)
		set(s, "Lorem", 3)
		return set(s, "hello", 4)
	}

	t.Run("case sensitive", func(t *testing.T) {
		s := getStorage()
		require.Equal(t, 4, s.Len())

		value, found := s.Get("Hello")
		require.True(t, found)
		require.Equal(t, 2, value)

		value, found = s.Get("hello")
		require.True(t, found)
		require.Equal(t, 4, value)

		require.False(t, s.Has("HELLO"))
	})

	t.Run("insertion order", func(t *testing.T) {
		s := set(getStorage(), "Foo", 5)
		require.Equal(t, []string{"Foo", "Hello", "Lorem", "hello"}, slices.Collect(s.Keys()))

		value, _ := s.Get("Foo")
		require.Equal(t, 5, value)
		require.Equal(t, Pair[int]{Key: "Lorem", Value: 3}, s.At(2))
	})

	t.Run("slot", func(t *testing.T) {
		s := New[[]string]()
		key := []byte("key")
		slot, inserted := s.Slot(key)
		require.True(t, inserted)
		*slot = append(*slot, "a")

		// the key must be copied
		key[0] = 'K'

		slot, inserted = s.Slot([]byte("key"))
		require.False(t, inserted)
		*slot = append(*slot, "b")

		values, found := s.Get("key")
		require.True(t, found)
		require.Equal(t, []string{"a", "b"}, values)
		require.False(t, s.Has("Key"))
	})

	t.Run("indexed", func(t *testing.T) {
		s := NewPrealloc[int](8)
		for i := range 100 {
			set(s, strconv.Itoa(i), i)
		}

		set(s, "42", -42)
		require.Equal(t, 100, s.Len())

		for i := range 100 {
			value, found := s.Get(strconv.Itoa(i))
			require.True(t, found)
			if i == 42 {
				require.Equal(t, -42, value)
			} else {
				require.Equal(t, i, value)
			}

			require.Equal(t, strconv.Itoa(i), s.At(i).Key)
		}

		require.False(t, s.Has("100"))
	})

	t.Run("pairs", func(t *testing.T) {
		var keys []string
		var values []int
		for key, value := range getStorage().Pairs() {
			keys = append(keys, key)
			values = append(values, value)
		}

		require.Equal(t, []string{"Foo", "Hello", "Lorem", "hello"}, keys)
		require.Equal(t, []int{1, 2, 3, 4}, values)
	})

	t.Run("nil storage", func(t *testing.T) {
		var s *Storage[int]
		require.Zero(t, s.Len())
		require.False(t, s.Has("a"))
	})
}
