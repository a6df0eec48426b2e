package kv

import (
	"iter"

	"github.com/indigo-web/utils/uf"
)

// linearThreshold is the number of entries up to which lookups are done by a linear search.
// Beyond it, an index is built.
const linearThreshold = 16

type Pair[V any] struct {
	Key   string
	Value V
}

// Storage is an associative structure preserving the insertion order of keys. Keys are
// compared case-sensitively. It acts as a map but uses linear search as long as there are
// few entries, which often enough is the case for query strings.
type Storage[V any] struct {
	pairs []Pair[V]
	index map[string]int
}

func New[V any]() *Storage[V] {
	return new(Storage[V])
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying storage.
func NewPrealloc[V any](n int) *Storage[V] {
	return &Storage[V]{
		pairs: make([]Pair[V], 0, n),
	}
}

// Slot returns a pointer to the value by the key, inserting a zero value if the key isn't
// presented yet. The key is copied on insertion, so a transient view is fine to pass.
// The pointer stays valid only until the next insertion.
func (s *Storage[V]) Slot(key []byte) (value *V, inserted bool) {
	if i := s.indexOf(uf.B2S(key)); i != -1 {
		return &s.pairs[i].Value, false
	}

	s.pairs = append(s.pairs, Pair[V]{Key: string(key)})
	n := len(s.pairs) - 1
	if s.index != nil {
		s.index[s.pairs[n].Key] = n
	} else if len(s.pairs) > linearThreshold {
		s.reindex()
	}

	return &s.pairs[n].Value, true
}

// Get returns the value and a bool, indicating whether the value was found.
func (s *Storage[V]) Get(key string) (value V, found bool) {
	if i := s.indexOf(key); i != -1 {
		return s.pairs[i].Value, true
	}

	return value, false
}

// At returns the pair at the position in insertion order.
func (s *Storage[V]) At(i int) Pair[V] {
	return s.pairs[i]
}

// Has indicates, whether there's an entry of the key.
func (s *Storage[V]) Has(key string) bool {
	return s.indexOf(key) != -1
}

// Keys returns an iterator over keys in insertion order.
func (s *Storage[V]) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key) {
				break
			}
		}
	}
}

// Pairs returns an iterator over the pairs in insertion order.
func (s *Storage[V]) Pairs() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

// Len returns a number of stored pairs.
func (s *Storage[V]) Len() int {
	if s == nil {
		return 0
	}

	return len(s.pairs)
}

func (s *Storage[V]) indexOf(key string) int {
	if s == nil {
		return -1
	}

	if s.index != nil {
		if i, found := s.index[key]; found {
			return i
		}

		return -1
	}

	for i, pair := range s.pairs {
		if pair.Key == key {
			return i
		}
	}

	return -1
}

func (s *Storage[V]) reindex() {
	s.index = make(map[string]int, len(s.pairs))
	for i, pair := range s.pairs {
		s.index[pair.Key] = i
	}
}
