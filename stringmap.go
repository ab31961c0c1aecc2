package dictomaton

import (
	"iter"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Map is an immutable map from strings to values. Keys are stored in a
// PerfectHashDictionary and values in an array indexed by key rank.
type Map[V any] struct {
	keys   *PerfectHashDictionary
	values []V
}

// StringIntMap maps strings to ints.
type StringIntMap = Map[int]

// ContainsKey reports whether key is in the map.
func (m *Map[V]) ContainsKey(key string) bool {
	return m.keys.Contains(key)
}

// Get returns the value for key, or a *NotFoundError.
func (m *Map[V]) Get(key string) (V, error) {
	r, err := m.keys.Rank(key)
	if err != nil {
		var zero V
		return zero, err
	}
	return m.values[r], nil
}

// GetOrElse returns the value for key, or def if key is not in the map.
func (m *Map[V]) GetOrElse(key string, def V) V {
	if r, err := m.keys.Rank(key); err == nil {
		return m.values[r]
	}
	return def
}

// Size returns the number of keys.
func (m *Map[V]) Size() int {
	return len(m.values)
}

// Keys yields the keys in ascending order.
func (m *Map[V]) Keys() iter.Seq[string] {
	return m.keys.All()
}

// All yields the entries in ascending key order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		i := 0
		for key := range m.keys.All() {
			if !yield(key, m.values[i]) {
				return
			}
			i++
		}
	}
}

// Dictionary returns the key set.
func (m *Map[V]) Dictionary() *PerfectHashDictionary {
	return m.keys
}

// MapBuilder collects entries in any order. Putting a key twice keeps the
// last value.
type MapBuilder[V any] struct {
	entries map[string]V
}

// NewMapBuilder creates an empty MapBuilder.
func NewMapBuilder[V any]() *MapBuilder[V] {
	return &MapBuilder[V]{entries: make(map[string]V)}
}

// Put adds an entry.
func (b *MapBuilder[V]) Put(key string, value V) *MapBuilder[V] {
	b.entries[key] = value
	return b
}

// PutAll adds all entries of m.
func (b *MapBuilder[V]) PutAll(m map[string]V) *MapBuilder[V] {
	for key, value := range m {
		b.entries[key] = value
	}
	return b
}

// Build sorts the collected keys and builds the map. The builder may be
// reused afterwards.
func (b *MapBuilder[V]) Build() (*Map[V], error) {
	keys := maps.Keys(b.entries)
	slices.Sort(keys)
	ob := NewOrderedMapBuilder[V]()
	for _, key := range keys {
		if err := ob.Put(key, b.entries[key]); err != nil {
			return nil, err
		}
	}
	return ob.Build()
}

// OrderedMapBuilder streams entries into a Builder. Keys must be put in
// strictly increasing order.
type OrderedMapBuilder[V any] struct {
	builder *Builder
	values  []V
}

// NewOrderedMapBuilder creates an empty OrderedMapBuilder.
func NewOrderedMapBuilder[V any]() *OrderedMapBuilder[V] {
	return &OrderedMapBuilder[V]{builder: New()}
}

// Put adds an entry. It fails with an *OutOfOrderError if key is not greater
// than the previous key, and with ErrFinalized after Build.
func (b *OrderedMapBuilder[V]) Put(key string, value V) error {
	if err := b.builder.Add(key); err != nil {
		return err
	}
	b.values = append(b.values, value)
	return nil
}

// PutAll adds entries in sequence order and stops at the first error.
func (b *OrderedMapBuilder[V]) PutAll(entries iter.Seq2[string, V]) error {
	for key, value := range entries {
		if err := b.Put(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Build finalizes the builder and returns the map.
func (b *OrderedMapBuilder[V]) Build() (*Map[V], error) {
	return &Map[V]{keys: b.builder.BuildPerfectHash(), values: b.values}, nil
}
