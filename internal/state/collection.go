package state

import "encoding/json"

// Collection is a named, ordered, key-unique group of entities of one kind.
// It has value semantics: mutators return the updated collection, so a caller
// that wants the change visible in the state manager has no choice but to
// re-store the returned value. Overwriting an existing key keeps the entry's
// original position; new keys append in insertion order.
type Collection[T any] struct {
	name  string
	keys  []string
	items map[string]T
}

// NewCollection constructs an empty collection with the given name.
func NewCollection[T any](name string) Collection[T] {
	return Collection[T]{
		name:  name,
		items: make(map[string]T),
	}
}

// Name returns the collection name.
func (c Collection[T]) Name() string { return c.name }

// Count returns the number of entities in the collection.
func (c Collection[T]) Count() int { return len(c.keys) }

// Get returns the entity stored under key.
func (c Collection[T]) Get(key string) (T, bool) {
	item, ok := c.items[key]
	return item, ok
}

// Keys returns the entity keys in insertion order.
func (c Collection[T]) Keys() []string {
	return append([]string(nil), c.keys...)
}

// All returns the entities in insertion order. The returned slice is a
// snapshot; later mutations of the collection do not affect it.
func (c Collection[T]) All() []T {
	out := make([]T, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.items[k])
	}
	return out
}

// Add returns a collection with the entity inserted or overwritten under key.
func (c Collection[T]) Add(key string, item T) Collection[T] {
	next := c.clone()
	if _, exists := next.items[key]; !exists {
		next.keys = append(next.keys, key)
	}
	next.items[key] = item
	return next
}

// Remove returns a collection without key and whether the key was present.
func (c Collection[T]) Remove(key string) (Collection[T], bool) {
	if _, exists := c.items[key]; !exists {
		return c, false
	}
	next := c.clone()
	delete(next.items, key)
	for i, k := range next.keys {
		if k == key {
			next.keys = append(next.keys[:i], next.keys[i+1:]...)
			break
		}
	}
	return next, true
}

func (c Collection[T]) clone() Collection[T] {
	cp := Collection[T]{
		name:  c.name,
		keys:  append([]string(nil), c.keys...),
		items: make(map[string]T, len(c.items)),
	}
	for k, v := range c.items {
		cp.items[k] = v
	}
	return cp
}

type collectionEntry[T any] struct {
	Key   string `json:"key"`
	Value T      `json:"value"`
}

type collectionJSON[T any] struct {
	Name    string               `json:"name"`
	Entries []collectionEntry[T] `json:"entries"`
}

// MarshalJSON serialises the collection as an ordered entry list so insertion
// order survives the round trip through the state manager.
func (c Collection[T]) MarshalJSON() ([]byte, error) {
	doc := collectionJSON[T]{
		Name:    c.name,
		Entries: make([]collectionEntry[T], 0, len(c.keys)),
	}
	for _, k := range c.keys {
		doc.Entries = append(doc.Entries, collectionEntry[T]{Key: k, Value: c.items[k]})
	}
	return json.Marshal(doc)
}

// UnmarshalJSON restores a collection from its ordered entry list.
func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	var doc collectionJSON[T]
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	restored := NewCollection[T](doc.Name)
	for _, e := range doc.Entries {
		if _, exists := restored.items[e.Key]; !exists {
			restored.keys = append(restored.keys, e.Key)
		}
		restored.items[e.Key] = e.Value
	}
	*c = restored
	return nil
}
