package ecs

import "sort"

// Removable is implemented by every component store so the world can drop an
// entity's data from all stores on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store holds components of one type keyed by entity.
// Iteration is in ascending entity ID order.
type Store[T any] struct {
	data map[EntityID]*T
	ids  []EntityID // sorted

	// OnRemove, when set, is called with the component before it is dropped.
	OnRemove func(EntityID, *T)
}

// NewStore returns an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{data: make(map[EntityID]*T, 64)}
}

// Set attaches c to id. A previous component is handed to OnRemove unless it
// is c itself.
func (s *Store[T]) Set(id EntityID, c *T) {
	old, ok := s.data[id]
	switch {
	case !ok:
		i := s.search(id)
		s.ids = append(s.ids, 0)
		copy(s.ids[i+1:], s.ids[i:])
		s.ids[i] = id
	case old != c && s.OnRemove != nil:
		s.OnRemove(id, old)
	}
	s.data[id] = c
}

// Get returns the component of id.
func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

// Has reports whether id has a component in this store.
func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

// Remove detaches the component of id, calling OnRemove first.
func (s *Store[T]) Remove(id EntityID) {
	c, ok := s.data[id]
	if !ok {
		return
	}
	if s.OnRemove != nil {
		s.OnRemove(id, c)
	}
	delete(s.data, id)
	i := s.search(id)
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
}

// Len returns the number of components.
func (s *Store[T]) Len() int {
	return len(s.ids)
}

// First returns the component with the lowest entity ID.
func (s *Store[T]) First() (EntityID, *T, bool) {
	if len(s.ids) == 0 {
		return 0, nil, false
	}
	id := s.ids[0]
	return id, s.data[id], true
}

// Each calls fn for every component in ascending entity ID order.
// fn must not add or remove components of this store.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.ids {
		fn(id, s.data[id])
	}
}

func (s *Store[T]) search(id EntityID) int {
	return sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
}
