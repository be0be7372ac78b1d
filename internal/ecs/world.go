package ecs

import "reflect"

// World owns the entity pool, one store per component type and a queue of
// entities to destroy at the end of the update phase.
type World struct {
	pool         *EntityPool
	stores       map[reflect.Type]Removable
	order        []Removable
	destroyQueue []EntityID
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		stores:       make(map[reflect.Type]Removable),
		destroyQueue: make([]EntityID, 0, 16),
	}
}

// Components returns the store for T, creating it on first use.
func Components[T any](w *World) *Store[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()
	if s, ok := w.stores[key]; ok {
		return s.(*Store[T])
	}
	s := NewStore[T]()
	w.stores[key] = s
	w.order = append(w.order, s)
	return s
}

// Add attaches c to id. Shorthand for Components[T](w).Set(id, &c).
// Entities that are not alive are ignored.
func Add[T any](w *World, id EntityID, c T) {
	if !w.pool.Alive(id) {
		return
	}
	Components[T](w).Set(id, &c)
}

// Create returns a new entity with no components.
func (w *World) Create() EntityID {
	return w.pool.Create()
}

// Alive reports whether id refers to a live entity.
func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.pool.Len()
}

// Destroy queues id for destruction. The entity stays alive, and keeps its
// components, until FlushDestroyQueue.
func (w *World) Destroy(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending returns the number of queued destructions.
func (w *World) Pending() int {
	return len(w.destroyQueue)
}

// FlushDestroyQueue removes the components of every queued entity, in store
// creation order, and frees their IDs. Stale or duplicate entries are skipped.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.destroyQueue {
		if !w.pool.Alive(id) {
			continue
		}
		for _, s := range w.order {
			s.Remove(id)
		}
		w.pool.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}
