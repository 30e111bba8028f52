// Package mirror keeps an in-memory, ordered copy of a remote collection.
//
// A Mirror is a value: every mutation returns a new Mirror and leaves the
// receiver untouched, so a page state holding one can be compared and
// replayed. Mutations are meant to be applied only after the server has
// confirmed the corresponding call.
package mirror

import "github.com/dukerupert/shoplist/internal/model"

// Entity is a record with a server-assigned identifier. WithID returns a copy
// carrying id.
type Entity[T any] interface {
	EntityID() string
	WithID(id string) T
}

type Mirror[T Entity[T]] struct {
	items []T
}

func New[T Entity[T]](items ...T) Mirror[T] {
	return Mirror[T]{}.Load(items)
}

// Load replaces the contents wholesale, keeping the given order.
func (m Mirror[T]) Load(items []T) Mirror[T] {
	out := make([]T, len(items))
	copy(out, items)
	return Mirror[T]{items: out}
}

// Append adds item at the end.
func (m Mirror[T]) Append(item T) Mirror[T] {
	out := make([]T, len(m.items), len(m.items)+1)
	copy(out, m.items)
	return Mirror[T]{items: append(out, item)}
}

// Replace substitutes the record whose id matches. The stored identifier is
// kept whatever id the replacement carries. Unknown ids are a no-op.
func (m Mirror[T]) Replace(id string, item T) Mirror[T] {
	i := m.index(id)
	if i < 0 {
		return m
	}
	out := m.clone()
	out.items[i] = item.WithID(m.items[i].EntityID())
	return out
}

// Update applies fn to the record whose id matches. Unknown ids are a no-op.
func (m Mirror[T]) Update(id string, fn func(T) T) Mirror[T] {
	i := m.index(id)
	if i < 0 {
		return m
	}
	return m.Replace(id, fn(m.items[i]))
}

// RemoveByID drops the record whose id matches. Unknown ids are a no-op.
func (m Mirror[T]) RemoveByID(id string) Mirror[T] {
	i := m.index(id)
	if i < 0 {
		return m
	}
	out := make([]T, 0, len(m.items)-1)
	out = append(out, m.items[:i]...)
	out = append(out, m.items[i+1:]...)
	return Mirror[T]{items: out}
}

func (m Mirror[T]) Find(id string) (T, bool) {
	if i := m.index(id); i >= 0 {
		return m.items[i], true
	}
	var zero T
	return zero, false
}

func (m Mirror[T]) Contains(id string) bool { return m.index(id) >= 0 }

func (m Mirror[T]) Len() int { return len(m.items) }

// Items returns a copy of the records in mirror order.
func (m Mirror[T]) Items() []T {
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

func (m Mirror[T]) index(id string) int {
	for i, it := range m.items {
		if model.SameID(it.EntityID(), id) {
			return i
		}
	}
	return -1
}

func (m Mirror[T]) clone() Mirror[T] {
	return m.Load(m.items)
}
