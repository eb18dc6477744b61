// Package pool provides a fixed-capacity object pool backed by an arena.
//
// Entities live in a contiguous slice and are addressed by a stable Handle.
// The pool only tracks whether each entry is in use; it never grows.
package pool

import "errors"

var (
	// ErrInvalidHandle is returned for a handle the pool never issued
	ErrInvalidHandle = errors.New("pool: invalid handle")
	// ErrNotInUse is returned when releasing an entry that is already free
	ErrNotInUse = errors.New("pool: entity not in use")
)

// Handle is the stable index of a pool entry
type Handle int

// NoHandle is the zero value callers can use for "no entity"
const NoHandle Handle = -1

type entry[T any] struct {
	item  T
	inUse bool
}

// Pool hands out and reclaims a fixed set of entities
type Pool[T any] struct {
	entries []entry[T]
}

// New creates an empty pool with room for capacity entries
func New[T any](capacity int) *Pool[T] {
	return &Pool[T]{entries: make([]entry[T], 0, capacity)}
}

// Add registers an entity as available and returns its handle
func (p *Pool[T]) Add(item T) Handle {
	p.entries = append(p.entries, entry[T]{item: item})
	return Handle(len(p.entries) - 1)
}

// RequestObject marks the first free entry as in use and returns it.
// It returns false when every entry is in use.
func (p *Pool[T]) RequestObject() (Handle, bool) {
	for i := range p.entries {
		if !p.entries[i].inUse {
			p.entries[i].inUse = true
			return Handle(i), true
		}
	}
	return NoHandle, false
}

// Release returns an entry to the pool
func (p *Pool[T]) Release(h Handle) error {
	if !p.valid(h) {
		return ErrInvalidHandle
	}
	if !p.entries[h].inUse {
		return ErrNotInUse
	}
	p.entries[h].inUse = false
	return nil
}

// ReleaseAll returns every entry to the pool
func (p *Pool[T]) ReleaseAll() {
	for i := range p.entries {
		p.entries[i].inUse = false
	}
}

// Get returns the entity behind h, or nil for an invalid handle
func (p *Pool[T]) Get(h Handle) *T {
	if !p.valid(h) {
		return nil
	}
	return &p.entries[h].item
}

// InUse reports whether h is currently handed out
func (p *Pool[T]) InUse(h Handle) bool {
	return p.valid(h) && p.entries[h].inUse
}

// Cap returns the number of registered entities
func (p *Pool[T]) Cap() int {
	return len(p.entries)
}

// InUseCount returns the number of entries handed out
func (p *Pool[T]) InUseCount() int {
	n := 0
	for i := range p.entries {
		if p.entries[i].inUse {
			n++
		}
	}
	return n
}

// Each calls fn for every in-use entry in handle order
func (p *Pool[T]) Each(fn func(Handle, *T)) {
	for i := range p.entries {
		if p.entries[i].inUse {
			fn(Handle(i), &p.entries[i].item)
		}
	}
}

func (p *Pool[T]) valid(h Handle) bool {
	return h >= 0 && int(h) < len(p.entries)
}
