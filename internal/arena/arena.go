// Package arena provides a generic slot arena addressed by
// generation-checked handles.
//
// A Handle stays valid until its slot is removed. Removing a slot bumps the
// slot generation, so every outstanding Handle to it resolves as missing
// even after the slot is reused for a new value.
//
//	a := arena.New[*Texture]()
//	h := a.Add(tex)
//	t, ok := a.Get(h) // tex, true
//	a.Remove(h)
//	t, ok = a.Get(h) // nil, false
//
// Arena is safe for concurrent use. Lookups take a read lock, so it can be
// shared by tile workers during a frame.
package arena

import (
	"fmt"
	"sync"
)

// Handle identifies a value stored in an Arena. The zero Handle is never
// valid.
type Handle struct {
	index uint32
	gen   uint32
}

// Nil is the zero Handle.
var Nil Handle

// IsNil reports whether h is the zero Handle.
func (h Handle) IsNil() bool {
	return h.gen == 0
}

// String returns the handle as "index:generation".
func (h Handle) String() string {
	if h.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("%d:%d", h.index, h.gen)
}

type slot[V any] struct {
	value V
	gen   uint32 // even: free, odd: occupied
}

// Arena stores values in reusable slots.
//
// Arena must not be copied after creation (has mutex).
type Arena[V any] struct {
	mu    sync.RWMutex
	slots []slot[V]
	free  []uint32
	live  int
}

// New creates an empty arena.
func New[V any]() *Arena[V] {
	return &Arena[V]{}
}

// Add stores v and returns its handle.
func (a *Arena[V]) Add(v V) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[V]{})
	}
	s := &a.slots[idx]
	s.gen++
	s.value = v
	a.live++
	return Handle{index: idx, gen: s.gen}
}

// Get returns the value for h. Returns (zero, false) for stale or invalid
// handles.
func (a *Arena[V]) Get(h Handle) (V, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.validLocked(h) {
		var zero V
		return zero, false
	}
	return a.slots[h.index].value, true
}

// Set replaces the value for h. Returns false for stale or invalid handles.
func (a *Arena[V]) Set(h Handle, v V) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.validLocked(h) {
		return false
	}
	a.slots[h.index].value = v
	return true
}

// Remove frees the slot of h. Returns false if h was already stale.
func (a *Arena[V]) Remove(h Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.validLocked(h) {
		return false
	}
	s := &a.slots[h.index]
	var zero V
	s.value = zero
	s.gen++
	a.free = append(a.free, h.index)
	a.live--
	return true
}

// Contains reports whether h refers to a live value.
func (a *Arena[V]) Contains(h Handle) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.validLocked(h)
}

// Len returns the number of live values.
func (a *Arena[V]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.live
}

// Clear removes every value and invalidates all handles.
func (a *Arena[V]) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	var zero V
	a.free = a.free[:0]
	for i := range a.slots {
		s := &a.slots[i]
		if s.gen%2 == 1 {
			s.gen++
		}
		s.value = zero
		a.free = append(a.free, uint32(i))
	}
	a.live = 0
}

// ForEach calls fn for every live value in slot order.
// fn must not modify the arena.
func (a *Arena[V]) ForEach(fn func(h Handle, v V)) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for i, s := range a.slots {
		if s.gen%2 == 1 {
			fn(Handle{index: uint32(i), gen: s.gen}, s.value)
		}
	}
}

// validLocked reports whether h refers to a live slot. Caller must hold a.mu.
func (a *Arena[V]) validLocked(h Handle) bool {
	if h.IsNil() || int(h.index) >= len(a.slots) {
		return false
	}
	s := a.slots[h.index]
	return s.gen == h.gen && s.gen%2 == 1
}
