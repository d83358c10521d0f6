package compose

import (
	"fmt"
	"sync"
)

// observableBase provides type-erased subscriber management shared by State
// and DerivedState.
type observableBase struct {
	id uint64

	mu   sync.RWMutex
	subs []Listener
}

// subscribe adds a listener, deduplicated by ID.
func (o *observableBase) subscribe(l Listener) {
	if l == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	lid := l.ID()
	for _, existing := range o.subs {
		if existing.ID() == lid {
			return
		}
	}
	o.subs = append(o.subs, l)
}

func (o *observableBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	lid := l.ID()
	for i, existing := range o.subs {
		if existing.ID() == lid {
			o.subs[i] = o.subs[len(o.subs)-1]
			o.subs = o.subs[:len(o.subs)-1]
			return
		}
	}
}

func (o *observableBase) hasSubscribers() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs) > 0
}

// notify marks every subscriber dirty. The subscriber list is copied so no
// lock is held while listeners run.
func (o *observableBase) notify() {
	o.mu.RLock()
	subs := make([]Listener, len(o.subs))
	copy(subs, o.subs)
	o.mu.RUnlock()

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// State is an observable value container. Reading it with an active
// Composer subscribes the innermost restartable scope; writing an unequal
// value marks subscribed scopes dirty.
type State[T any] struct {
	base observableBase

	mu    sync.RWMutex
	value T
	equal func(a, b T) bool

	// owner is the composer that remembered this state, if any.
	owner *Composer
}

// NewState creates a state holding initial.
func NewState[T any](initial T) *State[T] {
	return &State[T]{
		base:  observableBase{id: nextID()},
		value: initial,
	}
}

// RememberState returns a state created on the first pass and found again
// at the same position on later passes.
func RememberState[T any](c *Composer, initial T) *State[T] {
	f, idx, fresh := c.claim("RememberState", SlotState)
	if !fresh {
		return slotValue[*State[T]](c, "RememberState", f.g.slots[idx])
	}
	s := NewState(initial)
	s.owner = c
	f.g.slots[idx] = Slot{Kind: SlotState, Value: s}
	return s
}

// WithEquality replaces the equality used to decide whether a write is a
// change.
func (s *State[T]) WithEquality(fn func(a, b T) bool) *State[T] {
	s.equal = fn
	return s
}

// Get returns the current value and records the read with t. A nil Tracker
// reads without subscribing.
func (s *State[T]) Get(t Tracker) T {
	s.mu.RLock()
	v := s.value
	s.mu.RUnlock()

	if t != nil {
		t.RecordRead(s)
	}
	return v
}

// Peek returns the current value without recording a read.
func (s *State[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and notifies subscribers if it differs from the current
// value.
func (s *State[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.changed()
	}
}

// Update atomically replaces the value with fn(current).
func (s *State[T]) Update(fn func(T) T) {
	s.mu.Lock()
	old := s.value
	next := fn(old)
	changed := !s.equals(old, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()

	if changed {
		s.changed()
	}
}

func (s *State[T]) changed() {
	if s.owner != nil {
		s.owner.RecordWrite(s)
	}
	s.base.notify()
}

// ID returns the state's unique identifier.
func (s *State[T]) ID() uint64 {
	return s.base.id
}

func (s *State[T]) observers() *observableBase {
	return &s.base
}

func (s *State[T]) String() string {
	return fmt.Sprintf("State(%v)", s.Peek())
}

func (s *State[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}
