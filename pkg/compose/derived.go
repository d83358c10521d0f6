package compose

import "sync"

// DerivedState is a cached computation over other observables. It
// recomputes only after an upstream value changed and notifies its own
// subscribers only when the result differs from the previous one.
//
// With subscribers a derived state recomputes as soon as an upstream
// changes; without subscribers it is invalidated and recomputes on the next
// Get.
type DerivedState[T any] struct {
	base observableBase
	calc func(t Tracker) T

	mu        sync.Mutex
	value     T
	hasValue  bool
	valid     bool
	computing bool
	sources   []*observableBase
	equal     func(a, b T) bool
}

// Derive creates a derived state. The calculation must read its inputs
// through the Tracker it receives.
func Derive[T any](calc func(t Tracker) T) *DerivedState[T] {
	return &DerivedState[T]{
		base: observableBase{id: nextID()},
		calc: calc,
	}
}

// RememberDerived remembers a derived state at the current position. It
// unsubscribes from its inputs when the slot leaves the composition.
func RememberDerived[T any](c *Composer, calc func(t Tracker) T) *DerivedState[T] {
	return Remember(c, func() *DerivedState[T] { return Derive(calc) })
}

// WithEquality replaces the equality used to decide whether a recomputed
// value is a change.
func (d *DerivedState[T]) WithEquality(fn func(a, b T) bool) *DerivedState[T] {
	d.equal = fn
	return d
}

// Get returns the derived value, recomputing it if an upstream changed
// since the last computation.
func (d *DerivedState[T]) Get(t Tracker) T {
	if t != nil {
		t.RecordRead(d)
	}

	d.mu.Lock()
	if d.valid {
		v := d.value
		d.mu.Unlock()
		return v
	}
	d.mu.Unlock()

	d.recompute()

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Peek returns the derived value without recording a read.
func (d *DerivedState[T]) Peek() T {
	return d.Get(nil)
}

// MarkDirty is called by upstream observables when they change.
func (d *DerivedState[T]) MarkDirty() {
	if !d.base.hasSubscribers() {
		d.mu.Lock()
		d.valid = false
		d.mu.Unlock()
		return
	}
	if d.recompute() {
		d.base.notify()
	}
}

// ID returns the derived state's unique identifier.
func (d *DerivedState[T]) ID() uint64 {
	return d.base.id
}

func (d *DerivedState[T]) observers() *observableBase {
	return &d.base
}

// OnForgotten detaches the derived state from its inputs.
func (d *DerivedState[T]) OnForgotten() {
	d.mu.Lock()
	sources := d.sources
	d.sources = nil
	d.valid = false
	d.mu.Unlock()

	for _, src := range sources {
		src.unsubscribe(d)
	}
}

// recompute runs the calculation with a fresh set of inputs and reports
// whether the value changed.
func (d *DerivedState[T]) recompute() bool {
	d.mu.Lock()
	if d.computing {
		d.mu.Unlock()
		return false
	}
	d.computing = true
	old := d.sources
	d.sources = nil
	d.mu.Unlock()

	for _, src := range old {
		src.unsubscribe(d)
	}

	tr := &derivedTracker{listener: d}
	v := d.calc(tr)

	d.mu.Lock()
	defer d.mu.Unlock()
	changed := !d.hasValue || !d.equals(d.value, v)
	d.value = v
	d.hasValue = true
	d.valid = true
	d.computing = false
	d.sources = tr.sources
	return changed
}

func (d *DerivedState[T]) equals(a, b T) bool {
	if d.equal != nil {
		return d.equal(a, b)
	}
	return defaultEquals(a, b)
}

// derivedTracker subscribes a derived state to everything its calculation
// reads.
type derivedTracker struct {
	listener Listener
	sources  []*observableBase
}

func (t *derivedTracker) RecordRead(o Observable) {
	src := o.observers()
	src.subscribe(t.listener)
	for _, existing := range t.sources {
		if existing == src {
			return
		}
	}
	t.sources = append(t.sources, src)
}
