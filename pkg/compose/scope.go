package compose

import (
	"sync"
	"sync/atomic"
)

// Scope is a restartable group. State reads made while it composes
// subscribe the scope; a later write marks it dirty and the Recomposer
// re-runs only this scope's content.
type Scope struct {
	id    uint64
	rec   *Recomposer
	group *group

	// fn and frame are replaced every time the scope composes.
	fn    Composable
	frame *localFrame

	dirty    atomic.Bool
	disposed atomic.Bool

	mu      sync.Mutex
	sources []*observableBase
}

func newScope(rec *Recomposer, g *group) *Scope {
	return &Scope{id: nextID(), rec: rec, group: g}
}

// ID returns the scope's unique identifier.
func (s *Scope) ID() uint64 {
	return s.id
}

// Depth returns the depth of the scope's group in the composition tree.
func (s *Scope) Depth() int {
	return s.group.depth
}

// MarkDirty schedules the scope for recomposition. Repeated calls before the
// next pass are coalesced.
func (s *Scope) MarkDirty() {
	if s.disposed.Load() {
		return
	}
	if s.dirty.CompareAndSwap(false, true) {
		s.rec.invalidate(s)
	}
}

// Dirty reports whether the scope is waiting to recompose.
func (s *Scope) Dirty() bool {
	return s.dirty.Load()
}

// Disposed reports whether the scope left the composition.
func (s *Scope) Disposed() bool {
	return s.disposed.Load()
}

func (s *Scope) track(src *observableBase) {
	src.subscribe(s)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sources {
		if existing == src {
			return
		}
	}
	s.sources = append(s.sources, src)
}

func (s *Scope) resetSources() {
	s.mu.Lock()
	sources := s.sources
	s.sources = nil
	s.mu.Unlock()

	for _, src := range sources {
		src.unsubscribe(s)
	}
}

func (s *Scope) dispose() {
	s.disposed.Store(true)
	s.resetSources()
}

// Call runs content as a restartable scope identified by key.
func (c *Composer) Call(key any, content Composable) {
	g := c.startGroup("Call", key, kindScope)
	if g.scope == nil {
		g.scope = newScope(c.rec, g)
	}
	c.runScope(g.scope, content)
	c.endGroup("Call", kindScope)
}

// CurrentScope returns the innermost restartable scope, or nil outside a
// pass.
func (c *Composer) CurrentScope() *Scope {
	if !c.Composing() || len(c.scopes) == 0 {
		return nil
	}
	return c.scopes[len(c.scopes)-1]
}

func (c *Composer) runScope(s *Scope, content Composable) {
	s.fn = content
	s.frame = c.locals
	s.dirty.Store(false)
	s.resetSources()

	c.scopes = append(c.scopes, s)
	content(c)
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// recomposeScope re-runs a scope in place with the locals it last saw.
func (c *Composer) recomposeScope(s *Scope) {
	c.locals = s.frame
	base := c.enter(s.group)
	c.runScope(s, s.fn)
	c.closeBase(base)
}
