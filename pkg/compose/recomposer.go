package compose

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Recomposer owns a Composer and drives its passes. Compose runs a full
// pass from the root; Recompose re-runs the scopes invalidated since.
type Recomposer struct {
	c        *Composer
	logger   *slog.Logger
	observer Observer

	ctx    context.Context
	cancel context.CancelFunc

	// passMu serialises passes and disposal.
	passMu sync.Mutex

	mu       sync.Mutex
	dirty    map[*Scope]struct{}
	signal   chan struct{}
	disposed bool
}

// NewRecomposer creates a Recomposer and its Composer.
func NewRecomposer(opts ...Option) *Recomposer {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if o.ctx == nil {
		o.ctx = context.Background()
	}

	r := &Recomposer{
		logger:   o.logger,
		observer: o.observer,
		dirty:    make(map[*Scope]struct{}),
		signal:   make(chan struct{}, 1),
	}
	r.ctx, r.cancel = context.WithCancel(o.ctx)

	c := &Composer{
		mode:     o.mode,
		logger:   o.logger,
		rec:      r,
		base:     baseFrame(o.locals),
		saveable: make(map[string][]saveEntry),
		restored: o.restored,
	}
	c.root = &group{kind: kindRoot}
	c.root.scope = newScope(r, c.root)
	r.c = c
	return r
}

// Composer returns the composer driven by r.
func (r *Recomposer) Composer() *Composer {
	return r.c
}

// Compose runs a full pass of root. Slots from earlier passes are reused.
// Effects queued by the pass are applied before Compose returns.
func (r *Recomposer) Compose(root Composable) error {
	r.passMu.Lock()
	defer r.passMu.Unlock()
	if r.isDisposed() {
		return ErrDisposed
	}

	start := time.Now()
	err := r.c.runPass(func() { r.c.composeRoot(root) })
	r.c.applyEffects()
	if err != nil {
		r.logger.Error("composition failed", "mode", r.c.mode, "error", err)
	}
	r.observer.PassCompleted(PassStats{Kind: PassCompose, Scopes: 1, Duration: time.Since(start), Err: err})
	return err
}

// Recompose re-runs every dirty scope, ancestors before descendants. Scopes
// already recomposed as part of an ancestor and disposed scopes are
// skipped. A failing scope does not stop the others; their errors are
// joined. It returns the number of scopes recomposed successfully.
func (r *Recomposer) Recompose() (int, error) {
	r.passMu.Lock()
	defer r.passMu.Unlock()
	if r.isDisposed() {
		return 0, ErrDisposed
	}

	start := time.Now()
	var (
		errs []error
		n    int
	)
	for _, s := range r.drain() {
		if s.Disposed() || !s.Dirty() {
			continue
		}
		if err := r.c.runPass(func() { r.c.recomposeScope(s) }); err != nil {
			r.logger.Error("recomposition failed", "scope", s.id, "depth", s.Depth(), "error", err)
			errs = append(errs, err)
			continue
		}
		n++
	}
	r.c.applyEffects()

	err := errors.Join(errs...)
	r.observer.PassCompleted(PassStats{Kind: PassRecompose, Scopes: n, Duration: time.Since(start), Err: err})
	return n, err
}

// Pending reports whether any scope is waiting to recompose.
func (r *Recomposer) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dirty) > 0
}

// Dirty returns a channel that receives after a scope is invalidated. Live
// hosts select on it and call Recompose.
func (r *Recomposer) Dirty() <-chan struct{} {
	return r.signal
}

// Nodes returns the emitted node tree of the last pass.
func (r *Recomposer) Nodes() []*NodeRef {
	r.passMu.Lock()
	defer r.passMu.Unlock()
	return r.c.Nodes()
}

// Snapshot returns the flattened slot table.
func (r *Recomposer) Snapshot() []SlotEntry {
	r.passMu.Lock()
	defer r.passMu.Unlock()
	return r.c.Snapshot()
}

// SaveableState returns the current values of every saveable state.
func (r *Recomposer) SaveableState() map[string]any {
	return r.c.SaveableState()
}

// Dispose removes the whole composition: every effect is cleaned up and
// every launched body is cancelled and awaited.
func (r *Recomposer) Dispose() {
	r.passMu.Lock()
	defer r.passMu.Unlock()

	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	r.disposed = true
	r.dirty = make(map[*Scope]struct{})
	r.mu.Unlock()

	r.c.root.dispose(r.c)
	r.c.applyEffects()
	r.cancel()
}

func (r *Recomposer) isDisposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

// invalidate adds s to the dirty set and wakes the host.
func (r *Recomposer) invalidate(s *Scope) {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	r.dirty[s] = struct{}{}
	r.mu.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}
}

// drain empties the dirty set and returns its scopes ordered by depth,
// then by creation.
func (r *Recomposer) drain() []*Scope {
	r.mu.Lock()
	scopes := make([]*Scope, 0, len(r.dirty))
	for s := range r.dirty {
		scopes = append(scopes, s)
	}
	r.dirty = make(map[*Scope]struct{})
	r.mu.Unlock()

	sort.Slice(scopes, func(i, j int) bool {
		if di, dj := scopes[i].Depth(), scopes[j].Depth(); di != dj {
			return di < dj
		}
		return scopes[i].id < scopes[j].id
	})
	return scopes
}
