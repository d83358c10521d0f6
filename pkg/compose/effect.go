package compose

import (
	"context"
	"fmt"
	"sync/atomic"
)

// EffectState is the lifecycle state of an effect site.
type EffectState uint32

const (
	EffectUnmounted EffectState = iota
	EffectMounted
	EffectRestarting
	EffectDisposed
)

func (s EffectState) String() string {
	switch s {
	case EffectUnmounted:
		return "unmounted"
	case EffectMounted:
		return "mounted"
	case EffectRestarting:
		return "restarting"
	case EffectDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("EffectState(%d)", uint32(s))
	}
}

// EffectTarget selects the execution modes an effect runs in.
type EffectTarget uint8

const (
	// TargetAlways runs in every mode. It is the default.
	TargetAlways EffectTarget = iota
	// TargetServer runs only in ModeServer.
	TargetServer
	// TargetClient runs only in ModeClient.
	TargetClient
)

func (t EffectTarget) allows(m Mode) bool {
	switch t {
	case TargetServer:
		return m == ModeServer
	case TargetClient:
		return m == ModeClient
	default:
		return true
	}
}

type effectConfig struct {
	target EffectTarget
}

// EffectOption configures an effect.
type EffectOption func(*effectConfig)

// RunOn restricts an effect to the given target.
func RunOn(t EffectTarget) EffectOption {
	return func(c *effectConfig) { c.target = t }
}

func effectOptions(opts []EffectOption) effectConfig {
	var cfg effectConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Effect is a handle to an effect site, useful for inspecting its state.
type Effect struct {
	site *effectSite
}

// State returns the site's lifecycle state.
func (e Effect) State() EffectState {
	if e.site == nil {
		return EffectUnmounted
	}
	return e.site.State()
}

// effectSite is the slot occupant for LaunchedEffect and DisposableEffect.
// Its fields other than state are touched only by the goroutine driving the
// composition.
type effectSite struct {
	id uint64
	c  *Composer

	keys   []any
	launch func(ctx context.Context)
	setup  func() Cleanup

	state atomic.Uint32

	cleanup Cleanup
	cancel  context.CancelFunc
	done    chan struct{}
}

func (s *effectSite) State() EffectState {
	return EffectState(s.state.Load())
}

func (s *effectSite) start(keys []any) {
	s.keys = keys
	s.state.Store(uint32(EffectMounted))

	if s.launch != nil {
		ctx, cancel := context.WithCancel(s.c.rec.ctx)
		done := make(chan struct{})
		s.cancel, s.done = cancel, done
		body := s.launch
		go func() {
			defer close(done)
			defer func() {
				if r := recover(); r != nil {
					s.fail("launch", "E022", r)
				}
			}()
			body(ctx)
		}()
		return
	}

	if s.setup != nil {
		defer func() {
			if r := recover(); r != nil {
				s.fail("setup", "E020", r)
			}
		}()
		s.cleanup = s.setup()
	}
}

// stop cancels a launched body and waits for it to return, or runs the
// disposable cleanup.
func (s *effectSite) stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
		s.cancel, s.done = nil, nil
	}
	if cleanup := s.cleanup; cleanup != nil {
		s.cleanup = nil
		defer func() {
			if r := recover(); r != nil {
				s.fail("cleanup", "E021", r)
			}
		}()
		cleanup()
	}
}

func (s *effectSite) restart(keys []any) {
	if !s.state.CompareAndSwap(uint32(EffectMounted), uint32(EffectRestarting)) {
		// A launched body failed after the site was visited.
		s.stop()
		return
	}
	s.stop()
	if s.State() == EffectDisposed {
		return
	}
	s.start(keys)
}

func (s *effectSite) dispose() {
	s.state.Store(uint32(EffectDisposed))
	s.stop()
}

func (s *effectSite) fail(phase, code string, r any) {
	s.state.Store(uint32(EffectDisposed))
	err := newEffectError(code, phase, s.id, r)
	s.c.logger.Error("effect failed", "site", s.id, "phase", phase, "error", err)
	s.c.rec.observer.EffectFailed(err)
}

type pendingEffect struct {
	site    *effectSite
	keys    []any
	restart bool
}

// effectQueue collects effect work during a pass. It is applied once the
// pass has completed.
type effectQueue struct {
	disposals []*effectSite
	setups    []pendingEffect
	sides     []func()
}

type queueMark struct {
	setups, sides int
}

func (q *effectQueue) mark() queueMark {
	return queueMark{setups: len(q.setups), sides: len(q.sides)}
}

// truncate drops setups and side effects queued after m. Disposals are
// kept: the groups they belonged to are already gone.
func (q *effectQueue) truncate(m queueMark) {
	clear(q.setups[m.setups:])
	q.setups = q.setups[:m.setups]
	clear(q.sides[m.sides:])
	q.sides = q.sides[:m.sides]
}

func (c *Composer) queueDispose(site *effectSite) {
	c.effects.disposals = append(c.effects.disposals, site)
}

// applyEffects runs cleanups of removed sites, then restarts and setups in
// composition order, then side effects.
func (c *Composer) applyEffects() {
	q := c.effects
	c.effects = effectQueue{}

	for _, site := range q.disposals {
		site.dispose()
	}
	for _, p := range q.setups {
		switch st := p.site.State(); {
		case st == EffectDisposed:
		case p.restart:
			p.site.restart(p.keys)
		case st == EffectUnmounted:
			p.site.start(p.keys)
		}
	}
	for _, fn := range q.sides {
		c.runSideEffect(fn)
	}
}

func (c *Composer) runSideEffect(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := newEffectError("E020", "side", 0, r)
			c.logger.Error("side effect failed", "error", err)
			c.rec.observer.EffectFailed(err)
		}
	}()
	fn()
}

// visitEffect consumes the effect slot at the current position and queues
// a setup or restart when needed.
func (c *Composer) visitEffect(op string, keys []any, cfg effectConfig, assign func(*effectSite)) *effectSite {
	f, idx, fresh := c.claim(op, SlotEffect)
	var site *effectSite
	if fresh {
		site = &effectSite{id: nextID(), c: c}
		f.g.slots[idx] = Slot{Kind: SlotEffect, Value: site}
	} else {
		site = slotValue[*effectSite](c, op, f.g.slots[idx])
	}
	assign(site)

	if !cfg.target.allows(c.mode) {
		return site
	}
	switch site.State() {
	case EffectUnmounted:
		c.effects.setups = append(c.effects.setups, pendingEffect{site: site, keys: copyKeys(keys)})
	case EffectMounted:
		if !keysEqual(site.keys, keys) {
			c.effects.setups = append(c.effects.setups, pendingEffect{site: site, keys: copyKeys(keys), restart: true})
		}
	}
	return site
}

func copyKeys(keys []any) []any {
	if keys == nil {
		return nil
	}
	out := make([]any, len(keys))
	copy(out, keys)
	return out
}

// LaunchedEffect starts body in its own goroutine after the pass that first
// reaches it. When keys change the running body is cancelled and restarted;
// when the effect leaves the composition it is cancelled and awaited.
func LaunchedEffect(c *Composer, keys []any, body func(ctx context.Context), opts ...EffectOption) Effect {
	site := c.visitEffect("LaunchedEffect", keys, effectOptions(opts), func(s *effectSite) {
		s.launch = body
	})
	return Effect{site: site}
}

// DisposableEffect runs setup after the pass that first reaches it. The
// returned Cleanup runs before a restart caused by changed keys and when
// the effect leaves the composition.
func DisposableEffect(c *Composer, keys []any, setup func() Cleanup, opts ...EffectOption) Effect {
	site := c.visitEffect("DisposableEffect", keys, effectOptions(opts), func(s *effectSite) {
		s.setup = setup
	})
	return Effect{site: site}
}

// SideEffect runs fn after every successful pass that reaches it.
func SideEffect(c *Composer, fn func(), opts ...EffectOption) {
	c.requireComposing("SideEffect")
	if !effectOptions(opts).target.allows(c.mode) {
		return
	}
	c.effects.sides = append(c.effects.sides, fn)
}
