package compose

import (
	"context"
	"log/slog"
	"time"
)

// Mode is the execution mode of a composition.
type Mode uint8

const (
	// ModeClient is an interactive composition that recomposes on state
	// changes.
	ModeClient Mode = iota
	// ModeServer is a one-shot composition for server-side rendering.
	ModeServer
)

func (m Mode) String() string {
	if m == ModeServer {
		return "server"
	}
	return "client"
}

// PassKind distinguishes full passes from scope recompositions.
type PassKind string

const (
	PassCompose   PassKind = "compose"
	PassRecompose PassKind = "recompose"
)

// PassStats describes a completed pass.
type PassStats struct {
	Kind     PassKind
	Scopes   int
	Duration time.Duration
	Err      error
}

// Observer receives composition events. Implementations must be safe for
// concurrent use: effect failures can be reported from effect goroutines.
type Observer interface {
	PassCompleted(stats PassStats)
	EffectFailed(err *EffectError)
}

type nopObserver struct{}

func (nopObserver) PassCompleted(PassStats)   {}
func (nopObserver) EffectFailed(*EffectError) {}

type options struct {
	mode     Mode
	logger   *slog.Logger
	observer Observer
	ctx      context.Context
	locals   []Provided
	restored map[string]any
}

// Option configures a Recomposer.
type Option func(*options)

// WithMode sets the execution mode. The default is ModeClient.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver sets the pass and effect observer.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithContext sets the parent context of launched effects. Cancelling it
// cancels every running effect body.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithLocals provides locals to the whole composition.
func WithLocals(values ...Provided) Option {
	return func(o *options) { o.locals = append(o.locals, values...) }
}

// WithRestoredState seeds RememberSaveableState with previously saved
// values, typically the hydration payload.
func WithRestoredState(state map[string]any) Option {
	return func(o *options) { o.restored = state }
}
