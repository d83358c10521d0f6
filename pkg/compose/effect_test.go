package compose

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

type recordingObserver struct {
	mu       sync.Mutex
	passes   []PassStats
	failures []*EffectError
	failed   chan struct{}
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{failed: make(chan struct{}, 8)}
}

func (o *recordingObserver) PassCompleted(stats PassStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.passes = append(o.passes, stats)
}

func (o *recordingObserver) EffectFailed(err *EffectError) {
	o.mu.Lock()
	o.failures = append(o.failures, err)
	o.mu.Unlock()
	o.failed <- struct{}{}
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for effect")
		var zero T
		return zero
	}
}

func TestLaunchedEffectLifecycle(t *testing.T) {
	rec := newTestRecomposer()
	key := 1
	started := make(chan int, 4)
	cancelled := make(chan int, 4)
	var eff Effect
	root := func(c *Composer) {
		k := key
		eff = LaunchedEffect(c, []any{k}, func(ctx context.Context) {
			started <- k
			<-ctx.Done()
			cancelled <- k
		})
	}

	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	if got := receive[int](t, started); got != 1 {
		t.Fatalf("started %d, want 1", got)
	}
	if eff.State() != EffectMounted {
		t.Errorf("State() = %v, want mounted", eff.State())
	}

	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	if len(cancelled) != 0 {
		t.Fatal("effect restarted with unchanged keys")
	}

	key = 2
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	// The old body has been awaited before Compose returned.
	select {
	case got := <-cancelled:
		if got != 1 {
			t.Errorf("cancelled %d, want 1", got)
		}
	default:
		t.Fatal("restart did not wait for the previous body")
	}
	if got := receive[int](t, started); got != 2 {
		t.Fatalf("restarted with %d, want 2", got)
	}

	rec.Dispose()
	select {
	case got := <-cancelled:
		if got != 2 {
			t.Errorf("cancelled %d on dispose, want 2", got)
		}
	default:
		t.Fatal("Dispose did not wait for the running body")
	}
	if eff.State() != EffectDisposed {
		t.Errorf("State() = %v, want disposed", eff.State())
	}
}

func TestEffectOrdering(t *testing.T) {
	rec := newTestRecomposer()
	var log []string
	show := true
	key := 1
	root := func(c *Composer) {
		if show {
			c.Group("a", func() {
				DisposableEffect(c, nil, func() Cleanup {
					log = append(log, "setup a")
					return func() { log = append(log, "cleanup a") }
				})
			})
		}
		c.Group("b", func() {
			k := key
			DisposableEffect(c, []any{k}, func() Cleanup {
				log = append(log, fmt.Sprintf("setup b%d", k))
				return func() { log = append(log, fmt.Sprintf("cleanup b%d", k)) }
			})
		})
		SideEffect(c, func() { log = append(log, "side") })
		log = append(log, "compose")
	}

	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	want := []string{"compose", "setup a", "setup b1", "side"}
	if !reflect.DeepEqual(log, want) {
		t.Fatalf("first pass log = %v, want %v", log, want)
	}

	log = nil
	show = false
	key = 2
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	want = []string{"compose", "cleanup a", "cleanup b1", "setup b2", "side"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("second pass log = %v, want %v", log, want)
	}

	log = nil
	rec.Dispose()
	if !reflect.DeepEqual(log, []string{"cleanup b2"}) {
		t.Errorf("dispose log = %v", log)
	}
}

func TestFailedPassDropsEffectSetups(t *testing.T) {
	rec := newTestRecomposer()
	setups := 0
	fail := true
	root := func(c *Composer) {
		DisposableEffect(c, nil, func() Cleanup {
			setups++
			return nil
		})
		if fail {
			panic("boom")
		}
	}

	if err := rec.Compose(root); err == nil {
		t.Fatal("Compose() succeeded")
	}
	if setups != 0 {
		t.Fatalf("setup ran for a failed pass")
	}
	fail = false
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	if setups != 1 {
		t.Errorf("setups = %d, want 1", setups)
	}
}

func TestEffectPanicDisposesSite(t *testing.T) {
	tests := []struct {
		name  string
		phase string
		root  func(runs *int, key int) Composable
	}{
		{
			name:  "setup",
			phase: "setup",
			root: func(runs *int, key int) Composable {
				return func(c *Composer) {
					DisposableEffect(c, []any{key}, func() Cleanup {
						*runs++
						panic("setup boom")
					})
				}
			},
		},
		{
			name:  "cleanup",
			phase: "cleanup",
			root: func(runs *int, key int) Composable {
				return func(c *Composer) {
					DisposableEffect(c, []any{key}, func() Cleanup {
						*runs++
						return func() { panic("cleanup boom") }
					})
				}
			},
		},
		{
			name:  "launched body",
			phase: "launch",
			root: func(runs *int, key int) Composable {
				return func(c *Composer) {
					LaunchedEffect(c, []any{key}, func(ctx context.Context) {
						panic("body boom")
					})
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := newRecordingObserver()
			rec := newTestRecomposer(WithObserver(obs))
			runs := 0

			if err := rec.Compose(tt.root(&runs, 1)); err != nil {
				t.Fatal(err)
			}
			if err := rec.Compose(tt.root(&runs, 2)); err != nil {
				t.Fatal(err)
			}
			receive[struct{}](t, obs.failed)

			obs.mu.Lock()
			err := obs.failures[0]
			obs.mu.Unlock()
			if !errors.Is(err, ErrEffectFailed) || err.Phase != tt.phase {
				t.Errorf("failure = %v (phase %s), want phase %s", err, err.Phase, tt.phase)
			}

			if err := rec.Compose(tt.root(&runs, 3)); err != nil {
				t.Fatal(err)
			}
			if runs > 1 {
				t.Errorf("failed effect was retried (%d runs)", runs)
			}
			rec.Dispose()
		})
	}
}

func TestEffectTargets(t *testing.T) {
	tests := []struct {
		mode   Mode
		target EffectTarget
		want   bool
	}{
		{ModeClient, TargetAlways, true},
		{ModeClient, TargetClient, true},
		{ModeClient, TargetServer, false},
		{ModeServer, TargetAlways, true},
		{ModeServer, TargetServer, true},
		{ModeServer, TargetClient, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%d", tt.mode, tt.target), func(t *testing.T) {
			rec := newTestRecomposer(WithMode(tt.mode))
			ran, sideRan := false, false
			err := rec.Compose(func(c *Composer) {
				DisposableEffect(c, nil, func() Cleanup {
					ran = true
					return nil
				}, RunOn(tt.target))
				SideEffect(c, func() { sideRan = true }, RunOn(tt.target))
			})
			if err != nil {
				t.Fatal(err)
			}
			if ran != tt.want || sideRan != tt.want {
				t.Errorf("ran=%v sideRan=%v, want %v", ran, sideRan, tt.want)
			}
		})
	}
}

func TestLaunchedEffectCanWriteState(t *testing.T) {
	rec := newTestRecomposer()
	var label string
	root := func(c *Composer) {
		status := RememberState(c, "loading")
		LaunchedEffect(c, nil, func(ctx context.Context) {
			status.Set("ready")
		})
		c.Call("label", func(c *Composer) { label = status.Get(c) })
	}
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	receive[struct{}](t, rec.Dirty())
	if _, err := rec.Recompose(); err != nil {
		t.Fatal(err)
	}
	if label != "ready" {
		t.Errorf("label = %q, want ready", label)
	}
	rec.Dispose()
}

func TestObserverSeesPasses(t *testing.T) {
	obs := newRecordingObserver()
	rec := newTestRecomposer(WithObserver(obs))
	s := NewState(0)
	if err := rec.Compose(func(c *Composer) { s.Get(c) }); err != nil {
		t.Fatal(err)
	}
	s.Set(1)
	if _, err := rec.Recompose(); err != nil {
		t.Fatal(err)
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if len(obs.passes) != 2 {
		t.Fatalf("observed %d passes, want 2", len(obs.passes))
	}
	if obs.passes[0].Kind != PassCompose || obs.passes[1].Kind != PassRecompose || obs.passes[1].Scopes != 1 {
		t.Errorf("passes = %+v", obs.passes)
	}
}

func TestDisposedRecomposer(t *testing.T) {
	rec := newTestRecomposer()
	rec.Dispose()
	if err := rec.Compose(func(*Composer) {}); !errors.Is(err, ErrDisposed) {
		t.Errorf("Compose() after Dispose = %v", err)
	}
	if _, err := rec.Recompose(); !errors.Is(err, ErrDisposed) {
		t.Errorf("Recompose() after Dispose = %v", err)
	}
}
