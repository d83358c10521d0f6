package compose

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestStateWriteRecomposesReader(t *testing.T) {
	rec := newTestRecomposer()
	var count *State[int]
	root := func(c *Composer) {
		count = RememberState(c, 0)
		c.Call("label", func(c *Composer) {
			text(c, fmt.Sprintf("Count: %d", count.Get(c)))
		})
	}

	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	if got := texts(rec.Nodes()); !reflect.DeepEqual(got, []string{"Count: 0"}) {
		t.Fatalf("initial texts = %v", got)
	}

	count.Set(5)
	if !rec.Pending() {
		t.Fatal("Pending() = false after write")
	}
	n, err := rec.Recompose()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Recompose() = %d scopes, want 1", n)
	}
	if got := texts(rec.Nodes()); !reflect.DeepEqual(got, []string{"Count: 5"}) {
		t.Errorf("texts after recompose = %v", got)
	}
	if rec.Pending() {
		t.Error("Pending() = true after recompose")
	}
}

func TestEqualWriteDoesNotInvalidate(t *testing.T) {
	rec := newTestRecomposer()
	s := NewState("same")
	if err := rec.Compose(func(c *Composer) { s.Get(c) }); err != nil {
		t.Fatal(err)
	}
	s.Set("same")
	s.Update(func(v string) string { return v })
	if rec.Pending() {
		t.Error("equal write invalidated the reader")
	}
}

func TestCustomEquality(t *testing.T) {
	s := NewState(10).WithEquality(func(a, b int) bool { return a/10 == b/10 })
	rec := newTestRecomposer()
	if err := rec.Compose(func(c *Composer) { s.Get(c) }); err != nil {
		t.Fatal(err)
	}
	s.Set(15)
	if rec.Pending() || s.Peek() != 10 {
		t.Errorf("write within the same bucket was treated as a change (value %d)", s.Peek())
	}
	s.Set(20)
	if !rec.Pending() {
		t.Error("write to a new bucket was not a change")
	}
}

func TestRecomposeOnlyDirtyScopes(t *testing.T) {
	rec := newTestRecomposer()
	a, b := NewState(0), NewState(0)
	runsA, runsB := 0, 0
	root := func(c *Composer) {
		c.Call("a", func(c *Composer) { runsA++; a.Get(c) })
		c.Call("b", func(c *Composer) { runsB++; b.Get(c) })
	}
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}

	a.Set(1)
	a.Set(2)
	n, err := rec.Recompose()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || runsA != 2 || runsB != 1 {
		t.Errorf("n=%d runsA=%d runsB=%d, want 1, 2, 1", n, runsA, runsB)
	}
}

func TestPeekDoesNotSubscribe(t *testing.T) {
	rec := newTestRecomposer()
	s := NewState(0)
	if err := rec.Compose(func(c *Composer) { s.Peek(); s.Get(nil) }); err != nil {
		t.Fatal(err)
	}
	s.Set(1)
	if rec.Pending() {
		t.Error("untracked read subscribed the root scope")
	}
}

func TestAncestorRecomposesFirst(t *testing.T) {
	rec := newTestRecomposer()
	outer, inner := NewState(0), NewState(0)
	outerRuns, innerRuns := 0, 0
	root := func(c *Composer) {
		c.Call("outer", func(c *Composer) {
			outerRuns++
			outer.Get(c)
			c.Call("inner", func(c *Composer) {
				innerRuns++
				inner.Get(c)
			})
		})
	}
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}

	inner.Set(1)
	outer.Set(1)
	n, err := rec.Recompose()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Recompose() = %d, want 1 (inner runs inside outer)", n)
	}
	if outerRuns != 2 || innerRuns != 2 {
		t.Errorf("outerRuns=%d innerRuns=%d, want 2, 2", outerRuns, innerRuns)
	}
}

func TestRemovedScopeIsNotRecomposed(t *testing.T) {
	rec := newTestRecomposer()
	show, child := NewState(true), NewState(0)
	childRuns := 0
	root := func(c *Composer) {
		c.Call("parent", func(c *Composer) {
			if show.Get(c) {
				c.Call("child", func(c *Composer) {
					childRuns++
					child.Get(c)
				})
			}
		})
	}
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}

	child.Set(1)
	show.Set(false)
	if _, err := rec.Recompose(); err != nil {
		t.Fatal(err)
	}
	if childRuns != 1 {
		t.Errorf("childRuns = %d, want 1", childRuns)
	}

	child.Set(2)
	if rec.Pending() {
		t.Error("disposed scope is still subscribed")
	}
}

func TestWriteDuringCompositionDefersToNextPass(t *testing.T) {
	rec := newTestRecomposer()
	runs := 0
	var s *State[int]
	root := func(c *Composer) {
		s = RememberState(c, 0)
		c.Call("writer", func(c *Composer) {
			runs++
			if s.Get(c) == 0 {
				s.Set(1)
			}
		})
	}
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	if runs != 1 {
		t.Fatalf("runs = %d during the first pass, want 1", runs)
	}
	if rec.Composer().Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", rec.Composer().Writes())
	}
	if !rec.Pending() {
		t.Fatal("write during composition did not invalidate")
	}

	if _, err := rec.Recompose(); err != nil {
		t.Fatal(err)
	}
	if runs != 2 || rec.Pending() {
		t.Errorf("runs=%d pending=%v, want 2, false", runs, rec.Pending())
	}
}

func TestRecomposeIsolatesFailures(t *testing.T) {
	rec := newTestRecomposer()
	a, b := NewState(0), NewState(0)
	bRuns := 0
	root := func(c *Composer) {
		c.Call("a", func(c *Composer) {
			Remember(c, func() string { return "kept" })
			if a.Get(c) == 1 {
				panic("boom")
			}
		})
		c.Call("b", func(c *Composer) {
			bRuns++
			b.Get(c)
		})
	}
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}

	a.Set(1)
	b.Set(1)
	n, err := rec.Recompose()
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Recompose() error = %v, want panic", err)
	}
	if n != 1 || bRuns != 2 {
		t.Errorf("n=%d bRuns=%d, want 1, 2", n, bRuns)
	}

	found := false
	for _, e := range rec.Snapshot() {
		if e.Value == "kept" {
			found = true
		}
	}
	if !found {
		t.Error("failed scope lost its slots")
	}

	a.Set(2)
	if n, err := rec.Recompose(); err != nil || n != 1 {
		t.Errorf("Recompose() after recovery = %d, %v", n, err)
	}
}

func TestConcurrentWritesCoalesce(t *testing.T) {
	rec := newTestRecomposer()
	s := NewState(0)
	runs := 0
	if err := rec.Compose(func(c *Composer) {
		c.Call("reader", func(c *Composer) { runs++; s.Get(c) })
	}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			s.Update(func(n int) int { return n + v })
		}(i)
	}
	wg.Wait()

	select {
	case <-rec.Dirty():
	default:
		t.Fatal("Dirty() was not signalled")
	}
	n, err := rec.Recompose()
	if err != nil || n != 1 || runs != 2 {
		t.Errorf("Recompose() = %d, %v; runs = %d", n, err, runs)
	}
	if s.Peek() != 1275 {
		t.Errorf("value = %d, want 1275", s.Peek())
	}
}

func TestDerivedState(t *testing.T) {
	src := NewState(1)
	computes := 0
	even := Derive(func(t Tracker) bool {
		computes++
		return src.Get(t)%2 == 0
	})

	even.Get(nil)
	even.Get(nil)
	if computes != 1 {
		t.Fatalf("computes = %d without upstream change, want 1", computes)
	}
	src.Set(3)
	if even.Peek() {
		t.Error("3 reported even")
	}
	if computes != 2 {
		t.Errorf("computes = %d after upstream change, want 2", computes)
	}

	rec := newTestRecomposer()
	runs := 0
	if err := rec.Compose(func(c *Composer) {
		c.Call("reader", func(c *Composer) { runs++; even.Get(c) })
	}); err != nil {
		t.Fatal(err)
	}

	src.Set(5)
	if rec.Pending() {
		t.Error("unchanged derived value invalidated its reader")
	}
	src.Set(6)
	if !rec.Pending() {
		t.Fatal("changed derived value did not invalidate its reader")
	}
	if _, err := rec.Recompose(); err != nil || runs != 2 {
		t.Errorf("Recompose() err=%v runs=%d", err, runs)
	}
}

func TestRememberDerivedForgetsInputs(t *testing.T) {
	rec := newTestRecomposer()
	src := NewState(2)
	show := true
	var d *DerivedState[int]
	root := func(c *Composer) {
		if show {
			c.Group("derived", func() {
				d = RememberDerived(c, func(t Tracker) int { return src.Get(t) * 2 })
				d.Get(nil)
			})
		}
	}
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	if !src.base.hasSubscribers() {
		t.Fatal("derived state did not subscribe to its input")
	}
	show = false
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	if src.base.hasSubscribers() {
		t.Error("forgotten derived state is still subscribed")
	}
}

func TestRememberSaveableState(t *testing.T) {
	rec := newTestRecomposer(WithRestoredState(map[string]any{
		"count": float64(3),
		"tags":  []any{"a", "b"},
	}))
	show := true
	var count *State[int]
	var tags *State[[]string]
	root := func(c *Composer) {
		count = RememberSaveableState(c, "count", 0)
		if show {
			c.Group("tags", func() {
				tags = RememberSaveableState(c, "tags", []string(nil))
			})
		}
	}
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	if count.Peek() != 3 {
		t.Errorf("restored count = %d, want 3", count.Peek())
	}
	if !reflect.DeepEqual(tags.Peek(), []string{"a", "b"}) {
		t.Errorf("restored tags = %v", tags.Peek())
	}

	count.Set(4)
	saved := rec.SaveableState()
	if saved["count"] != 4 {
		t.Errorf("saved count = %v, want 4", saved["count"])
	}

	show = false
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	if _, ok := rec.SaveableState()["tags"]; ok {
		t.Error("removed saveable state is still registered")
	}
}

func TestDuplicateSaveableKey(t *testing.T) {
	rec := newTestRecomposer()
	showFirst, showSecond := true, true
	var second *State[string]
	root := func(c *Composer) {
		if showFirst {
			c.Group("first", func() { RememberSaveableState(c, "draft", "first") })
		}
		if showSecond {
			c.Group("second", func() { second = RememberSaveableState(c, "draft", "second") })
		}
	}
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	if got := rec.SaveableState()["draft"]; got != "second" {
		t.Errorf("saved draft = %v, want the latest registration", got)
	}

	showFirst = false
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	second.Set("kept")
	if got, ok := rec.SaveableState()["draft"]; !ok || got != "kept" {
		t.Errorf("saved draft = %v, %v; want kept while the second state is alive", got, ok)
	}

	showSecond = false
	if err := rec.Compose(root); err != nil {
		t.Fatal(err)
	}
	if _, ok := rec.SaveableState()["draft"]; ok {
		t.Error("draft still registered after both states left")
	}
}
