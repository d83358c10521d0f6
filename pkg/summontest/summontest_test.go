package summontest_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/server"
	"github.com/summon-dev/summon/pkg/ssr"
	"github.com/summon-dev/summon/pkg/summontest"
	"github.com/summon-dev/summon/pkg/ui"
)

func counter(c *compose.Composer) {
	count := compose.RememberSaveableState(c, "count", 0)
	ui.Button(c, func() { count.Update(func(n int) int { return n + 1 }) }, ui.Modifier{}, func() {
		ui.Text(c, fmt.Sprintf("Count: %d", count.Get(c)), ui.Modifier{})
	})
}

func TestMountAndClick(t *testing.T) {
	h := summontest.Mount(t, counter)
	summontest.ExpectContains(t, h.HTML(), "Count: 0", `data-hid="h1"`)

	summontest.ExpectContains(t, h.Click("h1"), "Count: 1")
	summontest.ExpectContains(t, h.Click("h1"), "Count: 2")
	if got := h.Recomposer().SaveableState()["count"]; got != 2 {
		t.Errorf("saved count = %v, want 2", got)
	}
}

func TestWithState(t *testing.T) {
	h := summontest.Mount(t, counter, summontest.WithState(map[string]any{"count": 41}))
	summontest.ExpectContains(t, h.Click("h1"), "Count: 42")
}

func TestInputAndSubmit(t *testing.T) {
	page := func(c *compose.Composer) {
		value := compose.RememberState(c, "")
		sent := compose.RememberState(c, "")
		ui.TextField(c, value.Get(c), value.Set, ui.Modifier{}, ui.TextFieldOptions{})
		ui.Form(c, func(f map[string]string) { sent.Set(f["q"]) }, ui.Modifier{}, nil)
		ui.Text(c, "typed="+value.Get(c)+" sent="+sent.Get(c), ui.Modifier{})
	}
	h := summontest.Mount(t, page)

	summontest.ExpectContains(t, h.Input("h1", "abc"), "typed=abc sent=")
	summontest.ExpectContains(t, h.Submit("h2", map[string]string{"q": "go"}), "typed=abc sent=go")
}

func TestWithParam(t *testing.T) {
	page := func(c *compose.Composer) {
		ui.Text(c, "user "+server.Param(c, "id"), ui.Modifier{})
	}
	h := summontest.Mount(t, page, summontest.WithParam("id", "42"))
	summontest.ExpectContains(t, h.HTML(), "user 42")
}

func TestWithLocals(t *testing.T) {
	greeting := compose.LocalOf("greeting", "hello")
	page := func(c *compose.Composer) {
		ui.Text(c, greeting.Current(c), ui.Modifier{})
	}

	summontest.ExpectContains(t, summontest.Mount(t, page).HTML(), "hello")
	summontest.ExpectContains(t, summontest.Mount(t, page, summontest.WithLocals(greeting.Provides("hi"))).HTML(), "<span>hi</span>")
}

func TestAwait(t *testing.T) {
	page := func(c *compose.Composer) {
		status := compose.RememberState(c, "pending")
		compose.LaunchedEffect(c, nil, func(ctx context.Context) {
			select {
			case <-time.After(10 * time.Millisecond):
				status.Set("done")
			case <-ctx.Done():
			}
		})
		ui.Text(c, "status="+status.Get(c), ui.Modifier{})
	}
	h := summontest.Mount(t, page)
	summontest.ExpectContains(t, h.Await("status=done", 2*time.Second), "status=done")
}

func TestRender(t *testing.T) {
	res := summontest.Render(t, counter,
		summontest.WithState(map[string]any{"count": 3}),
		summontest.WithSEO(ssr.SEOMetadata{Title: "Counter"}),
	)
	summontest.ExpectContains(t, res.HTML, "<title>Counter</title>", "Count: 3", `{"count":3}`)
	summontest.ExpectNotContains(t, res.HTML, "Count: 0")
	summontest.ExpectAttribute(t, res.HTML, "data-on-click", "true")
}
