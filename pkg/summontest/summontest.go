package summontest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/render"
	"github.com/summon-dev/summon/pkg/server"
	"github.com/summon-dev/summon/pkg/ssr"
	"github.com/summon-dev/summon/pkg/vdom"
)

type options struct {
	state  map[string]any
	params map[string]string
	locals []compose.Provided
	seo    ssr.SEOMetadata
	logger *slog.Logger
}

// Option configures Mount and Render.
type Option func(*options)

// WithState restores state into rememberSaveable slots.
func WithState(state map[string]any) Option {
	return func(o *options) { o.state = state }
}

// WithParam sets a route parameter read by server.Param.
func WithParam(key, value string) Option {
	return func(o *options) {
		if o.params == nil {
			o.params = make(map[string]string)
		}
		o.params[key] = value
	}
}

// WithLocals provides extra composition locals.
func WithLocals(values ...compose.Provided) Option {
	return func(o *options) { o.locals = append(o.locals, values...) }
}

// WithSEO sets the document metadata used by Render.
func WithSEO(seo ssr.SEOMetadata) Option {
	return func(o *options) { o.seo = seo }
}

// WithLogger sets the composition logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) *options {
	o := &options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// request builds the request seen through server.LocalRequest.
func (o *options) request() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	for k, v := range o.params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func (o *options) renderContext() *ssr.RenderContext {
	return &ssr.RenderContext{
		Hydrate:      true,
		SEO:          o.seo,
		InitialState: o.state,
		Locals:       append([]compose.Provided{server.LocalRequest.Provides(o.request())}, o.locals...),
	}
}

// Harness is a mounted client-mode composition.
type Harness struct {
	tb  testing.TB
	hr  *render.HTMLRenderer
	rec *compose.Recomposer
}

// Mount composes root and registers its disposal with tb.Cleanup.
func Mount(tb testing.TB, root compose.Composable, opts ...Option) *Harness {
	tb.Helper()
	o := buildOptions(opts)
	r := ssr.NewRenderer(ssr.WithLogger(o.logger))
	rc := o.renderContext()
	hr := r.NewHTMLRenderer(rc)
	rec := compose.NewRecomposer(append(r.Bind(hr, rc, compose.ModeClient), compose.WithLogger(o.logger))...)
	tb.Cleanup(rec.Dispose)

	if err := rec.Compose(root); err != nil {
		tb.Fatalf("compose failed: %v", err)
	}
	return &Harness{tb: tb, hr: hr, rec: rec}
}

// Recomposer returns the underlying recomposer.
func (h *Harness) Recomposer() *compose.Recomposer {
	return h.rec
}

// HTML returns the current body markup and refreshes the handler registry.
func (h *Harness) HTML() string {
	h.tb.Helper()
	out, err := h.hr.Markup(h.rec)
	if err != nil {
		h.tb.Fatalf("markup failed: %v", err)
	}
	return out
}

// Fire calls the handler registered for event on the element with the
// given data-hid, recomposes and returns the new markup.
func (h *Harness) Fire(hid, event string, ev vdom.Event) string {
	h.tb.Helper()
	h.HTML()
	handler, ok := h.hr.Handlers()[hid+"_on"+event]
	if !ok {
		h.tb.Fatalf("no %s handler on %s", event, hid)
	}
	ev.Type = event
	if !vdom.Invoke(handler, ev) {
		h.tb.Fatalf("handler %s_on%s is not callable", hid, event)
	}
	if _, err := h.rec.Recompose(); err != nil {
		h.tb.Fatalf("recompose failed: %v", err)
	}
	return h.HTML()
}

// Click fires a click on hid.
func (h *Harness) Click(hid string) string {
	h.tb.Helper()
	return h.Fire(hid, "click", vdom.Event{})
}

// Input fires an input event carrying value on hid.
func (h *Harness) Input(hid, value string) string {
	h.tb.Helper()
	return h.Fire(hid, "input", vdom.Event{Value: value})
}

// Submit fires a submit event carrying fields on hid.
func (h *Harness) Submit(hid string, fields map[string]string) string {
	h.tb.Helper()
	return h.Fire(hid, "submit", vdom.Event{Fields: fields})
}

// Await recomposes as state changes until the markup contains want, for
// changes made by effects. It fails the test after timeout.
func (h *Harness) Await(want string, timeout time.Duration) string {
	h.tb.Helper()
	deadline := time.After(timeout)
	for {
		if out := h.HTML(); strings.Contains(out, want) {
			return out
		}
		select {
		case <-h.rec.Dirty():
			if _, err := h.rec.Recompose(); err != nil {
				h.tb.Fatalf("recompose failed: %v", err)
			}
		case <-deadline:
			h.tb.Fatalf("markup never contained %q, got:\n%s", want, truncate(h.HTML(), 500))
			return ""
		}
	}
}

// Render runs a server render of root and returns the result.
func Render(tb testing.TB, root compose.Composable, opts ...Option) *ssr.Result {
	tb.Helper()
	o := buildOptions(opts)
	res, err := ssr.NewRenderer(ssr.WithLogger(o.logger)).Render(context.Background(), o.renderContext(), root)
	if err != nil {
		tb.Fatalf("render failed: %v", err)
	}
	return res
}

// ExpectContains asserts that html contains every expected substring.
func ExpectContains(tb testing.TB, html string, expected ...string) {
	tb.Helper()
	for _, e := range expected {
		if !strings.Contains(html, e) {
			tb.Errorf("expected output to contain %q, got:\n%s", e, truncate(html, 500))
		}
	}
}

// ExpectNotContains asserts that html contains none of the substrings.
func ExpectNotContains(tb testing.TB, html string, unexpected ...string) {
	tb.Helper()
	for _, u := range unexpected {
		if strings.Contains(html, u) {
			tb.Errorf("expected output to NOT contain %q, got:\n%s", u, truncate(html, 500))
		}
	}
}

// ExpectAttribute asserts that html contains attr="value".
func ExpectAttribute(tb testing.TB, html, attr, value string) {
	tb.Helper()
	needle := attr + `="` + render.EscapeAttr(value) + `"`
	if !strings.Contains(html, needle) {
		tb.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
