package ssr

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	summonerr "github.com/summon-dev/summon/internal/errors"
	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/render"
)

const tracerName = "github.com/summon-dev/summon/pkg/ssr"

// Result is the outcome of one render.
type Result struct {
	// HTML is the complete document.
	HTML string

	// Body is the markup inside the root container.
	Body string

	// Head lists the collected head fragments in insertion order.
	Head []string

	// State is the hydration payload: the initial state merged with the
	// saveable states of the composition.
	State map[string]any

	// Handlers maps "hid_onevent" keys to the event handlers in Body.
	Handlers map[string]any

	// Duration is the time spent composing and serialising.
	Duration time.Duration
}

// Renderer performs server renders. It is safe for concurrent use.
type Renderer struct {
	tracer   trace.Tracer
	logger   *slog.Logger
	observer compose.Observer
	pretty   bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTracerProvider sets the provider spans are created from. Defaults to
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Renderer) {
		r.tracer = tp.Tracer(tracerName)
	}
}

// WithLogger sets the logger for render failures and composition warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// WithObserver receives the pass statistics of every render.
func WithObserver(obs compose.Observer) Option {
	return func(r *Renderer) {
		r.observer = obs
	}
}

// WithPretty indents the body markup. Development only.
func WithPretty(pretty bool) Option {
	return func(r *Renderer) {
		r.pretty = pretty
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(tracerName)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Bind returns the composition options that expose hr and rc to a
// composition. Live sessions use it to build compositions that behave like
// a server render.
func (r *Renderer) Bind(hr *render.HTMLRenderer, rc *RenderContext, mode compose.Mode) []compose.Option {
	locals := append([]compose.Provided{LocalRenderContext.Provides(rc)}, rc.Locals...)
	opts := hr.Bind(locals...)
	opts = append(opts, compose.WithMode(mode), compose.WithRestoredState(rc.InitialState))
	if r.observer != nil {
		opts = append(opts, compose.WithObserver(r.observer))
	}
	return opts
}

// NewHTMLRenderer returns an HTMLRenderer configured like the ones used by
// Render, with rc's head fragments already collected.
func (r *Renderer) NewHTMLRenderer(rc *RenderContext) *render.HTMLRenderer {
	head := render.NewHeadCollector()
	for _, fragment := range rc.Head {
		head.Add(fragment)
	}
	return render.NewHTMLRenderer(render.HTMLConfig{
		SerializerConfig: render.SerializerConfig{Pretty: r.pretty},
		Head:             head,
		Logger:           r.logger,
	})
}

// Render composes root once and assembles the document. A structural or
// missing-provider failure aborts this render only.
func (r *Renderer) Render(ctx context.Context, rc *RenderContext, root compose.Composable) (*Result, error) {
	var buf bytes.Buffer
	res, err := r.render(ctx, &buf, rc, root)
	if err != nil {
		return nil, err
	}
	res.HTML = buf.String()
	return res, nil
}

// RenderToWriter renders the document into w, flushing after the head and
// the body when w is an http.Flusher. Nothing is written if composition
// fails.
func (r *Renderer) RenderToWriter(ctx context.Context, w io.Writer, rc *RenderContext, root compose.Composable) (*Result, error) {
	return r.render(ctx, w, rc, root)
}

// StreamDocument writes the document as an HTML response.
func (r *Renderer) StreamDocument(ctx context.Context, w http.ResponseWriter, rc *RenderContext, root compose.Composable) error {
	// Headers are only committed once composition succeeded, so a failed
	// render can still produce an error page.
	_, err := r.render(ctx, &deferredHeader{ResponseWriter: w}, rc, root)
	return err
}

func (r *Renderer) render(ctx context.Context, w io.Writer, in *RenderContext, root compose.Composable) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "summon.ssr.render")
	defer span.End()

	res, err := r.compose(ctx, in, root, w)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("ssr render failed", "error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("summon.ssr.body_bytes", len(res.Body)),
		attribute.Int("summon.ssr.head_elements", len(res.Head)),
		attribute.Int("summon.ssr.state_keys", len(res.State)),
	)
	return res, nil
}

func (r *Renderer) compose(ctx context.Context, in *RenderContext, root compose.Composable, w io.Writer) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	rc := in.clone()
	hr := r.NewHTMLRenderer(rc)
	opts := append(r.Bind(hr, rc, compose.ModeServer), compose.WithContext(ctx))
	rec := compose.NewRecomposer(opts...)
	defer rec.Dispose()

	if err := rec.Compose(root); err != nil {
		return nil, summonerr.FromError(err, "E030")
	}

	body, err := hr.Markup(rec)
	if err != nil {
		return nil, summonerr.FromError(err, "E032")
	}

	res := &Result{
		Body:     body,
		Head:     hr.HeadElements(),
		State:    mergeState(rc.InitialState, rec.SaveableState()),
		Handlers: hr.Handlers(),
	}
	doc := &document{rc: rc, head: res.Head, body: body, state: res.State}
	if err := writeDocument(w, doc); err != nil {
		return nil, summonerr.FromError(err, "E032")
	}
	res.Duration = time.Since(start)
	return res, nil
}

// deferredHeader sets the content type on the first write.
type deferredHeader struct {
	http.ResponseWriter
	wrote bool
}

func (d *deferredHeader) Write(p []byte) (int, error) {
	if !d.wrote {
		d.wrote = true
		if d.Header().Get("Content-Type") == "" {
			d.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
	}
	return d.ResponseWriter.Write(p)
}

func (d *deferredHeader) Flush() {
	if f, ok := d.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
