package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	summonerr "github.com/summon-dev/summon/internal/errors"
	"github.com/summon-dev/summon/pkg/cache"
	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/ssr"
)

func (s *Server) pageHandler(p *Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.Live && websocket.IsWebSocketUpgrade(r) {
			s.serveLive(w, r, p)
			return
		}
		s.servePage(w, r, p)
	}
}

// renderContext builds the per-request render context for p.
func (s *Server) renderContext(r *http.Request, p *Page) *ssr.RenderContext {
	var state map[string]any
	if p.State != nil {
		state = p.State(r)
	}
	return &ssr.RenderContext{
		Hydrate:      s.config.Hydrate,
		SEO:          p.SEO,
		InitialState: state,
		Head:         p.Head,
		Lang:         s.config.Lang,
		ClientScript: s.config.ClientScript,
		Locals:       []compose.Provided{LocalRequest.Provides(r)},
	}
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, p *Page) {
	rc := s.renderContext(r, p)
	if p.Cache && s.loader != nil {
		s.serveCached(w, r, p, rc)
		return
	}

	start := time.Now()
	err := s.renderer.StreamDocument(r.Context(), w, rc, p.Root)
	s.metrics.ObserveRender(p.name(), time.Since(start), err)
	if err != nil {
		s.renderError(w, r, p, err)
	}
}

func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, p *Page, rc *ssr.RenderContext) {
	// The path distinguishes pages sharing a name across route params and
	// the query covers composables that read the request.
	id := p.name() + r.URL.Path
	if q := r.URL.Query(); len(q) > 0 {
		id += "?" + q.Encode()
	}
	key, err := cache.Key(id, rc.InitialState)
	if err != nil {
		s.renderError(w, r, p, summonerr.FromError(err, "E031"))
		return
	}

	entry, hit, err := s.loader.Load(r.Context(), key, func(ctx context.Context) ([]byte, error) {
		start := time.Now()
		res, err := s.renderer.Render(ctx, rc, p.Root)
		s.metrics.ObserveRender(p.name(), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		return []byte(res.HTML), nil
	})
	if err != nil {
		s.renderError(w, r, p, err)
		return
	}
	s.metrics.ObserveCache(hit)

	w.Header().Set("ETag", entry.ETag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), entry.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(entry.Body); err != nil {
		s.logger.Debug("write cached page", "page", p.name(), "error", err)
	}
}

// etagMatches reports whether an If-None-Match header value matches etag.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, p *Page, err error) {
	if errors.Is(err, context.Canceled) {
		s.logger.Debug("render cancelled", "page", p.name(), "path", r.URL.Path)
		return
	}
	s.logger.Error("render failed",
		"page", p.name(),
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	trace.SpanFromContext(r.Context()).RecordError(err)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	detail := ""
	if s.config.Debug {
		detail = "<pre>" + html.EscapeString(err.Error()) + "</pre>"
	}
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><title>Internal Server Error</title></head><body><h1>Internal Server Error</h1>%s</body></html>\n", detail)
}

// instrument wraps each request in a span and logs it on completion.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := s.tracer.Start(r.Context(), "summon.http.request",
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
