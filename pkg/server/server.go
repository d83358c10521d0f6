package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/summon-dev/summon/pkg/cache"
	"github.com/summon-dev/summon/pkg/ssr"
)

// ClientScriptPath is where the live client script is served.
const ClientScriptPath = "/_summon/client.js"

// Config holds server settings.
type Config struct {
	// Address is the listen address, e.g. ":3000".
	Address string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Hydrate embeds the initial state payload in rendered documents.
	Hydrate bool
	// Pretty indents rendered markup.
	Pretty bool
	// Lang is the document language. Defaults to "en".
	Lang string
	// ClientScript overrides the script src added to every document. When
	// empty and Live is set, the built-in live client is used.
	ClientScript string

	// Live enables websocket live sessions on page routes.
	Live bool
	// MaxSessions caps concurrent live sessions. Zero means no limit.
	MaxSessions int
	// SessionIdleTimeout closes live sessions that send nothing for this
	// long. Defaults to 5 minutes.
	SessionIdleTimeout time.Duration

	// MetricsPath mounts the Prometheus handler. Empty disables it.
	MetricsPath string

	// Debug includes error details in error responses.
	Debug bool
}

func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = ":3000"
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 15 * time.Second
	}
	if c.SessionIdleTimeout <= 0 {
		c.SessionIdleTimeout = 5 * time.Minute
	}
	if c.ClientScript == "" && c.Live {
		c.ClientScript = ClientScriptPath
	}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTracerProvider sets the tracer provider for request and render spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracerProvider = tp }
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithCache routes pages marked Cache through store. The caller owns store
// and closes it after Shutdown.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(s *Server) { s.store, s.cacheTTL = store, ttl }
}

// Server serves pages over HTTP and live sessions over websockets.
type Server struct {
	config Config

	router         chi.Router
	renderer       *ssr.Renderer
	loader         *cache.Loader
	store          cache.Store
	cacheTTL       time.Duration
	metrics        *Metrics
	sessions       *SessionManager
	upgrader       websocket.Upgrader
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer

	pages      []*Page
	httpServer *http.Server
}

// New creates a server. Pages are added with Handle.
func New(cfg Config, opts ...Option) *Server {
	cfg.applyDefaults()
	s := &Server{config: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracerProvider == nil {
		s.tracerProvider = otel.GetTracerProvider()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(MetricsConfig{})
	}
	s.tracer = s.tracerProvider.Tracer("github.com/summon-dev/summon/pkg/server")
	s.renderer = ssr.NewRenderer(
		ssr.WithTracerProvider(s.tracerProvider),
		ssr.WithLogger(s.logger),
		ssr.WithObserver(s.metrics),
		ssr.WithPretty(cfg.Pretty),
	)
	if s.store != nil {
		s.loader = cache.NewLoader(s.store, cache.WithTTL(s.cacheTTL), cache.WithLogger(s.logger))
	}
	s.sessions = NewSessionManager(cfg.MaxSessions, s.metrics)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(canonicalPaths)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	if cfg.MetricsPath != "" {
		r.Handle(cfg.MetricsPath, s.metrics.Handler())
	}
	if cfg.Live {
		r.Get(ClientScriptPath, serveClientScript)
	}
	s.router = r
	return s
}

// Handle registers a page.
func (s *Server) Handle(p Page) {
	page := &p
	s.pages = append(s.pages, page)
	s.router.Get(page.Path, s.pageHandler(page))
}

// Pages returns the registered pages in registration order.
func (s *Server) Pages() []Page {
	out := make([]Page, len(s.pages))
	for i, p := range s.pages {
		out[i] = *p
	}
	return out
}

// Sessions returns the live session registry.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.ListenAndServe(ctx)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address, "live", s.config.Live)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes live sessions and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	closed := s.sessions.CloseAll()
	s.logger.Info("live sessions closed", "count", closed)

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
