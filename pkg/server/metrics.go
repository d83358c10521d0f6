package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/summon-dev/summon/pkg/compose"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "summon").
	Namespace string

	// Buckets are the histogram buckets for render and pass durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the registry the collectors are registered with.
	// Default: a new registry.
	Registry *prometheus.Registry
}

// Metrics records page renders, composition passes, effect failures, cache
// lookups and live sessions. It implements compose.Observer.
type Metrics struct {
	registry *prometheus.Registry

	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
	passesTotal    *prometheus.CounterVec
	passDuration   *prometheus.HistogramVec
	scopesTotal    prometheus.Counter
	effectFailures *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	liveSessions   prometheus.Gauge
	liveEvents     *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "summon"
	}
	if cfg.Buckets == nil {
		cfg.Buckets = prometheus.DefBuckets
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		registry: cfg.Registry,

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "render_duration_seconds",
			Help:      "Server-side page render duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"page"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "render_errors_total",
			Help:      "Total number of failed page renders",
		}, []string{"page"}),

		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "composition_passes_total",
			Help:      "Total number of composition passes",
		}, []string{"kind", "status"}),

		passDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "composition_pass_duration_seconds",
			Help:      "Composition pass duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"kind"}),

		scopesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "recomposed_scopes_total",
			Help:      "Total number of scopes re-executed by recomposition",
		}),

		effectFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "effect_failures_total",
			Help:      "Total number of effects that panicked",
		}, []string{"phase"}),

		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "render_cache_lookups_total",
			Help:      "Total number of render cache lookups",
		}, []string{"result"}),

		liveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "live_sessions",
			Help:      "Number of open live sessions",
		}),

		liveEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "live_events_total",
			Help:      "Total number of client events received by live sessions",
		}, []string{"event", "status"}),
	}
}

// PassCompleted implements compose.Observer.
func (m *Metrics) PassCompleted(stats compose.PassStats) {
	status := "ok"
	if stats.Err != nil {
		status = "error"
	}
	m.passesTotal.WithLabelValues(string(stats.Kind), status).Inc()
	m.passDuration.WithLabelValues(string(stats.Kind)).Observe(stats.Duration.Seconds())
	if stats.Kind == compose.PassRecompose {
		m.scopesTotal.Add(float64(stats.Scopes))
	}
}

// EffectFailed implements compose.Observer.
func (m *Metrics) EffectFailed(err *compose.EffectError) {
	m.effectFailures.WithLabelValues(err.Phase).Inc()
}

// ObserveRender records a page render.
func (m *Metrics) ObserveRender(page string, d time.Duration, err error) {
	m.renderDuration.WithLabelValues(page).Observe(d.Seconds())
	if err != nil {
		m.renderErrors.WithLabelValues(page).Inc()
	}
}

// ObserveCache records a render cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveEvent records a client event handled by a live session.
func (m *Metrics) ObserveEvent(event string, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	m.liveEvents.WithLabelValues(event, status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
