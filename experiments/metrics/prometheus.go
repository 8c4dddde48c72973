package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"titan/game"
)

// Registry is a Collector backed by its own Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	Commands         *prometheus.CounterVec
	Events           *prometheus.CounterVec
	MatchesFinished  *prometheus.CounterVec
	MatchDuration    prometheus.Histogram
	PersistFailures  prometheus.Counter
	ResultsPersisted prometheus.Counter
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.Commands = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_commands_total",
			Help: "Commands received by the controller",
		},
		[]string{"command", "applied"},
	)

	r.Events = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_events_total",
			Help: "Lifecycle events emitted by the rules engine",
		},
		[]string{"kind"},
	)

	r.MatchesFinished = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_matches_finished_total",
			Help: "Finished matches by outcome",
		},
		[]string{"winner"},
	)

	r.MatchDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "titan_match_duration_seconds",
			Help:    "Game clock consumed by finished matches",
			Buckets: prometheus.LinearBuckets(30, 30, 10),
		},
	)

	r.ResultsPersisted = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "titan_results_persisted_total",
			Help: "Match results written to the result store",
		},
	)

	r.PersistFailures = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "titan_results_persist_failures_total",
			Help: "Match results the result store failed to write",
		},
	)

	return r
}

func (r *Registry) Command(name string, applied bool) {
	r.Commands.WithLabelValues(name, strconv.FormatBool(applied)).Inc()
}

func (r *Registry) Event(e game.Event) {
	r.Events.WithLabelValues(e.Kind.String()).Inc()
}

func (r *Registry) MatchFinished(winner string, duration time.Duration) {
	r.MatchesFinished.WithLabelValues(winner).Inc()
	r.MatchDuration.Observe(duration.Seconds())
}

func (r *Registry) ResultPersisted(err error) {
	if err != nil {
		r.PersistFailures.Inc()
		return
	}
	r.ResultsPersisted.Inc()
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
