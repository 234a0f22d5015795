package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/*
Metrics holds the collectors the website reports on /metrics. Each instance
owns its registry so tests can create as many as they like.
*/
type Metrics struct {
	registry *prometheus.Registry

	RequestDuration   *prometheus.HistogramVec
	Uploads           *prometheus.CounterVec
	UploadsLimited    prometheus.Counter
	LiveConnections   prometheus.Gauge
	ThumbnailsCreated prometheus.Counter
	CleanupRemoved    prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "couplestory",
			Name:      "http_request_duration_seconds",
			Help:      "Time spent serving HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "couplestory",
			Name:      "uploads_total",
			Help:      "Uploads received, by folder and whether a placeholder was returned.",
		}, []string{"folder", "mock"}),
		UploadsLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "couplestory",
			Name:      "uploads_rate_limited_total",
			Help:      "Uploads rejected by the per client rate limit.",
		}),
		LiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "couplestory",
			Name:      "live_connections",
			Help:      "Open live story websocket connections.",
		}),
		ThumbnailsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "couplestory",
			Name:      "thumbnails_created_total",
			Help:      "Photo thumbnails written to storage.",
		}),
		CleanupRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "couplestory",
			Name:      "cleanup_removed_total",
			Help:      "Unreferenced uploads removed by the cleanup routine.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
		m.Uploads,
		m.UploadsLimited,
		m.LiveConnections,
		m.ThumbnailsCreated,
		m.CleanupRemoved,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

/*
ObserveRequest records one served request. Route is the registered pattern,
not the raw path, to keep label cardinality bounded.
*/
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveUpload(folder string, mock bool) {
	m.Uploads.WithLabelValues(folder, strconv.FormatBool(mock)).Inc()
}
