package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the lookup and API collectors.
type Metrics struct {
	LookupsTotal   *prometheus.CounterVec
	RequestSeconds prometheus.Histogram
	PolygonPoints  prometheus.Histogram
	InFlight       prometheus.Gauge
	JournalErrors  prometheus.Counter

	HTTPRequests *prometheus.CounterVec   // labelled by method, route and status
	HTTPDuration *prometheus.HistogramVec // labelled by method and route
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		LookupsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "parcel_lookups_total",
			Help: "Total number of parcel lookups by outcome.",
		}, []string{"status"}),
		RequestSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "parcel_lookup_duration_seconds",
			Help:    "Duration of requests to the ULDK service.",
			Buckets: prometheus.DefBuckets,
		}),
		PolygonPoints: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "parcel_polygon_points",
			Help:    "Number of vertices of successfully retrieved parcel outlines.",
			Buckets: prometheus.ExponentialBuckets(4, 2, 8),
		}),
		InFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "parcel_lookups_in_flight",
			Help: "Current number of parcel lookups waiting for the ULDK service.",
		}),
		JournalErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "parcel_journal_errors_total",
			Help: "Total number of lookups that could not be written to the journal.",
		}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "kataster_http_requests_total",
			Help: "Total HTTP requests served by the parcel API.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kataster_http_request_duration_seconds",
			Help:    "Parcel API request latency in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
	}
}
