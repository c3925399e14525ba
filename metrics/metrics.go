package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ListingQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listing_query_duration_seconds",
			Help:    "Duration of filtered listing queries (count plus page) in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"entity", "result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "route", "status"},
	)

	ViewIncrements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_view_increments_total",
			Help: "View counter increments, by entity and whether the view was counted",
		},
		[]string{"entity", "counted"},
	)

	OutboxEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_events_total",
			Help: "Outbox events handled by the dispatcher, by sink and result",
		},
		[]string{"sink", "result"},
	)
)

func RecordListingQuery(entity, result string, d time.Duration) {
	ListingQueryDuration.WithLabelValues(entity, result).Observe(d.Seconds())
}

func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func RecordView(entity string, counted bool) {
	label := "false"
	if counted {
		label = "true"
	}
	ViewIncrements.WithLabelValues(entity, label).Inc()
}

func RecordOutbox(sink, result string, n int) {
	OutboxEvents.WithLabelValues(sink, result).Add(float64(n))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
