package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"path", "method", "status"})

	// IdempotencyOutcomes counts wrapper results by outcome:
	// executed, replayed, store_failed, lookup_failed.
	IdempotencyOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idempotency_outcomes_total",
		Help: "Idempotent operations by outcome.",
	}, []string{"route", "outcome"})

	IdempotencyRaces = promauto.NewCounter(prometheus.CounterOpts{
		Name: "idempotency_duplicate_key_races_total",
		Help: "Inserts discarded because another writer stored the key first.",
	})

	IdempotencySwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "idempotency_records_swept_total",
		Help: "Idempotency records removed by the TTL sweep.",
	})

	CallbackRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_callback_requests_total",
		Help: "Outbound workflow callbacks by result.",
	}, []string{"result"})
)
