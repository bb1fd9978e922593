package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route template and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "code"},
	)

	// HTTPRequestDuration tracks request latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movies_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// FailuresTotal counts error responses by failure kind
	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_failures_total",
			Help: "Total number of error responses by failure kind",
		},
		[]string{"kind"},
	)

	// DBQueryDuration tracks repository call latency
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movies_db_query_duration_seconds",
			Help:    "Repository operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// TransactionsTotal counts finished write transactions by outcome (commit, rollback)
	TransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_db_transactions_total",
			Help: "Total number of finished transactions",
		},
		[]string{"outcome"},
	)

	// EventsPublishedTotal counts movie events sent to the broker by result
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_events_published_total",
			Help: "Total number of movie events published",
		},
		[]string{"type", "result"},
	)

	// CacheLookupsTotal counts response cache hits and misses
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_cache_lookups_total",
			Help: "Total number of response cache lookups",
		},
		[]string{"result"},
	)
)
