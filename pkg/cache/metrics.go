package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer ("memory", "redis").
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_cache_hits_total",
			Help: "Total number of payment search cache hits",
		},
		[]string{"layer"},
	)

	// CacheMisses tracks lookups that found nothing in any layer.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_cache_misses_total",
			Help: "Total number of payment search cache misses",
		},
	)

	// NotModifiedResponses tracks revalidations answered with 304.
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_304_responses_total",
			Help: "Total number of 304 Not Modified responses served from cache",
		},
	)

	// CacheErrors tracks cache operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
