// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schoolhub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by statement kind.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schoolhub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// CacheHits counts cache-aside hits and misses by key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schoolhub_cache_hits_total",
		Help: "Total number of cache lookups by key prefix and outcome",
	}, []string{"prefix", "outcome"})
)
