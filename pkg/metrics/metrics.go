// Package metrics exposes the Prometheus registry used by the payments viewer.
// Metrics are defined next to the code that records them (client, cache,
// fetch, web) and registered through promauto on the default registerer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the payments viewer.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back what Registry collected.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the collected metrics in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - payments_requests_total{status} (Counter): Search requests by HTTP status or network_error
//   - payments_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - payments_errors_total{class} (Counter): Errors by class (not_found, server, client, upstream, network, decode)
//
// Retry Metrics (pkg/client):
//   - payments_retries_total{error_class} (Counter): Retry attempts by error class
//   - payments_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - payments_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - payments_cache_hits_total{layer="memory"|"redis"} (Counter): Cache hits by layer
//   - payments_cache_misses_total (Counter): Cache misses
//   - payments_304_responses_total (Counter): Searches answered from cache after revalidation
//   - payments_cache_errors_total{operation} (Counter): Cache operation errors
//
// Fetch Metrics (pkg/fetch):
//   - payments_stale_responses_total (Counter): Results dropped because newer filters were committed
//
// HTTP View Metrics (internal/web):
//   - payments_http_requests_total{method, route, status} (Counter): Requests served
//   - payments_http_request_duration_seconds{route} (Histogram): Time to render a response
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(payments_cache_hits_total[5m])) /
//   (sum(rate(payments_cache_hits_total[5m])) + sum(rate(payments_cache_misses_total[5m])))
//
//   # Search Error Rate
//   rate(payments_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(payments_request_duration_seconds_bucket[5m]))
//
//   # Revalidation Rate
//   rate(payments_304_responses_total[5m]) / rate(payments_requests_total[5m])
