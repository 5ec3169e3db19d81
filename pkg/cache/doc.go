// Package cache keeps recent payment search responses so that revisiting a
// filter can be revalidated with a conditional request instead of a full
// download.
//
// Entries live in two layers:
//
//   - memory: an in-process github.com/patrickmn/go-cache store, always on
//   - redis: optional, shared between viewer processes
//
// A lookup checks memory first, then redis; a redis hit is promoted to memory.
// Writes go to every configured layer.
//
// # Basic Usage
//
//	manager := cache.NewManager(cache.Options{TTL: 5 * time.Minute})
//
//	key := cache.Key{
//		Endpoint: "/api/payments/search",
//		Query:    url.Values{"page": []string{"1"}, "pageSize": []string{"5"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API
//	}
//
// # Conditional Requests
//
//	if cache.CanRevalidate(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// a 304 means entry.Data is still current
//	}
//
// The client never skips the request because of a cached entry: every
// distinct filter value still produces one GET, the cache only saves the body.
//
// # Metrics
//
//   - payments_cache_hits_total{layer} - hits by layer (memory, redis)
//   - payments_cache_misses_total - misses across all layers
//   - payments_304_responses_total - revalidations answered with 304
//   - payments_cache_errors_total{operation} - redis and codec failures
package cache
