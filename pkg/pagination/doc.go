// Package pagination fetches every page of a payments search in parallel.
//
// The search API returns the total match count with each page, so the first
// page tells how many pages follow. The remaining pages are fetched by a
// bounded worker pool and reassembled in page order.
//
// Example usage:
//
//	config := pagination.DefaultConfig()
//	fetcher := pagination.NewBatchFetcher(apiClient, config)
//	result, err := fetcher.FetchAll(ctx, payments.Filters{Currency: "GBP", PageSize: 50})
//
// The batch fetcher:
//   - Fetches page 1 to determine total pages
//   - Spawns worker pool (default 4 workers)
//   - Distributes remaining pages across workers
//   - Reports progress through Config.OnProgress
//   - Aborts on the first failing page
package pagination
