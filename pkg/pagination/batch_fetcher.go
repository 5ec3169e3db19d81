package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/rs/zerolog/log"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests
	MaxConcurrency int
	// Timeout per page fetch
	Timeout time.Duration
	// MaxPages caps the number of pages one fetch may walk. A total that
	// needs more pages fails after page 1.
	MaxPages int
	// OnProgress is called after every fetched page, from the collecting
	// goroutine only.
	OnProgress func(fetched, total int)
}

// DefaultMaxPages is the page cap used when Config.MaxPages is unset.
const DefaultMaxPages = 10000

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
		MaxPages:       DefaultMaxPages,
	}
}

// PageFetcher fetches one page of a search. *client.Client implements it.
type PageFetcher interface {
	Search(ctx context.Context, f payments.Filters) (*payments.SearchResponse, error)
}

// PageResult represents the result of fetching a single page
type PageResult struct {
	PageNumber int
	Payments   []payments.Payment
	Error      error
}

// Result is every payment matching a filter, in page order.
type Result struct {
	Payments   []payments.Payment
	Total      int
	TotalPages int
}

// BatchFetcher handles parallel fetching of multiple pages
type BatchFetcher struct {
	fetcher PageFetcher
	config  Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher(fetcher PageFetcher, config Config) *BatchFetcher {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.MaxPages <= 0 {
		config.MaxPages = DefaultMaxPages
	}

	return &BatchFetcher{
		fetcher: fetcher,
		config:  config,
	}
}

// FetchAll fetches every page of filters. The page of filters is ignored;
// page 1 is fetched first to learn the total, the rest through the worker
// pool. The first failing page aborts the whole fetch.
func (bf *BatchFetcher) FetchAll(ctx context.Context, filters payments.Filters) (*Result, error) {
	start := time.Now()

	first := filters
	first.Page = 1

	firstPage, err := bf.fetchPage(ctx, first)
	if err != nil {
		return nil, fmt.Errorf("fetch page 1: %w", err)
	}
	if firstPage.Total < 0 {
		return nil, fmt.Errorf("fetch page 1: negative total %d", firstPage.Total)
	}

	totalPages := payments.TotalPages(firstPage.Total, filters.PageSize)
	if totalPages > bf.config.MaxPages {
		return nil, fmt.Errorf("total %d needs %d pages, limit is %d", firstPage.Total, totalPages, bf.config.MaxPages)
	}

	log.Info().
		Str("search", filters.Search).
		Str("currency", filters.Currency).
		Int("total", firstPage.Total).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	bf.progress(1, totalPages)

	pages := map[int][]payments.Payment{1: firstPage.Payments}

	if totalPages > 1 {
		if err := bf.fetchRemaining(ctx, filters, totalPages, pages); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Total:      firstPage.Total,
		TotalPages: totalPages,
	}
	for page := 1; page <= totalPages; page++ {
		result.Payments = append(result.Payments, pages[page]...)
	}
	if result.Payments == nil {
		result.Payments = []payments.Payment{}
	}

	log.Info().
		Int("pages", totalPages).
		Int("payments", len(result.Payments)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return result, nil
}

func (bf *BatchFetcher) fetchRemaining(ctx context.Context, filters payments.Filters, totalPages int, pages map[int][]payments.Payment) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pageQueue := make(chan int)
	pageResults := make(chan PageResult, bf.config.MaxConcurrency)

	go func() {
		defer close(pageQueue)
		for page := 2; page <= totalPages; page++ {
			select {
			case pageQueue <- page:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < bf.config.MaxConcurrency; i++ {
		wg.Add(1)
		go bf.worker(ctx, filters, pageQueue, pageResults, &wg, i)
	}

	go func() {
		wg.Wait()
		close(pageResults)
	}()

	fetched := 1
	var firstErr error
	for result := range pageResults {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("fetch page %d: %w", result.PageNumber, result.Error)
				cancel()
			}
			continue
		}
		if firstErr != nil {
			continue
		}

		pages[result.PageNumber] = result.Payments
		fetched++
		bf.progress(fetched, totalPages)
	}

	if firstErr != nil {
		log.Warn().
			Err(firstErr).
			Int("fetched_pages", fetched).
			Int("total_pages", totalPages).
			Msg("Batch fetch aborted")
		return firstErr
	}

	if fetched < totalPages {
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		return fmt.Errorf("batch fetch interrupted after %d/%d pages: %w", fetched, totalPages, err)
	}

	return nil
}

// worker processes pages from the queue
func (bf *BatchFetcher) worker(ctx context.Context, filters payments.Filters, pageQueue <-chan int, results chan<- PageResult, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	pagesProcessed := 0

	for pageNum := range pageQueue {
		select {
		case <-ctx.Done():
			log.Debug().
				Int("worker_id", workerID).
				Int("pages_processed", pagesProcessed).
				Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		f := filters
		f.Page = pageNum

		resp, err := bf.fetchPage(ctx, f)
		if err != nil {
			log.Warn().
				Err(err).
				Int("worker_id", workerID).
				Int("page", pageNum).
				Msg("Page fetch failed")
			results <- PageResult{PageNumber: pageNum, Error: err}
			return
		}

		results <- PageResult{PageNumber: pageNum, Payments: resp.Payments}
		pagesProcessed++
	}

	if pagesProcessed > 0 {
		log.Debug().
			Int("worker_id", workerID).
			Int("pages_processed", pagesProcessed).
			Msg("Worker completed")
	}
}

func (bf *BatchFetcher) fetchPage(ctx context.Context, f payments.Filters) (*payments.SearchResponse, error) {
	pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
	defer cancel()

	resp, err := bf.fetcher.Search(pageCtx, f)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("empty response")
	}
	return resp, nil
}

func (bf *BatchFetcher) progress(fetched, total int) {
	if bf.config.OnProgress != nil {
		bf.config.OnProgress(fetched, total)
	}
}
