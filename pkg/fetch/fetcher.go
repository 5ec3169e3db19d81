// Package fetch turns committed filters into search results for a view.
//
// A Fetcher tracks the most recent Filters value. Begin starts a fetch only
// when the value changed, tags it with a generation and cancels the one it
// replaces; Complete applies a result only if its generation is still
// current. Views drive the three steps from their own event loop:
//
//	ticket, started := f.Begin(ctx, filters)
//	if started {
//		go func() {
//			resp, err := f.Run(ticket)
//			f.Complete(ticket, resp, err)
//		}()
//	}
package fetch

import (
	"context"
	"sync"

	"github.com/Sternrassler/payments-view/pkg/i18n"
	"github.com/Sternrassler/payments-view/pkg/logging"
	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var staleResponses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "payments_stale_responses_total",
	Help: "Search results dropped because newer filters were committed",
})

// Searcher fetches one page of payments.
type Searcher interface {
	Search(ctx context.Context, f payments.Filters) (*payments.SearchResponse, error)
}

// Result is what a view renders from. Exactly one of IsLoading, a non-empty
// ErrorMessage, or a non-nil Data describes a settled fetch.
type Result struct {
	Data         *payments.SearchResponse
	IsLoading    bool
	ErrorMessage string
}

// Ticket identifies one started fetch.
type Ticket struct {
	Generation uint64
	Filters    payments.Filters

	ctx context.Context
}

// Fetcher is safe for concurrent use.
type Fetcher struct {
	searcher Searcher
	logger   zerolog.Logger

	mu         sync.Mutex
	generation uint64
	current    payments.Filters
	started    bool
	cancel     context.CancelFunc
	result     Result
}

// New creates a Fetcher backed by s.
func New(s Searcher) *Fetcher {
	return &Fetcher{
		searcher: s,
		logger:   logging.NewLogger("fetcher"),
	}
}

// Begin starts a fetch for filters unless it equals the filters of the
// previous Begin. The previous in-flight fetch, if any, is cancelled and its
// result will be dropped by Complete.
func (f *Fetcher) Begin(ctx context.Context, filters payments.Filters) (Ticket, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.started && filters == f.current {
		return Ticket{}, false
	}
	return f.beginLocked(ctx, filters), true
}

// Refresh starts a fetch for the current filters even though they did not
// change. It reports false before the first Begin.
func (f *Fetcher) Refresh(ctx context.Context) (Ticket, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return Ticket{}, false
	}
	return f.beginLocked(ctx, f.current), true
}

func (f *Fetcher) beginLocked(ctx context.Context, filters payments.Filters) Ticket {
	if f.cancel != nil {
		f.cancel()
	}

	f.generation++
	f.current = filters
	f.started = true
	f.result = Result{IsLoading: true}

	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	f.logger.Debug().
		Uint64("generation", f.generation).
		Str("search", filters.Search).
		Str("currency", filters.Currency).
		Int("page", filters.Page).
		Int("page_size", filters.PageSize).
		Msg("Fetch started")

	return Ticket{Generation: f.generation, Filters: filters, ctx: runCtx}
}

// Run performs the search for t. It does not touch the Fetcher state.
func (f *Fetcher) Run(t Ticket) (*payments.SearchResponse, error) {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return f.searcher.Search(ctx, t.Filters)
}

// Complete records the outcome of t. It returns false, leaving the state
// untouched, when a newer fetch has begun since t.
func (f *Fetcher) Complete(t Ticket, resp *payments.SearchResponse, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t.Generation != f.generation {
		staleResponses.Inc()
		f.logger.Debug().
			Uint64("generation", t.Generation).
			Uint64("current", f.generation).
			Msg("Dropping stale search result")
		return false
	}

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}

	f.result = resultOf(resp, err)
	if err != nil {
		f.logger.Warn().Err(err).Uint64("generation", t.Generation).Msg("Search failed")
	}
	return true
}

// Result returns the state of the current fetch.
func (f *Fetcher) Result() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Filters returns the filters of the current fetch.
func (f *Fetcher) Filters() payments.Filters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Generation returns the generation of the current fetch, 0 before the
// first Begin.
func (f *Fetcher) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generation
}

// Close cancels the in-flight fetch, if any.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// Load runs one search synchronously, for request/response views that have
// no previous state to protect.
func Load(ctx context.Context, s Searcher, filters payments.Filters) Result {
	resp, err := s.Search(ctx, filters)
	return resultOf(resp, err)
}

func resultOf(resp *payments.SearchResponse, err error) Result {
	if err != nil {
		return Result{ErrorMessage: i18n.ErrorMessage(err)}
	}
	if resp == nil {
		return Result{ErrorMessage: i18n.SomethingWentWrong}
	}
	return Result{Data: resp}
}
