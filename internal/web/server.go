// Package web serves the payments list as server-rendered HTML. The query
// string of the page is the committed filter state. Submitting the form
// commits the inputs and resets to page 1; the clear and pagination links
// carry the filters they lead to.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/payments-view/pkg/fetch"
	"github.com/Sternrassler/payments-view/pkg/i18n"
	"github.com/Sternrassler/payments-view/pkg/logging"
	"github.com/Sternrassler/payments-view/pkg/metrics"
	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/Sternrassler/payments-view/pkg/view"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// readyTimeout bounds the readiness checks.
const readyTimeout = 2 * time.Second

// Config holds the dependencies of the HTML view.
type Config struct {
	Searcher fetch.Searcher
	PageSize int

	// Redis is pinged by /ready when set.
	Redis *redis.Client
}

// Server renders the payments page and the operational endpoints.
type Server struct {
	searcher fetch.Searcher
	pageSize int
	redis    *redis.Client
	tmpl     *template.Template
	router   *mux.Router
	logger   zerolog.Logger
}

// NewServer builds the router.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Searcher == nil {
		return nil, errors.New("searcher is required")
	}

	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"statusClass": func(s payments.Status) string { return "status-" + string(s) },
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		searcher: cfg.Searcher,
		pageSize: payments.DefaultFilters(cfg.PageSize).PageSize,
		redis:    cfg.Redis,
		tmpl:     tmpl,
		logger:   logging.NewLogger("web"),
	}

	r := mux.NewRouter()
	r.Use(instrument)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	s.router = r

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// page is the template data.
type page struct {
	view.Screen
	Currencies []view.Option
	Columns    []string
	PrevURL    string
	NextURL    string
	ClearURL   string

	SearchLabel       string
	SearchPlaceholder string
	CurrencyLabel     string
	SearchButton      string
	ClearFilters      string
	PreviousButton    string
	NextButton        string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	filters, inputs := ParseFilters(r.URL.Query(), s.pageSize)

	res := fetch.Load(r.Context(), s.searcher, filters)
	if res.ErrorMessage != "" {
		s.logger.Warn().
			Str("search", filters.Search).
			Str("currency", filters.Currency).
			Int("page", filters.Page).
			Str("message", res.ErrorMessage).
			Msg("Search failed")
	}

	screen := view.Build(filters, inputs, res)
	data := page{
		Screen:            screen,
		Currencies:        view.CurrencyOptions(),
		Columns:           i18n.Columns,
		SearchLabel:       i18n.SearchLabel,
		SearchPlaceholder: i18n.SearchPlaceholder,
		CurrencyLabel:     i18n.CurrencyLabel,
		SearchButton:      i18n.SearchButton,
		ClearFilters:      i18n.ClearFilters,
		PreviousButton:    i18n.PreviousButton,
		NextButton:        i18n.NextButton,
	}
	if screen.ShowClear {
		cleared, _ := payments.Clear(filters)
		data.ClearURL = pageURL(cleared)
	}
	if screen.ShowPagination {
		if screen.Pagination.CanGoPrevious {
			data.PrevURL = pageURL(payments.PreviousPage(filters))
		}
		if screen.Pagination.CanGoNext {
			data.NextURL = pageURL(payments.NextPage(filters, screen.Pagination.TotalPages))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render page")
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := s.redis.Ping(ctx).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("Redis not ready")
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "READY")
}

// ParseFilters reads the committed filters from a page query. Missing or
// invalid page and pageSize values fall back to the defaults. The returned
// inputs mirror the committed values, which is what the form shows.
func ParseFilters(q url.Values, defaultPageSize int) (payments.Filters, payments.Inputs) {
	f := payments.DefaultFilters(defaultPageSize)
	f.Search = q.Get("search")
	f.Currency = q.Get("currency")

	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 1 {
		f.Page = n
	}
	if n, err := strconv.Atoi(q.Get("pageSize")); err == nil && n >= 1 {
		f.PageSize = n
	}

	return f, payments.Inputs{Search: f.Search, Currency: f.Currency}
}

func pageURL(f payments.Filters) string {
	return "/?" + payments.BuildQuery(f).Encode()
}
