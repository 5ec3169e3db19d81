// Package client provides the payments search API client with error
// classification, response caching and metrics.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/payments-view/pkg/cache"
	"github.com/Sternrassler/payments-view/pkg/logging"
	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for API client operations.
var (
	paymentsRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_requests_total",
		Help: "Total payments API requests by status",
	}, []string{"status"})

	paymentsRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payments_request_duration_seconds",
		Help:    "Payments API request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	paymentsErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_errors_total",
		Help: "Total payments API errors by class",
	}, []string{"class"})
)

// Client talks to the payments search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the full search endpoint, e.g.
	// "http://localhost:3000/api/payments/search".
	BaseURL string

	UserAgent string

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration

	// Retry; MaxAttempts of 1 disables retries.
	MaxAttempts    int
	InitialBackoff time.Duration

	// Cache enables conditional revalidation. Nil disables caching.
	Cache *cache.Manager
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		UserAgent:      "payments-view/0.1.0",
		Timeout:        30 * time.Second,
		MaxAttempts:    1,
		InitialBackoff: 1 * time.Second,
	}
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("max_attempts must be >= 1 (got %d)", cfg.MaxAttempts)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		cache:      cfg.Cache,
		config:     cfg,
		logger:     logging.NewLogger("payments-client"),
	}, nil
}

// Search fetches one page of payments for f.
func (c *Client) Search(ctx context.Context, f payments.Filters) (*payments.SearchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(f), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out payments.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		paymentsErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		c.logger.Warn().Err(err).Str("endpoint", req.URL.Path).Msg("Malformed search response")
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassDecode,
			Message:    "decode search response",
			Err:        err,
		}
	}

	if out.Total < 0 {
		paymentsErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		c.logger.Warn().Int("total", out.Total).Str("endpoint", req.URL.Path).Msg("Negative total in search response")
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassDecode,
			Message:    fmt.Sprintf("negative total %d", out.Total),
		}
	}

	if out.Payments == nil {
		out.Payments = []payments.Payment{}
	}

	return &out, nil
}

// SearchURL returns the request URL for f.
func (c *Client) SearchURL(f payments.Filters) string {
	u := *c.baseURL
	u.RawQuery = payments.BuildQuery(f).Encode()
	return u.String()
}

// Do performs a GET with conditional revalidation, classification and
// metrics. Any status >= 400 is returned as an *APIError; a 304 is answered
// from the cache as if it were a 200.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		paymentsRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	requestID := uuid.NewString()
	logger := c.logger.With().
		Str("endpoint", endpoint).
		Str("request_id", requestID).
		Logger()

	cacheKey := cache.Key{
		Endpoint: endpoint,
		Query:    req.URL.Query(),
	}

	var cached *cache.Entry
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			cached = entry
		case !errors.Is(err, cache.ErrCacheMiss):
			logger.Warn().Err(err).Msg("Cache get error")
		}

		if cache.CanRevalidate(cached) {
			cache.AddConditionalHeaders(req, cached)
			logger.Debug().Str("etag", cached.ETag).Msg("Making conditional request")
		}
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	logger.Debug().Str("method", req.Method).Msg("Executing payments request")

	retry := DefaultRetryConfig()
	retry.MaxAttempts = c.config.MaxAttempts
	if c.config.InitialBackoff > 0 {
		retry.InitialBackoff = c.config.InitialBackoff
	}

	var resp *http.Response
	err := retryWithBackoff(ctx, retry, logger, func() (ErrorClass, error) {
		r, reqErr := c.httpClient.Do(req)
		if reqErr != nil {
			paymentsErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			paymentsRequestsTotal.WithLabelValues("network_error").Inc()
			logger.Error().Err(reqErr).Msg("HTTP request failed")
			return ErrorClassNetwork, &APIError{
				Class:   ErrorClassNetwork,
				Message: "request failed",
				Err:     reqErr,
			}
		}

		paymentsRequestsTotal.WithLabelValues(strconv.Itoa(r.StatusCode)).Inc()

		if r.StatusCode >= 400 {
			class := classifyStatus(r.StatusCode)
			paymentsErrorsTotal.WithLabelValues(string(class)).Inc()

			logger.Warn().
				Int("status", r.StatusCode).
				Str("error_class", string(class)).
				Msg("Payments request error")

			_, _ = io.Copy(io.Discard, r.Body)
			r.Body.Close()

			return class, &APIError{
				StatusCode: r.StatusCode,
				Class:      class,
				Message:    r.Status,
			}
		}

		resp = r
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotModified {
		resp.Body.Close()

		if cached == nil {
			paymentsErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Class:      ErrorClassDecode,
				Message:    "304 Not Modified without a cached response",
			}
		}

		cache.NotModifiedResponses.Inc()
		if err := c.cache.Touch(ctx, cacheKey); err != nil {
			logger.Warn().Err(err).Msg("Failed to extend cache entry")
		}

		logger.Debug().Bool("cache_hit", true).Msg("304 Not Modified - using cache")
		return cache.EntryToResponse(cached, req), nil
	}

	if c.cache != nil && resp.StatusCode == http.StatusOK {
		entry, err := cache.ResponseToEntry(resp, c.cache.TTL())
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache response")
		}
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(startTime)).
		Msg("Payments request complete")

	return resp, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Cache returns the cache manager, nil when caching is disabled.
func (c *Client) Cache() *cache.Manager {
	return c.cache
}
