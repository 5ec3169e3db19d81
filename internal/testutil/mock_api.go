// Package testutil provides testing utilities for the payments viewer.
package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/shopspring/decimal"
)

// SearchPath is the path the mock serves searches on.
const SearchPath = "/api/payments/search"

// MockResponse overrides the next responses of the mock API.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is an httptest server that answers payment searches from an
// in-memory dataset, with ETag support and scripted failures.
type MockAPI struct {
	server *httptest.Server

	mu        sync.RWMutex
	payments  []payments.Payment
	overrides []MockResponse
	hold      map[string]chan struct{}

	// Tracking
	RequestCount     int
	ConditionalCount int
	Queries          []string
}

// NewMockAPI starts a mock API serving data.
func NewMockAPI(data []payments.Payment) *MockAPI {
	mock := &MockAPI{
		payments: data,
		hold:     make(map[string]chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(SearchPath, mock.handleSearch)
	mock.server = httptest.NewServer(mux)

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// SearchURL returns the full search endpoint URL.
func (m *MockAPI) SearchURL() string {
	return m.server.URL + SearchPath
}

// Close shuts down the mock server, releasing held requests first.
func (m *MockAPI) Close() {
	m.mu.Lock()
	for q, ch := range m.hold {
		close(ch)
		delete(m.hold, q)
	}
	m.mu.Unlock()
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.Queries = nil
}

// SetPayments replaces the dataset.
func (m *MockAPI) SetPayments(data []payments.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = data
}

// Enqueue queues responses that are served, in order, before the dataset.
func (m *MockAPI) Enqueue(resps ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides = append(m.overrides, resps...)
}

// Hold blocks requests whose encoded query equals rawQuery until the
// returned release function is called.
func (m *MockAPI) Hold(rawQuery string) (release func()) {
	ch := make(chan struct{})

	m.mu.Lock()
	m.hold[rawQuery] = ch
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if m.hold[rawQuery] == ch {
				delete(m.hold, rawQuery)
			}
			m.mu.Unlock()
			close(ch)
		})
	}
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockAPI) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// GetQueries returns the raw query strings received, in order.
func (m *MockAPI) GetQueries() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.Queries...)
}

func (m *MockAPI) handleSearch(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.RequestCount++
	m.Queries = append(m.Queries, r.URL.RawQuery)
	if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
		m.ConditionalCount++
	}

	var override *MockResponse
	if len(m.overrides) > 0 {
		o := m.overrides[0]
		m.overrides = m.overrides[1:]
		override = &o
	}
	held := m.hold[r.URL.RawQuery]
	data := m.payments
	m.mu.Unlock()

	if held != nil {
		select {
		case <-held:
		case <-r.Context().Done():
			return
		}
	}

	if override != nil {
		if override.Delay > 0 {
			time.Sleep(override.Delay)
		}
		for key, value := range override.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(override.StatusCode)
		if override.Body != "" {
			w.Write([]byte(override.Body))
		}
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	if page < 1 || pageSize < 1 {
		http.Error(w, `{"error":"invalid page or pageSize"}`, http.StatusBadRequest)
		return
	}

	body, err := json.Marshal(Search(data, q.Get("search"), q.Get("currency"), page, pageSize))
	if err != nil {
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("ETag", etag)

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Search filters data the way the payments API does: search is a
// case-insensitive substring match on id, customer name and description,
// currency is an exact match.
func Search(data []payments.Payment, search, currency string, page, pageSize int) payments.SearchResponse {
	needle := strings.ToLower(search)

	matched := make([]payments.Payment, 0, len(data))
	for _, p := range data {
		if currency != "" && p.Currency != currency {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.ID), needle) &&
			!strings.Contains(strings.ToLower(p.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		matched = append(matched, p)
	}

	start := min((page-1)*pageSize, len(matched))
	end := min(start+pageSize, len(matched))

	return payments.SearchResponse{
		Payments: matched[start:end],
		Total:    len(matched),
		Page:     page,
		PageSize: pageSize,
	}
}

// SamplePayments returns n deterministic payments cycling through the
// currency set and statuses.
func SamplePayments(n int) []payments.Payment {
	statuses := []payments.Status{
		payments.StatusCompleted,
		payments.StatusPending,
		payments.StatusFailed,
		payments.StatusRefunded,
	}
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	out := make([]payments.Payment, n)
	for i := range out {
		out[i] = payments.Payment{
			ID:              fmt.Sprintf("pay_%03d", i+1),
			Date:            base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
			Amount:          decimal.New(int64(1000+i*125), -1),
			CustomerName:    fmt.Sprintf("Customer %d", i+1),
			CustomerAddress: fmt.Sprintf("%d High Street", i+1),
			Currency:        payments.Currencies[i%len(payments.Currencies)],
			Status:          statuses[i%len(statuses)],
			Description:     fmt.Sprintf("Invoice %d", 1000+i),
		}
	}
	return out
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error": "Payment not found"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewMalformedResponse creates a 200 response whose body is not JSON.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `<html>maintenance</html>`,
		Headers:    map[string]string{"Content-Type": "text/html"},
	}
}
