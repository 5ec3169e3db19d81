package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/payments-view/internal/testutil"
	"github.com/Sternrassler/payments-view/pkg/client"
	"github.com/Sternrassler/payments-view/pkg/i18n"
	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, api *testutil.MockAPI, rdb *redis.Client) *Server {
	t.Helper()

	cfg := client.DefaultConfig(api.SearchURL())
	cfg.Timeout = 5 * time.Second
	c, err := client.New(cfg)
	require.NoError(t, err)

	s, err := NewServer(Config{Searcher: c, PageSize: 5, Redis: rdb})
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestNewServer_RequiresSearcher(t *testing.T) {
	_, err := NewServer(Config{})
	assert.Error(t, err)
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		want   payments.Filters
		inputs payments.Inputs
	}{
		{
			name:  "empty query uses defaults",
			query: "",
			want:  payments.Filters{Page: 1, PageSize: 5},
		},
		{
			name:   "all values",
			query:  "search=acme&currency=GBP&page=3&pageSize=10",
			want:   payments.Filters{Search: "acme", Currency: "GBP", Page: 3, PageSize: 10},
			inputs: payments.Inputs{Search: "acme", Currency: "GBP"},
		},
		{
			name:  "invalid ints fall back",
			query: "page=abc&pageSize=-2",
			want:  payments.Filters{Page: 1, PageSize: 5},
		},
		{
			name:  "zero page falls back",
			query: "page=0&pageSize=0",
			want:  payments.Filters{Page: 1, PageSize: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, inputs := ParseFilters(q, 5)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.inputs, inputs)
		})
	}
}

func TestIndex_RendersRows(t *testing.T) {
	api := testutil.NewMockAPI(testutil.SamplePayments(12))
	defer api.Close()
	s := newTestServer(t, api, nil)

	code, body := get(t, s, "/")

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<title>"+i18n.PageTitle+"</title>")
	for _, col := range i18n.Columns {
		assert.Contains(t, body, "<th>"+col+"</th>")
	}
	assert.Contains(t, body, "pay_001")
	assert.Contains(t, body, "01/03/2024, 09:00:00")
	assert.Contains(t, body, "100.00")
	assert.Contains(t, body, `class="status-completed"`)
	assert.NotContains(t, body, "pay_006", "only the first page is shown")
	assert.Equal(t, []string{"page=1&pageSize=5"}, api.GetQueries())
}

func TestIndex_PaginationLinks(t *testing.T) {
	api := testutil.NewMockAPI(testutil.SamplePayments(12))
	defer api.Close()
	s := newTestServer(t, api, nil)

	_, first := get(t, s, "/")
	assert.NotContains(t, first, `id="previous"`)
	assert.Contains(t, first, `id="next" href="/?page=2&amp;pageSize=5"`)
	assert.Contains(t, first, "Page 1")

	_, middle := get(t, s, "/?page=2&pageSize=5")
	assert.Contains(t, middle, `id="previous" href="/?page=1&amp;pageSize=5"`)
	assert.Contains(t, middle, `id="next" href="/?page=3&amp;pageSize=5"`)
	assert.Contains(t, middle, "pay_006")

	_, last := get(t, s, "/?page=3&pageSize=5")
	assert.Contains(t, last, `id="previous"`)
	assert.NotContains(t, last, `id="next"`)
}

func TestIndex_NoPaginationOnSinglePage(t *testing.T) {
	api := testutil.NewMockAPI(testutil.SamplePayments(3))
	defer api.Close()
	s := newTestServer(t, api, nil)

	_, body := get(t, s, "/")
	assert.NotContains(t, body, `class="pagination"`)
	assert.NotContains(t, body, i18n.NextButton)
}

func TestIndex_FiltersAndClearLink(t *testing.T) {
	api := testutil.NewMockAPI(testutil.SamplePayments(16))
	defer api.Close()
	s := newTestServer(t, api, nil)

	_, plain := get(t, s, "/")
	assert.NotContains(t, plain, `id="clear"`)

	_, body := get(t, s, "/?currency=USD&pageSize=5")
	assert.Contains(t, body, `<option value="USD" selected>USD</option>`)
	assert.Contains(t, body, `id="clear" href="/?page=1&amp;pageSize=5"`)
	assert.Contains(t, body, "pay_001")
	assert.Contains(t, body, "pay_009")
	assert.NotContains(t, body, "pay_002")

	queries := api.GetQueries()
	require.Len(t, queries, 2)
	assert.Equal(t, "currency=USD&page=1&pageSize=5", queries[1])
}

func TestIndex_SearchValueIsEscaped(t *testing.T) {
	api := testutil.NewMockAPI(testutil.SamplePayments(3))
	defer api.Close()
	s := newTestServer(t, api, nil)

	_, body := get(t, s, "/?search="+url.QueryEscape(`<script>`))
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, i18n.NoPaymentsFound)
}

func TestIndex_States(t *testing.T) {
	tests := []struct {
		name    string
		resp    *testutil.MockResponse
		data    []payments.Payment
		id      string
		message string
	}{
		{"not found", ptr(testutil.NewNotFoundResponse()), nil, "state-error", i18n.PaymentNotFound},
		{"server error", ptr(testutil.NewServerErrorResponse()), nil, "state-error", i18n.InternalServerError},
		{"malformed", ptr(testutil.NewMalformedResponse()), nil, "state-error", i18n.SomethingWentWrong},
		{"empty", nil, nil, "state-empty", i18n.NoPaymentsFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := testutil.NewMockAPI(tt.data)
			defer api.Close()
			if tt.resp != nil {
				api.Enqueue(*tt.resp)
			}
			s := newTestServer(t, api, nil)

			code, body := get(t, s, "/")
			assert.Equal(t, http.StatusOK, code)
			assert.Contains(t, body, `id="`+tt.id+`"`)
			assert.Contains(t, body, tt.message)
			assert.NotContains(t, body, `class="pagination"`)
		})
	}
}

func TestHealth(t *testing.T) {
	api := testutil.NewMockAPI(nil)
	defer api.Close()
	s := newTestServer(t, api, nil)

	code, body := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body)
}

func TestReady(t *testing.T) {
	api := testutil.NewMockAPI(nil)
	defer api.Close()

	t.Run("without redis", func(t *testing.T) {
		code, _ := get(t, newTestServer(t, api, nil), "/ready")
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		rdb := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		})
		defer rdb.Close()

		code, _ := get(t, newTestServer(t, api, rdb), "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	api := testutil.NewMockAPI(testutil.SamplePayments(2))
	defer api.Close()
	s := newTestServer(t, api, nil)

	get(t, s, "/")
	code, body := get(t, s, "/metrics")

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(body, `payments_http_requests_total{method="GET",route="/",status="200"}`))
	assert.Contains(t, body, "payments_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	api := testutil.NewMockAPI(nil)
	defer api.Close()
	s := newTestServer(t, api, nil)

	code, _ := get(t, s, "/nope")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Zero(t, api.GetRequestCount())
}

func ptr[T any](v T) *T { return &v }
