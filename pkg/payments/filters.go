package payments

import (
	"net/url"
	"strconv"
)

// DefaultPageSize is the page size a freshly mounted view starts with.
const DefaultPageSize = 5

// Filters is the committed search state. Every distinct value drives exactly
// one fetch; the struct is comparable so value equality is ==.
type Filters struct {
	Search   string `json:"search"`
	Currency string `json:"currency"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// Inputs holds the uncommitted search and currency the user is editing.
type Inputs struct {
	Search   string
	Currency string
}

// DefaultFilters returns the state a view starts from. A non-positive
// pageSize falls back to DefaultPageSize.
func DefaultFilters(pageSize int) Filters {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return Filters{Page: 1, PageSize: pageSize}
}

// Commit copies the transient inputs into f and resets to the first page.
// PageSize is left untouched.
func Commit(f Filters, in Inputs) Filters {
	f.Search = in.Search
	f.Currency = in.Currency
	f.Page = 1
	return f
}

// Clear drops the committed search and currency, resets to the first page,
// and returns empty transient inputs alongside.
func Clear(f Filters) (Filters, Inputs) {
	f.Search = ""
	f.Currency = ""
	f.Page = 1
	return f, Inputs{}
}

// HasActiveFilters reports whether a search or currency filter is committed.
func HasActiveFilters(f Filters) bool {
	return f.Search != "" || f.Currency != ""
}

// BuildQuery maps f to the API query parameters. search and currency are
// only present when non-empty; page and pageSize are always present. No range
// validation happens here.
func BuildQuery(f Filters) url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Currency != "" {
		q.Set("currency", f.Currency)
	}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("pageSize", strconv.Itoa(f.PageSize))
	return q
}
