// Package payments defines the payment search domain: the records returned by
// the payments API, the committed filter state that drives a search, and the
// pure transitions and pagination arithmetic derived from them.
package payments

import (
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a payment as reported by the API.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Valid reports whether s is one of the known payment statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

// Payment is a single payment record. It is owned by the server and never
// mutated by the viewer.
type Payment struct {
	ID              string          `json:"id" yaml:"id"`
	Date            string          `json:"date" yaml:"date"`
	Amount          decimal.Decimal `json:"amount" yaml:"amount"`
	CustomerName    string          `json:"customerName" yaml:"customerName"`
	CustomerAddress string          `json:"customerAddress" yaml:"customerAddress"`
	Currency        string          `json:"currency" yaml:"currency"`
	Status          Status          `json:"status" yaml:"status"`
	Description     string          `json:"description" yaml:"description"`
	ClientID        string          `json:"clientId,omitempty" yaml:"clientId,omitempty"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Payments []Payment `json:"payments"`

	// Total counts every record matching the filter, not just this page.
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Currencies is the fixed set offered by the currency filter. The API does
// not enforce it.
var Currencies = []string{"USD", "EUR", "GBP", "AUD", "CAD", "JPY", "CHF", "ZAR"}
