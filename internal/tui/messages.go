package tui

import (
	"github.com/Sternrassler/payments-view/pkg/fetch"
	"github.com/Sternrassler/payments-view/pkg/payments"
)

// fetchedMsg carries the outcome of one fetch back to the event loop.
type fetchedMsg struct {
	ticket fetch.Ticket
	resp   *payments.SearchResponse
	err    error
}
