// Package view derives what a payments screen shows from the committed
// filters, the transient inputs and the current fetch result. Both the
// terminal and the HTML front-ends render a Screen.
package view

import (
	"fmt"

	"github.com/Sternrassler/payments-view/pkg/fetch"
	"github.com/Sternrassler/payments-view/pkg/i18n"
	"github.com/Sternrassler/payments-view/pkg/payments"
)

// State selects the body of the screen.
type State int

const (
	StateLoading State = iota
	StateError
	StateEmpty
	StateRows
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StateRows:
		return "rows"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Row is one formatted table row.
type Row struct {
	ID       string
	Date     string
	Amount   string
	Customer string
	Currency string
	Status   payments.Status
}

// Option is an entry of the currency selector.
type Option struct {
	Value string
	Label string
}

// Screen is everything a front-end needs to draw the payments page.
type Screen struct {
	Title   string
	Filters payments.Filters
	Inputs  payments.Inputs

	State   State
	Message string
	Rows    []Row

	Pagination     payments.Pagination
	ShowPagination bool
	PageLabel      string

	ShowClear bool
}

// Build decides the screen for res. Loading and error states never show
// rows, and pagination only shows with rows on more than one page.
func Build(filters payments.Filters, inputs payments.Inputs, res fetch.Result) Screen {
	s := Screen{
		Title:     i18n.PageTitle,
		Filters:   filters,
		Inputs:    inputs,
		ShowClear: payments.HasActiveFilters(filters),
	}

	switch {
	case res.IsLoading:
		s.State = StateLoading
		s.Message = i18n.Loading
		return s
	case res.ErrorMessage != "":
		s.State = StateError
		s.Message = res.ErrorMessage
		return s
	case res.Data == nil:
		s.State = StateLoading
		s.Message = i18n.Loading
		return s
	case len(res.Data.Payments) == 0:
		s.State = StateEmpty
		s.Message = i18n.NoPaymentsFound
		return s
	}

	s.State = StateRows
	s.Rows = Rows(res.Data.Payments)
	s.Pagination = payments.ForResponse(filters, res.Data)
	s.ShowPagination = s.Pagination.Visible(len(s.Rows))
	s.PageLabel = fmt.Sprintf(i18n.PageFormat, filters.Page)

	return s
}

// Rows formats payments for display.
func Rows(ps []payments.Payment) []Row {
	rows := make([]Row, len(ps))
	for i, p := range ps {
		rows[i] = Row{
			ID:       p.ID,
			Date:     FormatDate(p.Date),
			Amount:   FormatAmount(p.Amount),
			Customer: Customer(p),
			Currency: Currency(p),
			Status:   p.Status,
		}
	}
	return rows
}

// CurrencyOptions returns the selector entries, "all currencies" first.
func CurrencyOptions() []Option {
	opts := make([]Option, 0, len(payments.Currencies)+1)
	opts = append(opts, Option{Value: "", Label: i18n.AllCurrencies})
	for _, c := range payments.Currencies {
		opts = append(opts, Option{Value: c, Label: c})
	}
	return opts
}
