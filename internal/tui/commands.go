package tui

import (
	"github.com/Sternrassler/payments-view/pkg/fetch"
	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/Sternrassler/payments-view/pkg/view"
	tea "github.com/charmbracelet/bubbletea"
)

// fetchCmd runs the search for ticket off the event loop.
func (m Model) fetchCmd(ticket fetch.Ticket) tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		resp, err := fetcher.Run(ticket)
		return fetchedMsg{ticket: ticket, resp: resp, err: err}
	}
}

// setFilters commits f and starts a fetch when it differs from the current
// value.
func (m Model) setFilters(f payments.Filters) (Model, tea.Cmd) {
	m.filters = f

	ticket, started := m.fetcher.Begin(m.ctx, f)
	if !started {
		return m, nil
	}

	m.result = m.fetcher.Result()
	return m, m.fetchCmd(ticket)
}

// commit applies the transient inputs.
func (m Model) commit() (Model, tea.Cmd) {
	m.search.Blur()
	return m.setFilters(payments.Commit(m.filters, m.inputs))
}

// clear drops the committed filters and resets the inputs.
func (m Model) clear() (Model, tea.Cmd) {
	if !payments.HasActiveFilters(m.filters) {
		return m, nil
	}

	f, in := payments.Clear(m.filters)
	m.inputs = in
	m.search.SetValue("")
	m.currencyIndex = 0
	return m.setFilters(f)
}

func (m Model) nextPage() (Model, tea.Cmd) {
	s := m.screen()
	if !s.ShowPagination || !s.Pagination.CanGoNext {
		return m, nil
	}
	return m.setFilters(payments.NextPage(m.filters, s.Pagination.TotalPages))
}

func (m Model) previousPage() (Model, tea.Cmd) {
	s := m.screen()
	if !s.ShowPagination || !s.Pagination.CanGoPrevious {
		return m, nil
	}
	return m.setFilters(payments.PreviousPage(m.filters))
}

func (m Model) refresh() (Model, tea.Cmd) {
	ticket, ok := m.fetcher.Refresh(m.ctx)
	if !ok {
		return m, nil
	}
	m.result = m.fetcher.Result()
	return m, m.fetchCmd(ticket)
}

// cycleCurrency moves the transient currency to the next option, wrapping
// back to all currencies.
func (m Model) cycleCurrency() Model {
	opts := view.CurrencyOptions()
	m.currencyIndex = (m.currencyIndex + 1) % len(opts)
	m.inputs.Currency = opts[m.currencyIndex].Value
	return m
}
