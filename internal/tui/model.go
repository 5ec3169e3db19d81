// Package tui is the interactive terminal view of the payments list.
package tui

import (
	"context"

	"github.com/Sternrassler/payments-view/pkg/fetch"
	"github.com/Sternrassler/payments-view/pkg/i18n"
	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/Sternrassler/payments-view/pkg/view"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Config holds what the terminal view needs to run.
type Config struct {
	Searcher fetch.Searcher
	PageSize int
	Theme    *Theme
}

// Model holds the TUI state. Filters only change through setFilters, which
// routes every new value through the Fetcher.
type Model struct {
	ctx     context.Context
	fetcher *fetch.Fetcher
	theme   Theme
	keymap  KeyMap
	help    help.Model
	search  textinput.Model
	spinner spinner.Model

	filters       payments.Filters
	inputs        payments.Inputs
	result        fetch.Result
	currencyIndex int

	width    int
	height   int
	quitting bool
}

// New creates the model. ctx bounds every fetch it starts.
func New(ctx context.Context, cfg Config) Model {
	theme := DefaultTheme
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}

	search := textinput.New()
	search.Placeholder = i18n.SearchPlaceholder
	search.Prompt = ""
	search.CharLimit = 128
	search.Width = 32
	search.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		fetcher: fetch.New(cfg.Searcher),
		theme:   theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		search:  search,
		spinner: sp,
		filters: payments.DefaultFilters(cfg.PageSize),
	}
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	ticket, _ := m.fetcher.Begin(m.ctx, m.filters)
	return tea.Batch(m.fetchCmd(ticket), m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case fetchedMsg:
		if m.fetcher.Complete(msg.ticket, msg.resp, msg.err) {
			m.result = m.fetcher.Result()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return m.quit()
	}

	if m.search.Focused() {
		switch {
		case key.Matches(msg, m.keymap.Commit):
			return m.commit()
		case key.Matches(msg, m.keymap.Blur):
			m.search.Blur()
			return m, nil
		case key.Matches(msg, m.keymap.CycleCurrency):
			return m.cycleCurrency(), nil
		}

		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.inputs.Search = m.search.Value()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m.quit()
	case key.Matches(msg, m.keymap.FocusSearch):
		return m, m.search.Focus()
	case key.Matches(msg, m.keymap.CycleCurrency):
		return m.cycleCurrency(), nil
	case key.Matches(msg, m.keymap.Commit):
		return m.commit()
	case key.Matches(msg, m.keymap.Clear):
		return m.clear()
	case key.Matches(msg, m.keymap.Next):
		return m.nextPage()
	case key.Matches(msg, m.keymap.Previous):
		return m.previousPage()
	case key.Matches(msg, m.keymap.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.fetcher.Close()
	return m, tea.Quit
}

// screen derives the view-model for the current state.
func (m Model) screen() view.Screen {
	return view.Build(m.filters, m.inputs, m.result)
}

// Filters returns the committed filters.
func (m Model) Filters() payments.Filters {
	return m.filters
}

// Inputs returns the transient inputs.
func (m Model) Inputs() payments.Inputs {
	return m.inputs
}

// Result returns the fetch result the view renders.
func (m Model) Result() fetch.Result {
	return m.result
}
