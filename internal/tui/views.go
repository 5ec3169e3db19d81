package tui

import (
	"strings"

	"github.com/Sternrassler/payments-view/pkg/i18n"
	"github.com/Sternrassler/payments-view/pkg/view"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.screen()

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(s.Title))
	b.WriteString("\n")
	b.WriteString(m.renderFilters(s))
	b.WriteString("\n\n")

	switch s.State {
	case view.StateLoading:
		b.WriteString(m.spinner.View() + " " + m.theme.Muted.Render(s.Message))
	case view.StateError:
		b.WriteString(m.theme.Error.Render(s.Message))
	case view.StateEmpty:
		b.WriteString(m.renderTable(nil))
		b.WriteString("\n")
		b.WriteString(m.theme.Muted.Render(s.Message))
	case view.StateRows:
		b.WriteString(m.renderTable(s.Rows))
		if s.ShowPagination {
			b.WriteString("\n")
			b.WriteString(m.renderPagination(s))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keymap))

	return b.String()
}

func (m Model) renderFilters(s view.Screen) string {
	currency := i18n.AllCurrencies
	if s.Inputs.Currency != "" {
		currency = s.Inputs.Currency
	}

	parts := []string{
		m.theme.Label.Render(i18n.SearchLabel+":") + " " + m.search.View(),
		m.theme.Label.Render(i18n.CurrencyLabel+":") + " " + currency,
	}
	if s.ShowClear {
		parts = append(parts, m.theme.Button.Render(i18n.ClearFilters+" (ctrl+x)"))
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderTable(rows []view.Row) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(m.theme.Border)).
		Headers(i18n.Columns...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return m.theme.Header
			}
			return m.theme.Cell
		})

	for _, r := range rows {
		t.Row(r.ID, r.Date, r.Amount, r.Customer, r.Currency, m.theme.Status(r.Status))
	}

	return t.String()
}

func (m Model) renderPagination(s view.Screen) string {
	button := func(label string, enabled bool) string {
		if enabled {
			return m.theme.Button.Render(label)
		}
		return m.theme.ButtonOff.Render(label)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		button("← "+i18n.PreviousButton, s.Pagination.CanGoPrevious),
		"  "+s.PageLabel+"  ",
		button(i18n.NextButton+" →", s.Pagination.CanGoNext),
	)
}
