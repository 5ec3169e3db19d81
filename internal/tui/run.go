package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the terminal view and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	if cfg.Searcher == nil {
		return fmt.Errorf("searcher is required")
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)

	p := tea.NewProgram(New(ctx, cfg), opts...)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal view: %w", err)
	}
	return nil
}
