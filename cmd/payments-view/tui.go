package main

import (
	"github.com/Sternrassler/payments-view/internal/tui"
	"github.com/spf13/cobra"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse payments in the terminal",
		Long: `Open the interactive payments list.

Keys: / search, tab cycle currency, enter apply filters, ctrl+x clear filters,
n/p next and previous page, r refresh, ? help, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			apiClient, _, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.Run(ctx, tui.Config{
				Searcher: apiClient,
				PageSize: cfg.PageSize,
			})
		},
	}
}
