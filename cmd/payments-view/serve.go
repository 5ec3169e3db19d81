package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/payments-view/internal/web"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the payments list as an HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			apiClient, rdb, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			handler, err := web.NewServer(web.Config{
				Searcher: apiClient,
				PageSize: cfg.PageSize,
				Redis:    rdb,
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return listenAndServe(ctx, srv, cfg.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().String("addr", "", "listen address")
	_ = settings.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

// listenAndServe runs srv until ctx is cancelled, then shuts it down within
// timeout.
func listenAndServe(ctx context.Context, srv *http.Server, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting payments view server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
