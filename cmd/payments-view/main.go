package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/payments-view/internal/config"
	"github.com/Sternrassler/payments-view/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	version  = "dev"
	settings = viper.New()

	// cfg is resolved by initConfig before any command runs.
	cfg     *config.Config
	logFile *os.File

	rootCmd = &cobra.Command{
		Use:   "payments-view",
		Short: "Browse payments from the payments search API",
		Long: `payments-view lists payments from a payments search API with search,
currency filtering and pagination, in the terminal or as an HTML page.`,
		SilenceUsage:       true,
		PersistentPreRunE:  initConfig,
		PersistentPostRunE: closeLog,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/payments-view/config.yaml)")
	flags.String("api-url", "", "payments search endpoint")
	flags.Int("page-size", 0, "payments per page")
	flags.String("redis-addr", "", "redis address for the shared response cache")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("log-pretty", false, "human-readable log output")
	flags.String("log-file", "", "write logs to this file")

	_ = settings.BindPFlag("api.url", flags.Lookup("api-url"))
	_ = settings.BindPFlag("page_size", flags.Lookup("page-size"))
	_ = settings.BindPFlag("redis.addr", flags.Lookup("redis-addr"))
	_ = settings.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = settings.BindPFlag("log.pretty", flags.Lookup("log-pretty"))
	_ = settings.BindPFlag("log.file", flags.Lookup("log-file"))

	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.Init(settings, cfgFile); err != nil {
		return err
	}

	loaded, err := config.Load(settings)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded

	return setupLogging(cmd.Name() == "tui")
}

// setupLogging points zerolog at stderr or log.file. The terminal view owns
// the screen, so without a file its logs are dropped.
func setupLogging(interactive bool) error {
	var out io.Writer = os.Stderr

	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		out = f
	case interactive:
		out = io.Discard
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
		Output: out,
	})
	return nil
}

func closeLog(_ *cobra.Command, _ []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "payments-view %s\n", version)
			log.Debug().Str("version", version).Msg("Version requested")
		},
	}
}
