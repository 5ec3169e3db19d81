package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Sternrassler/payments-view/pkg/pagination"
	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	formatCSV  = "csv"
	formatJSON = "json"
	formatYAML = "yaml"
)

var csvHeader = []string{
	"id", "date", "amount", "customerName", "customerAddress",
	"currency", "status", "description", "clientId",
}

func exportCmd() *cobra.Command {
	var (
		format   string
		output   string
		search   string
		currency string
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every payment matching a filter",
		Long: `Fetch every page of a search and write the payments as CSV, JSON or YAML.

Examples:
  payments-view export --currency GBP --format csv --output gbp.csv
  payments-view export --search acme --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if !validFormat(format) {
				return fmt.Errorf("unsupported format %q (want csv, json or yaml)", format)
			}

			ctx := cmd.Context()

			apiClient, _, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			bcfg := pagination.Config{
				MaxConcurrency: cfg.Export.Workers,
				Timeout:        cfg.Export.PageTimeout,
			}
			if !quiet {
				bcfg.OnProgress = progressReporter(cmd.ErrOrStderr())
			}

			filters := payments.Filters{
				Search:   search,
				Currency: currency,
				Page:     1,
				PageSize: cfg.Export.PageSize,
			}

			res, err := pagination.NewBatchFetcher(apiClient, bcfg).FetchAll(ctx, filters)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if output != "" && output != "-" {
				err = writeFile(output, format, res.Payments)
			} else {
				err = writePayments(cmd.OutOrStdout(), format, res.Payments)
			}
			if err != nil {
				return err
			}

			log.Info().
				Int("payments", len(res.Payments)).
				Int("pages", res.TotalPages).
				Str("format", format).
				Str("output", output).
				Msg("Export complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatCSV, "output format (csv, json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&search, "search", "", "search text")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code, e.g. GBP")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	cmd.Flags().Int("workers", 0, "parallel page requests")

	_ = settings.BindPFlag("export.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

// createFile opens an export destination.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// writeFile writes ps to path. A failed close fails the export.
func writeFile(path, format string, ps []payments.Payment) error {
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := writePayments(f, format, ps); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

func validFormat(format string) bool {
	switch format {
	case formatCSV, formatJSON, formatYAML:
		return true
	default:
		return false
	}
}

// progressReporter draws a bar once the page count is known.
func progressReporter(w io.Writer) func(fetched, total int) {
	var bar *progressbar.ProgressBar
	return func(fetched, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Fetching pages"),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
			)
		}
		_ = bar.Set(fetched)
	}
}

func writePayments(w io.Writer, format string, ps []payments.Payment) error {
	switch format {
	case formatCSV:
		return writeCSV(w, ps)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(nonNil(ps)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(nonNil(ps)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeCSV(w io.Writer, ps []payments.Payment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, p := range ps {
		record := []string{
			p.ID,
			p.Date,
			p.Amount.String(),
			p.CustomerName,
			p.CustomerAddress,
			p.Currency,
			string(p.Status),
			p.Description,
			p.ClientID,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record %s: %w", p.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func nonNil(ps []payments.Payment) []payments.Payment {
	if ps == nil {
		return []payments.Payment{}
	}
	return ps
}
