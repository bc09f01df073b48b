package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mydata-tools/internal/config"
	"mydata-tools/internal/logger"
	"mydata-tools/internal/mydata"
	"mydata-tools/internal/report"
	"mydata-tools/internal/vatrules"
)

// argDateLayout is the date form accepted on the command line.
const argDateLayout = "2006-01-02"

var fetchCmd = &cobra.Command{
	Use:   "fetch [start-date] [end-date] [vat-file]",
	Short: "Fetch invoices for a date range and build a quantity report",
	Long: `Fetch invoice documents from the myDATA API for a date range, aggregate
line-item quantities by issuer, item and day, and write the result as a
spreadsheet or ';'-delimited text file.

An optional VAT rule file restricts the report to listed suppliers and can
shift each supplier's dates by a signed number of days:

  094254743  -1   # supplier whose invoices book a day late
  094000000        # adjustment defaults to 0

Required environment variables:
  MYDATA_USER_ID - the aade-user-id request header
  MYDATA_API_KEY - the Ocp-Apim-Subscription-Key request header

Optional environment variables:
  MYDATA_API_URL - endpoint override (default: production RequestDocs)`,
	Example: `  # Fetch a week of invoices into invoice_report.xlsx
  mydata-tools fetch 2025-12-01 2025-12-07

  # Restrict to suppliers listed in vat.txt, write both formats
  mydata-tools fetch 2025-12-01 2025-12-07 vat.txt -f both -o weekly

  # Collect the issuer VAT numbers seen, for use as a future rule file
  mydata-tools fetch 2025-12-01 2025-12-07 --vat-out discovered.txt`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringP("output", "o", "invoice_report", "Output file name, without extension")
	fetchCmd.Flags().StringP("format", "f", "xlsx", "Output format: xlsx, csv or both")
	fetchCmd.Flags().String("vat-out", "", "Write unique issuer VAT numbers to this file")
	fetchCmd.Flags().String("receiver-vat", "", "Restrict the query to invoices issued to this VAT number")
	fetchCmd.Flags().Int("timeout", 30, "Per-request timeout in seconds")
}

func runFetch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("fetch")

	outputName, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	vatOutPath, _ := cmd.Flags().GetString("vat-out")
	receiverVAT, _ := cmd.Flags().GetString("receiver-vat")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if format != "xlsx" && format != "csv" && format != "both" {
		return fmt.Errorf("invalid format %q: must be xlsx, csv or both", format)
	}

	dateFrom, err := time.ParseInLocation(argDateLayout, args[0], time.UTC)
	if err != nil {
		return fmt.Errorf("invalid start date %q: use YYYY-MM-DD", args[0])
	}
	dateTo, err := time.ParseInLocation(argDateLayout, args[1], time.UTC)
	if err != nil {
		return fmt.Errorf("invalid end date %q: use YYYY-MM-DD", args[1])
	}
	var vatFilePath string
	if len(args) == 3 {
		vatFilePath = args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("missing myDATA credentials: set MYDATA_USER_ID and MYDATA_API_KEY: %w", err)
	}

	client, err := mydata.NewClient(
		mydata.Credentials{UserID: cfg.MyDataUserID, SubscriptionKey: cfg.MyDataAPIKey},
		mydata.WithBaseURL(cfg.MyDataAPIURL),
		mydata.WithTimeout(time.Duration(timeoutSecs)*time.Second),
	)
	if err != nil {
		return fmt.Errorf("creating myDATA client: %w", err)
	}

	ctx, cancel := fetchContext(log)
	defer cancel()

	log.Info().
		Str("date_from", args[0]).
		Str("date_to", args[1]).
		Str("vat_file", vatFilePath).
		Str("format", format).
		Msg("Starting invoice fetch")

	result, err := client.FetchInvoices(ctx, mydata.Query{
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		ReceiverVAT: receiverVAT,
	})
	if err != nil {
		if result == nil || result.Pages == 0 {
			return fmt.Errorf("fetching invoices: %w", err)
		}
		// Pages fetched before the failure are still reported.
		log.Warn().
			Err(err).
			Int("pages", result.Pages).
			Int("records", len(result.Records)).
			Msg("Fetch ended early, reporting partial data")
	}

	if len(result.Records) == 0 {
		log.Info().Msg("No invoice data found")
		return nil
	}

	agg := report.NewAggregator()
	for _, rec := range result.Records {
		agg.Observe(rec)
	}

	if vatOutPath != "" {
		vats := agg.VATNumbers()
		if err := vatrules.WriteDiscoveredFile(vatOutPath, vats); err != nil {
			return fmt.Errorf("writing VAT output: %w", err)
		}
		log.Info().
			Str("file", vatOutPath).
			Int("vat_numbers", len(vats)).
			Msg("VAT numbers file generated")
	}

	records := result.Records
	if vatFilePath != "" {
		table, err := vatrules.LoadFile(vatFilePath)
		if err != nil {
			return err
		}
		if table.Len() == 0 {
			return fmt.Errorf("no VAT numbers found in %s", vatFilePath)
		}
		log.Info().
			Int("rules", table.Len()).
			Str("file", vatFilePath).
			Msg("Filtering by VAT rule file")
		records = table.Apply(records)
		log.Info().Int("records", len(records)).Msg("Records after filtering")
	}

	if len(records) == 0 {
		log.Info().Msg("No invoice data after filtering")
		return nil
	}

	for _, rec := range records {
		agg.Add(rec)
	}
	table := agg.Table()

	log.Info().
		Int("combinations", agg.Keys()).
		Int("dates", len(table.Dates)).
		Msg("Aggregation completed")

	return writeReports(log, table, outputName, format)
}

// writeReports emits the requested encodings. Output failures are fatal.
func writeReports(log zerolog.Logger, table *report.Table, outputName, format string) error {
	if format == "xlsx" || format == "both" {
		path := outputName + ".xlsx"
		if err := report.WriteXLSX(path, table); err != nil {
			return fmt.Errorf("generating spreadsheet: %w", err)
		}
		log.Info().Str("file", path).Msg("Spreadsheet generated")
	}

	if format == "csv" || format == "both" {
		path := outputName + ".csv"
		if err := report.WriteCSVFile(path, table); err != nil {
			return fmt.Errorf("generating CSV: %w", err)
		}
		log.Info().Str("file", path).Msg("CSV generated")
	}

	return nil
}

// fetchContext creates a context canceled by SIGINT/SIGTERM.
func fetchContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling invoice fetch")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
