package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/DevTechCode/rachunek-bankowy/internal/cli"
	"github.com/DevTechCode/rachunek-bankowy/internal/config"
	"github.com/DevTechCode/rachunek-bankowy/internal/sheets"
)

func uploadCmd() *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload ledger transactions to Google Sheets",
		Long: `Upload pushes transactions from the local ledger to a Google Sheets
spreadsheet. Credentials come from the sheets section of the config
file or GOOGLE_SHEETS_* environment variables; either a service
account key or an OAuth refresh token works.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sheetsConfig, err := config.LoadSheetsConfig()
			if err != nil {
				return err
			}

			from, err := parseDateFlag(fromStr)
			if err != nil {
				return err
			}
			to, err := parseDateFlag(toStr)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			txs, err := store.ListTransactions(ctx, from, to)
			if err != nil {
				return err
			}
			if len(txs) == 0 {
				fmt.Println(cli.Subtle("Nothing to upload"))
				return nil
			}

			writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create sheets writer: %w", err)
			}

			start := time.Now()
			if err := writer.Write(ctx, txs); err != nil {
				return fmt.Errorf("failed to upload transactions: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Uploaded %d transactions in %s", len(txs), time.Since(start).Round(time.Millisecond))))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date (YYYY-MM-DD, inclusive)")
	return cmd
}
