package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DevTechCode/rachunek-bankowy/internal/cli"
	"github.com/DevTechCode/rachunek-bankowy/internal/storage"
)

func ingestCmd() *cobra.Command {
	var (
		format     string
		bestEffort bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <statement-file>...",
		Short: "Parse statement files and store transactions in the ledger",
		Long: `Ingest parses one or more statement exports and saves the normalized
transactions to the local SQLite ledger. Transactions already present
(matched by dedup hash) are left untouched, so re-ingesting the same
or overlapping exports is safe.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var totalNew int64
			for _, path := range args {
				result, txs, err := readStatement(ctx, path, format, bestEffort)
				if err != nil {
					return err
				}
				reportRowErrors(result)

				inserted, err := store.SaveTransactions(ctx, txs)
				if err != nil {
					return fmt.Errorf("failed to save transactions from %s: %w", path, err)
				}
				if err := store.RecordImport(ctx, storage.ImportRecord{
					Source:    filepath.Base(path),
					Format:    result.Meta.SourceFormat,
					Total:     len(txs),
					Inserted:  inserted,
					RowErrors: len(result.RowErrors),
				}); err != nil {
					slog.Warn("Failed to record import", "source", path, "error", err)
				}

				totalNew += inserted
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s: %d transactions, %d new", filepath.Base(path), len(txs), inserted)))
			}

			count, err := store.CountTransactions(ctx)
			if err != nil {
				return err
			}
			fmt.Println(cli.Subtle(fmt.Sprintf("Ledger now holds %d transactions (%d added)", count, totalNew)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "statement format (auto, xml, html, ofx)")
	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "skip unparseable rows instead of aborting")
	return cmd
}
