package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DevTechCode/rachunek-bankowy/internal/cli"
	"github.com/DevTechCode/rachunek-bankowy/internal/export"
)

func parseCmd() *cobra.Command {
	var (
		format     string
		outFormat  string
		outPath    string
		bestEffort bool
	)

	cmd := &cobra.Command{
		Use:   "parse <statement-file>",
		Short: "Parse a statement file and print normalized transactions",
		Long: `Parse reads a single bank statement export, normalizes its rows into
typed transactions, deduplicates them and restores chronological order
from the running balance chain. The result goes to stdout or --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			result, txs, err := readStatement(ctx, args[0], format, bestEffort)
			if err != nil {
				return err
			}
			reportRowErrors(result)

			if outPath != "" {
				if err := export.ToFile(outPath, outFormat, txs); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %d transactions to %s", len(txs), outPath)))
				return nil
			}

			switch outFormat {
			case "json":
				return export.WriteJSON(os.Stdout, txs)
			case "csv":
				return export.WriteCSV(os.Stdout, txs)
			default:
				return fmt.Errorf("unknown output format %q (want json or csv)", outFormat)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "statement format (auto, xml, html, ofx)")
	cmd.Flags().StringVarP(&outFormat, "out-format", "t", "json", "output format (json, csv)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "skip unparseable rows instead of aborting")
	return cmd
}
