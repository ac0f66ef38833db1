package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/DevTechCode/rachunek-bankowy/internal/cli"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
	"github.com/DevTechCode/rachunek-bankowy/internal/report"
)

func reportCmd() *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize transactions stored in the ledger",
	}
	cmd.PersistentFlags().StringVar(&fromStr, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.PersistentFlags().StringVar(&toStr, "to", "", "end date (YYYY-MM-DD, inclusive)")

	loadTxs := func(cmd *cobra.Command) ([]*model.Transaction, error) {
		ctx := cmd.Context()
		from, err := parseDateFlag(fromStr)
		if err != nil {
			return nil, err
		}
		to, err := parseDateFlag(toStr)
		if err != nil {
			return nil, err
		}
		store, err := initStorage(ctx)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.ListTransactions(ctx, from, to)
	}

	cmd.AddCommand(monthlyReportCmd(loadTxs))
	cmd.AddCommand(vatReportCmd(loadTxs))
	cmd.AddCommand(topReportCmd(loadTxs))
	cmd.AddCommand(recurringReportCmd(loadTxs))
	return cmd
}

type txLoader func(cmd *cobra.Command) ([]*model.Transaction, error)

func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return &t, nil
}

func monthlyReportCmd(load txLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "monthly",
		Short: "Income, expenses and net per month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := load(cmd)
			if err != nil {
				return err
			}
			rows := report.MonthlySummaries(txs)
			if len(rows) == 0 {
				fmt.Println(cli.Subtle("No transactions in range"))
				return nil
			}

			fmt.Println(cli.StyleTitle("Monthly summary"))
			fmt.Printf("%-10s %15s %15s %15s\n", "Month", "Income", "Expense", "Net")
			for _, r := range rows {
				fmt.Printf("%-10s %15s %15s %15s\n",
					r.Month,
					cli.FormatAmount(r.Income),
					cli.FormatAmount(r.Expense.Neg()),
					cli.FormatAmount(r.Net))
			}
			return nil
		},
	}
}

func vatReportCmd(load txLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "vat",
		Short: "VAT totals per month, split by tax form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := load(cmd)
			if err != nil {
				return err
			}
			rows := report.VatSummaries(txs)
			if len(rows) == 0 {
				fmt.Println(cli.Subtle("No VAT-bearing transactions in range"))
				return nil
			}

			fmt.Println(cli.StyleTitle("VAT summary"))
			for _, r := range rows {
				fmt.Printf("%-10s %15s\n", r.Month, r.VatTotal.Format(true))
				forms := make([]string, 0, len(r.ByTaxForm))
				for form := range r.ByTaxForm {
					forms = append(forms, form)
				}
				sort.Strings(forms)
				for _, form := range forms {
					fmt.Printf("  %-12s %13s\n", form, r.ByTaxForm[form].Format(true))
				}
			}
			return nil
		},
	}
}

func topReportCmd(load txLoader) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Counterparties ranked by total volume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := load(cmd)
			if err != nil {
				return err
			}
			rows := report.TopCounterparties(txs, limit)
			if len(rows) == 0 {
				fmt.Println(cli.Subtle("No counterparties in range"))
				return nil
			}

			fmt.Println(cli.StyleTitle("Top counterparties"))
			for i, r := range rows {
				name := r.Name
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Printf("%2d. %-40s %4d ops %15s\n", i+1, name, r.Count, r.TotalAbs.Format(true))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of counterparties")
	return cmd
}

func recurringReportCmd(load txLoader) *cobra.Command {
	var (
		minCount   int
		includeAll bool
	)

	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Counterparties paid repeatedly",
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := load(cmd)
			if err != nil {
				return err
			}
			rows := report.RecurringPayees(txs, report.RecurringOptions{
				MinCount:   minCount,
				IncludeAll: includeAll,
			})
			if len(rows) == 0 {
				fmt.Println(cli.Subtle("No recurring payees in range"))
				return nil
			}

			fmt.Println(cli.StyleTitle("Recurring payees"))
			for _, r := range rows {
				name := r.Name
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Printf("%-40s %4d ops %15s  %s .. %s\n",
					name, r.Count, r.TotalAbs.Format(true),
					r.FirstDate.Format("2006-01-02"), r.LastDate.Format("2006-01-02"))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&minCount, "min-count", 2, "minimum number of payments")
	cmd.Flags().BoolVar(&includeAll, "all", false, "include incoming transfers as well")
	return cmd
}
