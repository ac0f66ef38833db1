// Package report aggregates transaction batches into summaries: monthly
// income and expenses, VAT totals, top counterparties and recurring
// payees.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/DevTechCode/rachunek-bankowy/internal/model"
	"github.com/DevTechCode/rachunek-bankowy/internal/money"
)

// MonthlySummary is income, expense and net for one (month, currency)
// pair. Months with operations in two currencies produce two rows, which
// keeps the sums meaningful without cross-currency arithmetic.
type MonthlySummary struct {
	Month   string
	Income  money.Money
	Expense money.Money
	Net     money.Money
}

// VatSummary is the VAT total for one month, split by tax form.
type VatSummary struct {
	Month     string
	VatTotal  money.Money
	ByTaxForm map[string]money.Money
}

// TopCounterparty is one counterparty ranked by total absolute amount.
type TopCounterparty struct {
	Fingerprint string
	Name        string
	Count       int
	TotalAbs    money.Money
}

// RecurringPayee is a counterparty paid repeatedly.
type RecurringPayee struct {
	Fingerprint string
	Name        string
	Account     string
	ID          string
	Count       int
	TotalAbs    money.Money
	FirstDate   time.Time
	LastDate    time.Time
}

type monthCurrency struct {
	month    string
	currency string
}

// MonthlySummaries groups by operation month and currency. Expense is
// reported as a positive magnitude; Net is income minus expense.
func MonthlySummaries(txs []*model.Transaction) []MonthlySummary {
	type sums struct{ income, expense int64 }
	agg := make(map[monthCurrency]*sums)
	for _, tx := range txs {
		k := monthCurrency{month: model.MonthKey(tx.OperationDate), currency: tx.Amount.Currency()}
		s := agg[k]
		if s == nil {
			s = &sums{}
			agg[k] = s
		}
		switch {
		case tx.Amount.Minor() > 0:
			s.income += tx.Amount.Minor()
		case tx.Amount.Minor() < 0:
			s.expense += -tx.Amount.Minor()
		}
	}

	out := make([]MonthlySummary, 0, len(agg))
	for k, s := range agg {
		out = append(out, MonthlySummary{
			Month:   k.month,
			Income:  money.FromMinor(s.income, k.currency),
			Expense: money.FromMinor(s.expense, k.currency),
			Net:     money.FromMinor(s.income-s.expense, k.currency),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Income.Currency() < out[j].Income.Currency()
	})
	return out
}

// VatSummaries sums detected VAT amounts per month and tax form. Rows
// without a detected VAT amount are skipped; a missing form is reported
// as UNKNOWN. Absolute values are summed, so refunds do not cancel
// liabilities.
func VatSummaries(txs []*model.Transaction) []VatSummary {
	type vatAgg struct {
		total  int64
		byForm map[string]int64
	}
	agg := make(map[monthCurrency]*vatAgg)
	for _, tx := range txs {
		if tx.VatInfo == nil || tx.VatInfo.VatAmount == nil {
			continue
		}
		vat := tx.VatInfo.VatAmount.Abs()
		k := monthCurrency{month: model.MonthKey(tx.OperationDate), currency: vat.Currency()}
		a := agg[k]
		if a == nil {
			a = &vatAgg{byForm: make(map[string]int64)}
			agg[k] = a
		}
		a.total += vat.Minor()

		form := strings.ToUpper(tx.VatInfo.TaxForm)
		if form == "" {
			form = "UNKNOWN"
		}
		a.byForm[form] += vat.Minor()
	}

	out := make([]VatSummary, 0, len(agg))
	for k, a := range agg {
		byForm := make(map[string]money.Money, len(a.byForm))
		for form, minor := range a.byForm {
			byForm[form] = money.FromMinor(minor, k.currency)
		}
		out = append(out, VatSummary{
			Month:     k.month,
			VatTotal:  money.FromMinor(a.total, k.currency),
			ByTaxForm: byForm,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].VatTotal.Currency() < out[j].VatTotal.Currency()
	})
	return out
}

// TopCounterparties ranks counterparties by total absolute amount, then
// by transaction count. Transactions without a counterparty are skipped.
func TopCounterparties(txs []*model.Transaction, limit int) []TopCounterparty {
	type cpAgg struct {
		name     string
		count    int
		total    int64
		currency string
	}
	agg := make(map[string]*cpAgg)
	for _, tx := range txs {
		if tx.Counterparty == nil {
			continue
		}
		fp := tx.Counterparty.Fingerprint
		a := agg[fp]
		if a == nil {
			a = &cpAgg{name: tx.Counterparty.Name, currency: tx.Amount.Currency()}
			agg[fp] = a
		}
		a.count++
		a.total += tx.Amount.Abs().Minor()
	}

	out := make([]TopCounterparty, 0, len(agg))
	for fp, a := range agg {
		out = append(out, TopCounterparty{
			Fingerprint: fp,
			Name:        a.name,
			Count:       a.count,
			TotalAbs:    money.FromMinor(a.total, a.currency),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].TotalAbs.Minor(), out[j].TotalAbs.Minor()
		if ti != tj {
			return ti > tj
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Fingerprint < out[j].Fingerprint
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RecurringOptions filters recurring payee detection. Zero values mean
// the defaults: at least 2 occurrences, expenses only.
type RecurringOptions struct {
	MinCount   int
	IncludeAll bool
}

// RecurringPayees detects counterparties paid repeatedly. By default only
// expenses count, since a recurring payee is a recipient of money.
func RecurringPayees(txs []*model.Transaction, opts RecurringOptions) []RecurringPayee {
	minCount := opts.MinCount
	if minCount <= 0 {
		minCount = 2
	}

	byFp := make(map[string][]*model.Transaction)
	for _, tx := range txs {
		if tx.Counterparty == nil {
			continue
		}
		if !opts.IncludeAll && !tx.IsExpense() {
			continue
		}
		byFp[tx.Counterparty.Fingerprint] = append(byFp[tx.Counterparty.Fingerprint], tx)
	}

	out := make([]RecurringPayee, 0, len(byFp))
	for fp, group := range byFp {
		if len(group) < minCount {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].OperationDate.Before(group[j].OperationDate)
		})

		cp := group[0].Counterparty
		currency := group[0].Amount.Currency()
		var total int64
		for _, tx := range group {
			total += tx.Amount.Abs().Minor()
		}

		out = append(out, RecurringPayee{
			Fingerprint: fp,
			Name:        cp.Name,
			Account:     cp.Account,
			ID:          cp.ID,
			Count:       len(group),
			TotalAbs:    money.FromMinor(total, currency),
			FirstDate:   group[0].OperationDate,
			LastDate:    group[len(group)-1].OperationDate,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		ti, tj := out[i].TotalAbs.Minor(), out[j].TotalAbs.Minor()
		if ti != tj {
			return ti > tj
		}
		return out[i].Fingerprint < out[j].Fingerprint
	})
	return out
}
