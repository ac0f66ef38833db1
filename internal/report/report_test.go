package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevTechCode/rachunek-bankowy/internal/description"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
	"github.com/DevTechCode/rachunek-bankowy/internal/money"
)

func reportTx(t *testing.T, year int, month time.Month, day int, amountMinor int64, narration string) *model.Transaction {
	t.Helper()
	desc := description.NewParser().Parse(narration)
	return model.NewTransaction(model.Init{
		OperationDate: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		ValueDate:     time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Type:          "Przelew z rachunku",
		Description:   desc,
		Amount:        money.FromMinor(amountMinor, "PLN"),
		EndingBalance: money.FromMinor(0, "PLN"),
		Counterparty:  model.NewCounterparty(desc.First("nazwa odbiorcy"), "", "", ""),
	})
}

func vatTx(t *testing.T, year int, month time.Month, day int, amountMinor, vatMinor int64, taxForm string) *model.Transaction {
	t.Helper()
	vat := money.FromMinor(vatMinor, "PLN")
	return model.NewTransaction(model.Init{
		OperationDate: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		ValueDate:     time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Type:          "Przelew podatkowy",
		Description:   description.NewParser().Parse(""),
		Amount:        money.FromMinor(amountMinor, "PLN"),
		EndingBalance: money.FromMinor(0, "PLN"),
		VatInfo:       &model.VatInfo{VatAmount: &vat, TaxForm: taxForm},
	})
}

func TestMonthlySummaries(t *testing.T) {
	txs := []*model.Transaction{
		reportTx(t, 2025, time.March, 5, 250000, ""),
		reportTx(t, 2025, time.March, 10, -95000, ""),
		reportTx(t, 2025, time.March, 20, -5000, ""),
		reportTx(t, 2025, time.April, 2, 100000, ""),
	}

	got := MonthlySummaries(txs)
	require.Len(t, got, 2)

	march := got[0]
	assert.Equal(t, "2025-03", march.Month)
	assert.Equal(t, int64(250000), march.Income.Minor())
	assert.Equal(t, int64(100000), march.Expense.Minor())
	assert.Equal(t, int64(150000), march.Net.Minor())

	april := got[1]
	assert.Equal(t, "2025-04", april.Month)
	assert.Equal(t, int64(0), april.Expense.Minor())
	assert.Equal(t, int64(100000), april.Net.Minor())
}

func TestMonthlySummariesSplitsCurrencies(t *testing.T) {
	eur := model.NewTransaction(model.Init{
		OperationDate: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		ValueDate:     time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Type:          "Przelew",
		Description:   description.NewParser().Parse(""),
		Amount:        money.FromMinor(10000, "EUR"),
		EndingBalance: money.FromMinor(0, "EUR"),
	})
	pln := reportTx(t, 2025, time.March, 5, 20000, "")

	got := MonthlySummaries([]*model.Transaction{pln, eur})
	require.Len(t, got, 2)
	assert.Equal(t, "EUR", got[0].Income.Currency())
	assert.Equal(t, "PLN", got[1].Income.Currency())
}

func TestVatSummaries(t *testing.T) {
	txs := []*model.Transaction{
		vatTx(t, 2025, time.March, 10, -213900, -40000, "VAT-7"),
		vatTx(t, 2025, time.March, 20, -50000, -10000, "VAT-7"),
		vatTx(t, 2025, time.March, 25, -30000, -5000, ""),
		reportTx(t, 2025, time.March, 5, 250000, ""),
	}

	got := VatSummaries(txs)
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, "2025-03", s.Month)
	assert.Equal(t, int64(55000), s.VatTotal.Minor())
	assert.Equal(t, int64(50000), s.ByTaxForm["VAT-7"].Minor())
	assert.Equal(t, int64(5000), s.ByTaxForm["UNKNOWN"].Minor())
}

func TestTopCounterparties(t *testing.T) {
	txs := []*model.Transaction{
		reportTx(t, 2025, time.March, 1, -10000, "Nazwa odbiorcy : ORANGE POLSKA"),
		reportTx(t, 2025, time.March, 2, -10000, "Nazwa odbiorcy : ORANGE POLSKA"),
		reportTx(t, 2025, time.March, 3, -50000, "Nazwa odbiorcy : BIURO RACHUNKOWE"),
		reportTx(t, 2025, time.March, 4, -1000, ""),
	}

	got := TopCounterparties(txs, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "BIURO RACHUNKOWE", got[0].Name)
	assert.Equal(t, int64(50000), got[0].TotalAbs.Minor())
	assert.Equal(t, "ORANGE POLSKA", got[1].Name)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, int64(20000), got[1].TotalAbs.Minor())

	limited := TopCounterparties(txs, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "BIURO RACHUNKOWE", limited[0].Name)
}

func TestRecurringPayees(t *testing.T) {
	txs := []*model.Transaction{
		reportTx(t, 2025, time.January, 10, -10000, "Nazwa odbiorcy : ORANGE POLSKA"),
		reportTx(t, 2025, time.February, 10, -10000, "Nazwa odbiorcy : ORANGE POLSKA"),
		reportTx(t, 2025, time.March, 10, -10000, "Nazwa odbiorcy : ORANGE POLSKA"),
		reportTx(t, 2025, time.March, 11, -99999, "Nazwa odbiorcy : JEDNORAZOWY DOSTAWCA"),
		// Income from the same counterparty does not make it a payee.
		reportTx(t, 2025, time.March, 12, 5000, "Nazwa odbiorcy : ORANGE POLSKA"),
	}

	got := RecurringPayees(txs, RecurringOptions{})
	require.Len(t, got, 1)

	p := got[0]
	assert.Equal(t, "ORANGE POLSKA", p.Name)
	assert.Equal(t, 3, p.Count)
	assert.Equal(t, int64(30000), p.TotalAbs.Minor())
	assert.Equal(t, "2025-01-10", model.DateKey(p.FirstDate))
	assert.Equal(t, "2025-03-10", model.DateKey(p.LastDate))
}

func TestRecurringPayeesMinCount(t *testing.T) {
	txs := []*model.Transaction{
		reportTx(t, 2025, time.January, 10, -10000, "Nazwa odbiorcy : ORANGE POLSKA"),
		reportTx(t, 2025, time.February, 10, -10000, "Nazwa odbiorcy : ORANGE POLSKA"),
	}

	assert.Len(t, RecurringPayees(txs, RecurringOptions{MinCount: 3}), 0)
	assert.Len(t, RecurringPayees(txs, RecurringOptions{MinCount: 2}), 1)
}
