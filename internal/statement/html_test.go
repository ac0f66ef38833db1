package statement

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevTechCode/rachunek-bankowy/internal/common"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
)

const sampleTableHTML = `<html><body>
<h1>Historia rachunku</h1>
<table>
  <tr>
    <th>Data operacji</th><th>Data waluty</th><th>Typ</th>
    <th>Opis</th><th>Kwota</th><th>Saldo po</th>
  </tr>
  <tr>
    <td>14.03.2025</td><td>14.03.2025</td><td>Przelew z rachunku</td>
    <td>Nazwa odbiorcy : AUTOPAY SA Tytu&#322; : 322I933448III9442</td>
    <td>-95,80 PLN</td><td>2641,40 PLN</td>
  </tr>
  <tr>
    <td>2025-03-15</td><td>2025-03-15</td><td>Przelew na rachunek</td>
    <td>Nazwa nadawcy : JAN KOWALSKI Tytu&#322; : zwrot</td>
    <td>2500,00 PLN</td><td>5141,40 PLN</td>
  </tr>
</table>
</body></html>`

func TestHTMLReaderParsesTable(t *testing.T) {
	res, err := NewHTMLReader().Read(context.Background(), strings.NewReader(sampleTableHTML), Options{})
	require.NoError(t, err)

	assert.Equal(t, "html", res.Meta.SourceFormat)
	require.Len(t, res.Transactions, 2)

	first := res.Transactions[0]
	assert.Equal(t, "2025-03-14", model.DateKey(first.OperationDate))
	assert.Equal(t, int64(-9580), first.Amount.Minor())
	assert.Equal(t, "PLN", first.Amount.Currency())
	assert.Equal(t, int64(264140), first.EndingBalance.Minor())
	require.NotNil(t, first.Counterparty)
	assert.Equal(t, "AUTOPAY SA", first.Counterparty.Name)

	second := res.Transactions[1]
	assert.Equal(t, "2025-03-15", model.DateKey(second.OperationDate))
	assert.Equal(t, int64(250000), second.Amount.Minor())
}

func TestHTMLReaderEnglishHeaders(t *testing.T) {
	const doc = `<table>
      <tr><th>Order date</th><th>Type</th><th>Description</th><th>Amount</th><th>Currency</th></tr>
      <tr><td>2025-03-14</td><td>Transfer</td><td>invoice</td><td>-10,00</td><td>eur</td></tr>
    </table>`

	res, err := NewHTMLReader().Read(context.Background(), strings.NewReader(doc), Options{})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, "EUR", tx.Amount.Currency())
	assert.Equal(t, int64(-1000), tx.Amount.Minor())
	// No balance column: the balance stays zero and chain ordering will
	// fall back downstream.
	assert.Equal(t, int64(0), tx.EndingBalance.Minor())
	// Value date falls back to the operation date.
	assert.Equal(t, tx.OperationDate, tx.ValueDate)
}

func TestHTMLReaderNoTable(t *testing.T) {
	_, err := NewHTMLReader().Read(context.Background(), strings.NewReader("<html><body><p>pusto</p></body></html>"), Options{})
	assert.ErrorIs(t, err, common.ErrNoTable)
}

func TestHTMLReaderUnrecognizedHeaders(t *testing.T) {
	const doc = `<table><tr><th>Kolumna A</th><th>Kolumna B</th></tr><tr><td>1</td><td>2</td></tr></table>`
	_, err := NewHTMLReader().Read(context.Background(), strings.NewReader(doc), Options{})
	assert.ErrorIs(t, err, common.ErrNoHeader)
}

func TestHTMLReaderBadRow(t *testing.T) {
	const doc = `<table>
      <tr><th>Data</th><th>Typ</th><th>Opis</th><th>Kwota</th></tr>
      <tr><td>kiedys</td><td>Przelew</td><td>x</td><td>-10,00</td></tr>
      <tr><td>2025-03-14</td><td>Przelew</td><td>y</td><td>-20,00</td></tr>
    </table>`

	_, err := NewHTMLReader().Read(context.Background(), strings.NewReader(doc), Options{})
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, "table.row[0]", rowErr.Path)

	res, err := NewHTMLReader().Read(context.Background(), strings.NewReader(doc), Options{BestEffort: true})
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 1)
	assert.Len(t, res.RowErrors, 1)
}

// The reader must skip decorative tables and pick the one whose headers
// look like transactions.
func TestHTMLReaderPicksRecognizableTable(t *testing.T) {
	const doc = `<html><body>
      <table><tr><th>Menu</th></tr><tr><td>start</td></tr></table>
      <table>
        <tr><th>Data</th><th>Typ</th><th>Opis</th><th>Kwota</th></tr>
        <tr><td>2025-03-14</td><td>Przelew</td><td>Tytu&#322; : ok</td><td>-5,00 PLN</td></tr>
      </table>
    </body></html>`

	res, err := NewHTMLReader().Read(context.Background(), strings.NewReader(doc), Options{})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, int64(-500), res.Transactions[0].Amount.Minor())
}
