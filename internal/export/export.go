// Package export writes transaction batches as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DevTechCode/rachunek-bankowy/internal/model"
)

// WriteJSON renders the full transaction model, indented, as a JSON
// array.
func WriteJSON(w io.Writer, txs []*model.Transaction) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(txs); err != nil {
		return fmt.Errorf("encoding transactions: %w", err)
	}
	return nil
}

// CSVHeader is the Polish column set used for spreadsheet analysis. The
// trailing free columns (Przeznaczenie, Inwestycja, Link, Uwagi) are left
// empty for manual annotation in the sheet. The Sheets uploader mirrors
// this layout.
var CSVHeader = []string{
	"Data operacji",
	"Data waluty",
	"Rodzaj",
	"Typ",
	"Kategoria",
	"Kwota",
	"Saldo po",
	"Kontrahent",
	"Rachunek odbiorcy",
	"Split payment",
	"Kwota VAT",
	"Formularz",
	"Okres płatności",
	"Numer faktury",
	"Miesiąc wystawienia faktury",
	"isVat",
	"isFaktura",
	"isPracownik",
	"isZarząd",
	"Przeznaczenie",
	"Inwestycja",
	"Link",
	"Uwagi",
	"Opis",
}

// WriteCSV writes a semicolon-delimited CSV. The delimiter matters:
// Polish Excel and Sheets expect ';', and narration text is full of
// commas that would split naive comma-CSV readers.
func WriteCSV(w io.Writer, txs []*model.Transaction) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, tx := range txs {
		if err := cw.Write(CSVRecord(tx)); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVRecord renders one transaction as the flat CSV row.
func CSVRecord(tx *model.Transaction) []string {
	var vatAmount, taxForm, paymentPeriod, invoiceNumber string
	hasVat := false
	if v := tx.VatInfo; v != nil {
		if v.VatAmount != nil {
			vatAmount = v.VatAmount.Format(false)
			hasVat = !v.VatAmount.IsZero()
		}
		taxForm = v.TaxForm
		paymentPeriod = v.PaymentPeriod
		invoiceNumber = v.InvoiceNumber
	}

	counterpartyName := ""
	if tx.Counterparty != nil {
		counterpartyName = tx.Counterparty.Name
	}

	return []string{
		model.DateKey(tx.OperationDate),
		model.DateKey(tx.ValueDate),
		rodzaj(tx),
		tx.Type,
		string(tx.Category),
		tx.Amount.Format(false),
		tx.EndingBalance.Format(false),
		counterpartyName,
		recipientAccount(tx),
		fmt.Sprintf("%t", tx.SplitPayment),
		vatAmount,
		taxForm,
		paymentPeriod,
		invoiceNumber,
		"-",
		fmt.Sprintf("%t", hasVat),
		"false",
		"false",
		"",
		"",
		"",
		"",
		"",
		tx.Description.Raw,
	}
}

// rodzaj labels the row for the spreadsheet: cost or income by sign, and
// "vat -" / "vat +" when the whole amount is the VAT amount (split
// payment sweeps).
func rodzaj(tx *model.Transaction) string {
	negative := tx.Amount.IsNegative()
	if v := tx.VatInfo; v != nil && v.VatAmount != nil && !v.VatAmount.IsZero() {
		if v.VatAmount.Abs().Minor() == tx.Amount.Abs().Minor() {
			if negative {
				return "vat -"
			}
			return "vat +"
		}
	}
	if negative {
		return "koszt"
	}
	return "przychód"
}

// recipientAccount pulls the recipient account from the narration, "-"
// when absent.
func recipientAccount(tx *model.Transaction) string {
	if v := tx.Description.First("rachunek odbiorcy"); v != "" {
		return v
	}
	return "-"
}

// ToFile writes txs to path in the given format ("json" or "csv"),
// creating parent directories as needed.
func ToFile(path, format string, txs []*model.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	switch format {
	case "csv":
		return WriteCSV(f, txs)
	default:
		return WriteJSON(f, txs)
	}
}
