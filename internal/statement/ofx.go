package statement

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/DevTechCode/rachunek-bankowy/internal/description"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
	"github.com/DevTechCode/rachunek-bankowy/internal/money"
)

// OFXReader reads OFX/QFX exports. OFX rows carry no running balance, so
// per-row ending balances are reconstructed backwards from the statement's
// ledger balance; that lets OFX rows flow through the same balance-chain
// ordering as XML rows.
type OFXReader struct {
	parser *description.Parser
}

func NewOFXReader() *OFXReader {
	return &OFXReader{parser: description.NewParser()}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRegex  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in real-world OFX files:
// leading blank lines, mixed-case SEVERITY values and SGML-style tags
// missing their closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = openTagRegex.ReplaceAllString(content, "$1>")
	return content
}

func (o *OFXReader) Read(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("parsing OFX file: %w", err)
	}

	result := &Result{Meta: Meta{SourceFormat: "ofx"}}

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		if result.Meta.Account == "" {
			result.Meta.Account = string(stmt.BankAcctFrom.AcctID)
		}
		result.Transactions = append(result.Transactions, o.convertStatement(stmt)...)
	}

	slog.Debug("parsed OFX statement",
		"account", result.Meta.Account,
		"transactions", len(result.Transactions))
	return result, nil
}

func (o *OFXReader) convertStatement(stmt *ofxgo.StatementResponse) []*model.Transaction {
	if stmt.BankTranList == nil {
		return nil
	}

	currency := strings.ToUpper(strings.TrimSpace(stmt.CurDef.String()))
	if currency == "" {
		currency = "PLN"
	}
	units := money.MinorUnits(currency)

	ofxTxs := make([]ofxgo.Transaction, len(stmt.BankTranList.Transactions))
	copy(ofxTxs, stmt.BankTranList.Transactions)
	sort.SliceStable(ofxTxs, func(i, j int) bool {
		if !ofxTxs[i].DtPosted.Time.Equal(ofxTxs[j].DtPosted.Time) {
			return ofxTxs[i].DtPosted.Time.Before(ofxTxs[j].DtPosted.Time)
		}
		return string(ofxTxs[i].FiTID) < string(ofxTxs[j].FiTID)
	})

	amounts := make([]money.Money, len(ofxTxs))
	for i, tx := range ofxTxs {
		amounts[i] = money.Parse(tx.TrnAmt.FloatString(units), currency)
	}

	// The ledger balance is the balance after the last posted row. Walk
	// backwards so each row gets the balance it left behind.
	endings := make([]money.Money, len(ofxTxs))
	running := money.Parse(stmt.BalAmt.FloatString(units), currency).Minor()
	for i := len(ofxTxs) - 1; i >= 0; i-- {
		endings[i] = money.FromMinor(running, currency)
		running -= amounts[i].Minor()
	}

	out := make([]*model.Transaction, 0, len(ofxTxs))
	for i, tx := range ofxTxs {
		out = append(out, o.convertTransaction(tx, amounts[i], endings[i]))
	}
	return out
}

func (o *OFXReader) convertTransaction(tx ofxgo.Transaction, amount, ending money.Money) *model.Transaction {
	posted := tx.DtPosted.Time
	typeText := fmt.Sprintf("%v", tx.TrnType)
	narration := strings.TrimSpace(strings.TrimSpace(string(tx.Name)) + " " + strings.TrimSpace(string(tx.Memo)))

	var ref *model.ReferenceInfo
	if tx.FiTID != "" || tx.CheckNum != "" {
		ref = &model.ReferenceInfo{
			OperationID:     string(tx.FiTID),
			ReferenceNumber: string(tx.CheckNum),
		}
	}

	return model.NewTransaction(model.Init{
		OperationDate: posted,
		ValueDate:     posted,
		Type:          typeText,
		Description:   o.parser.Parse(narration),
		Amount:        amount,
		EndingBalance: ending,
		Counterparty:  model.NewCounterparty(extractMerchantName(tx), "", "", ""),
		ReferenceInfo: ref,
		Category:      ofxCategory(typeText, amount.Minor()),
	})
}

// ofxCategory maps OFX transaction types onto the category set used for
// bank exports.
func ofxCategory(trnType string, amountMinor int64) model.Category {
	switch trnType {
	case "ATM":
		return model.CategoryCash
	case "FEE", "SRVCHG":
		return model.CategoryFees
	case "POS", "DEBIT":
		return model.CategoryCardPayment
	case "INT", "DIV", "DEP", "DIRECTDEP":
		return model.CategoryTransferIn
	case "XFER", "PAYMENT", "DIRECTDEBIT", "CHECK", "CREDIT":
		if amountMinor < 0 {
			return model.CategoryTransferOut
		}
		return model.CategoryTransferIn
	default:
		return model.CategoryOther
	}
}

// extractMerchantName pulls the cleanest counterparty name available:
// PAYEE when present, otherwise NAME, with MEMO as a substitute when NAME
// is too generic.
func extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip a leading MM/DD date stamp.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}
	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
