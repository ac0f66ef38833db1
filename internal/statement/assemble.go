package statement

import (
	"time"

	"github.com/DevTechCode/rachunek-bankowy/internal/classify"
	"github.com/DevTechCode/rachunek-bankowy/internal/description"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
	"github.com/DevTechCode/rachunek-bankowy/internal/money"
)

// row is the format-independent shape of one statement line.
type row struct {
	operationDate time.Time
	valueDate     time.Time
	typeText      string
	narration     string
	amount        money.Money
	endingBalance money.Money
}

// assembler runs the shared row pipeline: parse the narration, derive
// VAT, counterparty, category and the auxiliary info blocks, and build
// the immutable transaction.
type assembler struct {
	parser *description.Parser
}

func newAssembler() *assembler {
	return &assembler{parser: description.NewParser()}
}

func (a *assembler) build(r row) *model.Transaction {
	currency := r.amount.Currency()
	desc := a.parser.Parse(r.narration)

	vat := classify.DetectVatInfo(desc, currency)
	return model.NewTransaction(model.Init{
		OperationDate: r.operationDate,
		ValueDate:     r.valueDate,
		Type:          r.typeText,
		Description:   desc,
		Amount:        r.amount,
		EndingBalance: r.endingBalance,
		Counterparty:  classify.ExtractCounterparty(desc, r.amount.Minor()),
		VatInfo:       vat,
		SplitPayment:  classify.DetectSplitPayment(r.typeText, r.amount.Minor(), vat),
		LocationInfo:  classify.ExtractLocation(desc),
		CardInfo:      classify.ExtractCard(desc, currency),
		ReferenceInfo: classify.ExtractReference(desc),
		Category:      classify.Categorize(r.typeText, r.amount.Minor(), desc),
	})
}
