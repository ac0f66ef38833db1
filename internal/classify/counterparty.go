package classify

import (
	"github.com/DevTechCode/rachunek-bankowy/internal/description"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
)

// ExtractCounterparty picks the counterparty fields out of a parsed
// description. Direction comes from the amount sign: a negative amount is
// an outgoing payment, so the counterparty is the recipient; positive means
// the sender.
//
// This is a documented heuristic: for non-transfer rows (card payments)
// the sender/recipient labels may be absent or misleading, in which case
// no counterparty is produced rather than a wrong one.
func ExtractCounterparty(desc *description.Parsed, amountMinor int64) *model.Counterparty {
	outgoing := amountMinor < 0

	var account, name, address string
	if outgoing {
		account = desc.First("rachunek odbiorcy")
		name = desc.First("nazwa odbiorcy")
		address = desc.First("adres odbiorcy")
	} else {
		account = desc.First("rachunek nadawcy")
		name = desc.First("nazwa nadawcy")
		address = desc.First("adres nadawcy")
	}

	// Tax and ZUS transfers label the identifier differently:
	// "Nazwa i nr identyfikatora : NIP, 7773444530".
	id := desc.First("identyfikator odbiorcy")
	if id == "" {
		id = desc.First("nazwa i nr identyfikatora")
	}

	return model.NewCounterparty(name, account, id, address)
}
