package model

// Category is the heuristic classification of a transaction. Categories
// give reports a stable axis regardless of how the bank words the raw
// transaction type.
type Category string

// Known transaction categories.
const (
	CategoryTax         Category = "TAX"
	CategoryZUS         Category = "ZUS"
	CategoryCardPayment Category = "CARD_PAYMENT"
	CategoryTransferOut Category = "TRANSFER_OUT"
	CategoryTransferIn  Category = "TRANSFER_IN"
	CategoryFees        Category = "FEES"
	CategoryCash        Category = "CASH"
	CategoryOther       Category = "OTHER"
)
