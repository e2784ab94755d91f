package models

// Transaction is a single income or expense entry owned by one user.
// Date is an ISO-8601 date string (YYYY-MM-DD).
type Transaction struct {
	ID       string  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID   string  `bson:"user_id" json:"user_id"`
	Name     string  `bson:"name" json:"name"`
	Type     string  `bson:"type" json:"type"`
	Amount   float64 `bson:"amount" json:"amount"`
	Date     string  `bson:"date" json:"date"`
	Category string  `bson:"category" json:"category"`
	Method   string  `bson:"method" json:"method"`
	Icon     string  `bson:"icon,omitempty" json:"icon,omitempty"`
}

// Transaction types.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)
