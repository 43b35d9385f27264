package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors the client-side enum on the wire.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction is an income or expense row owned by one user.
type Transaction struct {
	ID              int64
	UserID          int64
	Amount          decimal.Decimal
	Description     string
	Type            TransactionType
	Category        string
	TransactionDate time.Time
	DateCreated     time.Time
}
