// Package models defines client-side data models: local records mirrored to
// the remote service, and the queue entries that describe pending changes.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/common"
)

// TransactionType classifies a transaction as money in or money out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Transaction is a single income or expense record in the local store.
//
// RemoteID stays zero until the record has been pushed at least once; after
// that it holds the server-assigned id used to address updates and deletes.
// Pending marks rows with local changes not yet acknowledged by the server.
type Transaction struct {
	ID              int64
	RemoteID        int64
	UserID          int64
	Amount          decimal.Decimal
	Description     string
	Type            TransactionType
	Category        string
	TransactionDate time.Time
	DateCreated     time.Time
	Pending         bool
}

// Validate checks field constraints before the record reaches storage.
func (t *Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	}
	if t.Type != TransactionTypeIncome && t.Type != TransactionTypeExpense {
		return fmt.Errorf("%w: unknown transaction type %q", common.ErrValidation, t.Type)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: description is required", common.ErrValidation)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category is required", common.ErrValidation)
	}
	return nil
}

// Signed returns the amount with expense records negated, for net totals.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ParseDate parses a calendar date in DateLayout. Empty or malformed input
// falls back to today's date rather than failing, so a sloppy date never
// blocks recording a transaction.
func ParseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Today()
	}
	return t
}

// Today returns the current calendar date in UTC with no time component.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
