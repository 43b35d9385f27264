package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/common"
)

// Goal is a monthly savings target. The store allows at most one goal per
// (user, target month, target year).
type Goal struct {
	ID           int64
	RemoteID     int64
	UserID       int64
	TargetAmount decimal.Decimal
	TargetMonth  int
	TargetYear   int
	CreatedAt    time.Time
	Pending      bool
}

// Validate checks field constraints before the record reaches storage.
func (g *Goal) Validate() error {
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be positive", common.ErrValidation)
	}
	if g.TargetMonth < 1 || g.TargetMonth > 12 {
		return fmt.Errorf("%w: target month must be between 1 and 12", common.ErrValidation)
	}
	if g.TargetYear < 1 {
		return fmt.Errorf("%w: target year must be positive", common.ErrValidation)
	}
	return nil
}
