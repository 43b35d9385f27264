package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a monthly savings target. The table enforces at most one goal per
// (user, target month, target year).
type Goal struct {
	ID           int64
	UserID       int64
	TargetAmount decimal.Decimal
	TargetMonth  int
	TargetYear   int
	CreatedAt    time.Time
}
