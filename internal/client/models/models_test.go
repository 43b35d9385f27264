package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fintrack/internal/common"
)

func validTransaction() Transaction {
	return Transaction{
		Amount:          decimal.NewFromFloat(12.50),
		Description:     "groceries",
		Type:            TransactionTypeExpense,
		Category:        "food",
		TransactionDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr bool
	}{
		{"valid expense", func(tr *Transaction) {}, false},
		{"valid income", func(tr *Transaction) { tr.Type = TransactionTypeIncome }, false},
		{"zero amount", func(tr *Transaction) { tr.Amount = decimal.Zero }, true},
		{"negative amount", func(tr *Transaction) { tr.Amount = decimal.NewFromInt(-5) }, true},
		{"unknown type", func(tr *Transaction) { tr.Type = "transfer" }, true},
		{"empty description", func(tr *Transaction) { tr.Description = "  " }, true},
		{"empty category", func(tr *Transaction) { tr.Category = "" }, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tr := validTransaction()
			tt.mutate(&tr)
			err := tr.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTransaction_Signed(t *testing.T) {
	tr := validTransaction()
	assert.True(t, tr.Signed().Equal(decimal.NewFromFloat(-12.50)), "expense is negative")

	tr.Type = TransactionTypeIncome
	assert.True(t, tr.Signed().Equal(decimal.NewFromFloat(12.50)), "income is positive")
}

func TestGoal_Validate(t *testing.T) {
	valid := Goal{
		TargetAmount: decimal.NewFromInt(500),
		TargetMonth:  3,
		TargetYear:   2024,
	}

	tests := []struct {
		name    string
		mutate  func(*Goal)
		wantErr bool
	}{
		{"valid", func(g *Goal) {}, false},
		{"december", func(g *Goal) { g.TargetMonth = 12 }, false},
		{"zero amount", func(g *Goal) { g.TargetAmount = decimal.Zero }, true},
		{"month zero", func(g *Goal) { g.TargetMonth = 0 }, true},
		{"month thirteen", func(g *Goal) { g.TargetMonth = 13 }, true},
		{"year zero", func(g *Goal) { g.TargetYear = 0 }, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.mutate(&g)
			err := g.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Run("well-formed date", func(t *testing.T) {
		got := ParseDate("2024-03-15")
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		got := ParseDate(" 2024-03-15 ")
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("malformed input falls back to today", func(t *testing.T) {
		for _, s := range []string{"", "not-a-date", "2024-13-40", "15.03.2024"} {
			assert.Equal(t, Today(), ParseDate(s), "input %q", s)
		}
	})
}

func TestSnapshots_RoundTrip(t *testing.T) {
	tr := validTransaction()
	b, err := tr.Snapshot()
	require.NoError(t, err)

	var p TransactionPayload
	require.NoError(t, json.Unmarshal(b, &p))
	assert.True(t, p.Amount.Equal(tr.Amount))
	assert.Equal(t, tr.Description, p.Description)
	assert.Equal(t, tr.Type, p.Type)
	assert.Equal(t, "2024-03-15", p.TransactionDate)

	g := Goal{TargetAmount: decimal.NewFromInt(500), TargetMonth: 3, TargetYear: 2024}
	gb, err := g.Snapshot()
	require.NoError(t, err)

	var gp GoalPayload
	require.NoError(t, json.Unmarshal(gb, &gp))
	assert.True(t, gp.TargetAmount.Equal(g.TargetAmount))
	assert.Equal(t, 3, gp.TargetMonth)
	assert.Equal(t, 2024, gp.TargetYear)
}
