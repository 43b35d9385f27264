package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
	"github.com/dmitrijs2005/fintrack/internal/common"
)

// MonthSummary aggregates one calendar month of the user's records.
type MonthSummary struct {
	Month    int
	Year     int
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal

	// Goal fields are zero values when no goal is set for the month.
	HasGoal    bool
	GoalTarget decimal.Decimal
	// Progress is net income floored at zero; it never goes negative even
	// when expenses exceed income.
	Progress decimal.Decimal
}

// CategoryTotal is one row of a per-category expense breakdown.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// ProgressService computes read-only aggregations over the local store.
// Everything here is a pure function of stored rows and works offline.
type ProgressService interface {
	// GoalProgress returns net income (income minus expenses) for the
	// month, floored at zero.
	GoalProgress(ctx context.Context, userID int64, month, year int) (decimal.Decimal, error)

	// MonthSummary returns income/expense/net totals plus goal progress
	// for the month.
	MonthSummary(ctx context.Context, userID int64, month, year int) (*MonthSummary, error)

	// CategoryBreakdown returns expense totals per category for the month,
	// largest first.
	CategoryBreakdown(ctx context.Context, userID int64, month, year int) ([]CategoryTotal, error)
}

type progressService struct {
	db  *sql.DB
	mgr storage.Manager
}

// NewProgressService constructs a ProgressService over the local store.
func NewProgressService(db *sql.DB, mgr storage.Manager) ProgressService {
	return &progressService{db: db, mgr: mgr}
}

func (s *progressService) GoalProgress(ctx context.Context, userID int64, month, year int) (decimal.Decimal, error) {
	rows, err := s.mgr.Transactions(s.db).GetByMonth(ctx, userID, month, year)
	if err != nil {
		return decimal.Zero, err
	}

	net := decimal.Zero
	for i := range rows {
		net = net.Add(rows[i].Signed())
	}
	if net.IsNegative() {
		return decimal.Zero, nil
	}
	return net, nil
}

func (s *progressService) MonthSummary(ctx context.Context, userID int64, month, year int) (*MonthSummary, error) {
	rows, err := s.mgr.Transactions(s.db).GetByMonth(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}

	sum := &MonthSummary{
		Month:    month,
		Year:     year,
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}
	for i := range rows {
		if rows[i].Type == models.TransactionTypeIncome {
			sum.Income = sum.Income.Add(rows[i].Amount)
		} else {
			sum.Expenses = sum.Expenses.Add(rows[i].Amount)
		}
	}
	sum.Net = sum.Income.Sub(sum.Expenses)
	sum.Progress = sum.Net
	if sum.Progress.IsNegative() {
		sum.Progress = decimal.Zero
	}

	goal, err := s.mgr.Goals(s.db).GetByMonthYear(ctx, userID, month, year)
	switch {
	case err == nil:
		sum.HasGoal = true
		sum.GoalTarget = goal.TargetAmount
	case errors.Is(err, common.ErrNotFound):
		// No goal set for this month; totals alone are still useful.
	default:
		return nil, err
	}

	return sum, nil
}

func (s *progressService) CategoryBreakdown(ctx context.Context, userID int64, month, year int) ([]CategoryTotal, error) {
	rows, err := s.mgr.Transactions(s.db).GetByMonth(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for i := range rows {
		if rows[i].Type != models.TransactionTypeExpense {
			continue
		}
		totals[rows[i].Category] = totals[rows[i].Category].Add(rows[i].Amount)
	}

	result := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		result = append(result, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Total.Equal(result[j].Total) {
			return result[i].Total.GreaterThan(result[j].Total)
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}
