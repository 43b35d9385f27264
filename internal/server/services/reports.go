package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/repomanager"
)

// CategoryAmount is one category's total within a report.
type CategoryAmount struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MonthlyReport summarizes one month's activity against the month's goal,
// if one is set.
type MonthlyReport struct {
	Month      int              `json:"month"`
	Year       int              `json:"year"`
	Income     decimal.Decimal  `json:"income"`
	Expenses   decimal.Decimal  `json:"expenses"`
	Net        decimal.Decimal  `json:"net"`
	GoalTarget *decimal.Decimal `json:"goalTarget,omitempty"`
	Categories []CategoryAmount `json:"categoryBreakdown"`
}

// MonthTotals is one month's slice of a yearly report.
type MonthTotals struct {
	Month    int             `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// YearlyReport aggregates a full year month by month.
type YearlyReport struct {
	Year     int             `json:"year"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
	Months   []MonthTotals   `json:"monthlyBreakdown"`
}

// ReportService computes aggregates over a user's transactions and goals.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager) *ReportService {
	return &ReportService{db: db, repomanager: m}
}

// Monthly builds the report for one month. Expense categories are listed
// largest total first.
func (s *ReportService) Monthly(ctx context.Context, userID int64, month, year int) (*MonthlyReport, error) {
	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}

	txs, err := s.repomanager.Transactions(s.db).GetByMonth(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Month:      month,
		Year:       year,
		Categories: []CategoryAmount{},
	}

	byCategory := map[string]decimal.Decimal{}
	for _, t := range txs {
		if t.Type == models.TransactionTypeIncome {
			report.Income = report.Income.Add(t.Amount)
			continue
		}
		report.Expenses = report.Expenses.Add(t.Amount)
		byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
	}
	report.Net = report.Income.Sub(report.Expenses)

	for category, total := range byCategory {
		report.Categories = append(report.Categories, CategoryAmount{Category: category, Total: total})
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		a, b := report.Categories[i], report.Categories[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Category < b.Category
	})

	goal, err := s.repomanager.Goals(s.db).GetByMonthYear(ctx, userID, month, year)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if goal != nil {
		report.GoalTarget = &goal.TargetAmount
	}

	return report, nil
}

// Yearly builds twelve month slices plus year totals.
func (s *ReportService) Yearly(ctx context.Context, userID int64, year int) (*YearlyReport, error) {
	if err := validateMonthYear(1, year); err != nil {
		return nil, err
	}

	txs, err := s.repomanager.Transactions(s.db).GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &YearlyReport{Year: year, Months: make([]MonthTotals, 12)}
	for i := range report.Months {
		report.Months[i].Month = i + 1
	}

	for _, t := range txs {
		if t.TransactionDate.Year() != year {
			continue
		}
		m := &report.Months[int(t.TransactionDate.Month())-1]
		if t.Type == models.TransactionTypeIncome {
			m.Income = m.Income.Add(t.Amount)
			report.Income = report.Income.Add(t.Amount)
		} else {
			m.Expenses = m.Expenses.Add(t.Amount)
			report.Expenses = report.Expenses.Add(t.Amount)
		}
	}

	for i := range report.Months {
		report.Months[i].Net = report.Months[i].Income.Sub(report.Months[i].Expenses)
	}
	report.Net = report.Income.Sub(report.Expenses)

	return report, nil
}
