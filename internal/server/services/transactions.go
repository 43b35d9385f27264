package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/repomanager"
)

// TransactionService handles CRUD for income/expense rows.
type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager) *TransactionService {
	return &TransactionService{db: db, repomanager: m}
}

func validateTransaction(t *models.Transaction) error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	}
	if t.Type != models.TransactionTypeIncome && t.Type != models.TransactionTypeExpense {
		return fmt.Errorf("%w: type must be income or expense", common.ErrValidation)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category is required", common.ErrValidation)
	}
	if t.TransactionDate.IsZero() {
		return fmt.Errorf("%w: transaction date is required", common.ErrValidation)
	}
	return nil
}

func (s *TransactionService) Create(ctx context.Context, t *models.Transaction) (int64, error) {
	if err := validateTransaction(t); err != nil {
		return 0, err
	}
	return s.repomanager.Transactions(s.db).Create(ctx, t)
}

func (s *TransactionService) Update(ctx context.Context, t *models.Transaction) error {
	if err := validateTransaction(t); err != nil {
		return err
	}
	return s.repomanager.Transactions(s.db).Update(ctx, t)
}

func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	return s.repomanager.Transactions(s.db).Delete(ctx, userID, id)
}

func (s *TransactionService) GetByID(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	return s.repomanager.Transactions(s.db).GetByID(ctx, userID, id)
}

func (s *TransactionService) GetAll(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.repomanager.Transactions(s.db).GetAll(ctx, userID)
}

func (s *TransactionService) GetByMonth(ctx context.Context, userID int64, month, year int) ([]models.Transaction, error) {
	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}
	return s.repomanager.Transactions(s.db).GetByMonth(ctx, userID, month, year)
}

func validateMonthYear(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", common.ErrValidation)
	}
	if year < 1900 || year > 3000 {
		return fmt.Errorf("%w: year %d is out of range", common.ErrValidation, year)
	}
	return nil
}
