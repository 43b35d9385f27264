package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/repomanager"
)

// GoalService handles CRUD for monthly savings targets. Creating a second
// goal for a month a user already has one for returns ErrAlreadyExists; the
// HTTP layer answers with a conflict status so offline clients can fall back
// to updating the existing row.
type GoalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewGoalService(db *sql.DB, m repomanager.RepositoryManager) *GoalService {
	return &GoalService{db: db, repomanager: m}
}

func validateGoal(g *models.Goal) error {
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be positive", common.ErrValidation)
	}
	return validateMonthYear(g.TargetMonth, g.TargetYear)
}

func (s *GoalService) Create(ctx context.Context, g *models.Goal) (int64, error) {
	if err := validateGoal(g); err != nil {
		return 0, err
	}
	return s.repomanager.Goals(s.db).Create(ctx, g)
}

func (s *GoalService) Update(ctx context.Context, g *models.Goal) error {
	if err := validateGoal(g); err != nil {
		return err
	}
	return s.repomanager.Goals(s.db).Update(ctx, g)
}

func (s *GoalService) Delete(ctx context.Context, userID, id int64) error {
	return s.repomanager.Goals(s.db).Delete(ctx, userID, id)
}

func (s *GoalService) GetByID(ctx context.Context, userID, id int64) (*models.Goal, error) {
	return s.repomanager.Goals(s.db).GetByID(ctx, userID, id)
}

func (s *GoalService) GetByMonthYear(ctx context.Context, userID int64, month, year int) (*models.Goal, error) {
	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}
	return s.repomanager.Goals(s.db).GetByMonthYear(ctx, userID, month, year)
}

func (s *GoalService) GetAll(ctx context.Context, userID int64) ([]models.Goal, error) {
	return s.repomanager.Goals(s.db).GetAll(ctx, userID)
}
