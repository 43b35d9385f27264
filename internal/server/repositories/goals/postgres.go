package goals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// PostgresRepository implements Repository over a DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const goalColumns = `id, user_id, target_amount, target_month, target_year, created_at`

func scanGoal(row interface{ Scan(dest ...any) error }) (*models.Goal, error) {
	var g models.Goal
	var amount string
	err := row.Scan(&g.ID, &g.UserID, &amount, &g.TargetMonth, &g.TargetYear, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	if g.TargetAmount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("failed to parse target amount %q: %w", amount, err)
	}
	return &g, nil
}

func (r *PostgresRepository) Create(ctx context.Context, g *models.Goal) (int64, error) {
	query := `INSERT INTO goals (user_id, target_amount, target_month, target_year)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		g.UserID, g.TargetAmount.StringFixed(2), g.TargetMonth, g.TargetYear).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, common.ErrAlreadyExists
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) Update(ctx context.Context, g *models.Goal) error {
	query := `UPDATE goals
		 SET target_amount = $1, target_month = $2, target_year = $3
		 WHERE id = $4 AND user_id = $5`

	res, err := r.db.ExecContext(ctx, query,
		g.TargetAmount.StringFixed(2), g.TargetMonth, g.TargetYear, g.ID, g.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id int64) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}

func (r *PostgresRepository) GetByMonthYear(ctx context.Context, userID int64, month, year int) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals
		 WHERE user_id = $1 AND target_month = $2 AND target_year = $3`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, userID, month, year))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context, userID int64) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals
		 WHERE user_id = $1
		 ORDER BY target_year DESC, target_month DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func requireOneRow(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
