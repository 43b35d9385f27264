package goals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const goalColumns = `id, remote_id, user_id, target_amount, target_month, target_year, created_at, pending`

func scanGoal(row interface{ Scan(dest ...any) error }) (*models.Goal, error) {
	var g models.Goal
	var amount, created string
	err := row.Scan(&g.ID, &g.RemoteID, &g.UserID, &amount, &g.TargetMonth,
		&g.TargetYear, &created, &g.Pending)
	if err != nil {
		return nil, err
	}
	if g.TargetAmount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("failed to parse target amount %q: %w", amount, err)
	}
	if g.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("failed to parse creation time %q: %w", created, err)
	}
	return &g, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, g *models.Goal) (int64, error) {
	query := `insert into goals
		(remote_id, user_id, target_amount, target_month, target_year, created_at, pending)
		values (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		g.RemoteID, g.UserID, g.TargetAmount.String(), g.TargetMonth, g.TargetYear,
		g.CreatedAt.UTC().Format(time.RFC3339), g.Pending)
	if err != nil {
		// Unique index on (user_id, target_month, target_year).
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, common.ErrAlreadyExists
		}
		return 0, fmt.Errorf("failed to insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, g *models.Goal) error {
	query := `update goals
		set remote_id=?, target_amount=?, target_month=?, target_year=?, created_at=?, pending=?
		where id=? and user_id=?`
	res, err := r.db.ExecContext(ctx, query,
		g.RemoteID, g.TargetAmount.String(), g.TargetMonth, g.TargetYear,
		g.CreatedAt.UTC().Format(time.RFC3339), g.Pending,
		g.ID, g.UserID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, id int64) (*models.Goal, error) {
	query := `select ` + goalColumns + ` from goals where id=? and user_id=?`
	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) GetByMonthYear(ctx context.Context, userID int64, month, year int) (*models.Goal, error) {
	query := `select ` + goalColumns + ` from goals where user_id=? and target_month=? and target_year=?`
	g, err := scanGoal(r.db.QueryRowContext(ctx, query, userID, month, year))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, userID int64) ([]models.Goal, error) {
	query := `select ` + goalColumns + ` from goals
		where user_id=? order by target_year desc, target_month desc`
	return r.queryMany(ctx, query, userID)
}

func (r *SQLiteRepository) GetSynced(ctx context.Context, userID int64) ([]models.Goal, error) {
	query := `select ` + goalColumns + ` from goals where user_id=? and pending=0`
	return r.queryMany(ctx, query, userID)
}

func (r *SQLiteRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select goals: %w", err)
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

func (r *SQLiteRepository) DeleteByID(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `delete from goals where id=? and user_id=?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) SetRemoteID(ctx context.Context, id, remoteID int64) error {
	res, err := r.db.ExecContext(ctx, `update goals set remote_id=? where id=?`, remoteID, id)
	if err != nil {
		return fmt.Errorf("failed to set remote id: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) SetPending(ctx context.Context, id int64, pending bool) error {
	res, err := r.db.ExecContext(ctx, `update goals set pending=? where id=?`, pending, id)
	if err != nil {
		return fmt.Errorf("failed to set pending flag: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `delete from goals where user_id=?`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear goals: %w", err)
	}
	return nil
}

func requireOneRow(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
