package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

// PostgresRepository implements Repository over a DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const txColumns = `id, user_id, amount, description, type, category, transaction_date, date_created`

func scanTransaction(row interface{ Scan(dest ...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	var amount string
	err := row.Scan(&t.ID, &t.UserID, &amount, &t.Description, &t.Type,
		&t.Category, &t.TransactionDate, &t.DateCreated)
	if err != nil {
		return nil, err
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}
	return &t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Transaction) (int64, error) {
	query := `INSERT INTO transactions (user_id, amount, description, type, category, transaction_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		t.UserID, t.Amount.StringFixed(2), t.Description, t.Type, t.Category, t.TransactionDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *models.Transaction) error {
	query := `UPDATE transactions
		 SET amount = $1, description = $2, type = $3, category = $4, transaction_date = $5
		 WHERE id = $6 AND user_id = $7`

	res, err := r.db.ExecContext(ctx, query,
		t.Amount.StringFixed(2), t.Description, t.Type, t.Category, t.TransactionDate, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context, userID int64) ([]models.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions
		 WHERE user_id = $1
		 ORDER BY transaction_date DESC, date_created DESC`
	return r.queryMany(ctx, query, userID)
}

func (r *PostgresRepository) GetByMonth(ctx context.Context, userID int64, month, year int) ([]models.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions
		 WHERE user_id = $1
		   AND EXTRACT(MONTH FROM transaction_date) = $2
		   AND EXTRACT(YEAR FROM transaction_date) = $3
		 ORDER BY transaction_date DESC, date_created DESC`
	return r.queryMany(ctx, query, userID, month, year)
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
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
