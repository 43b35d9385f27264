package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
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

const transactionColumns = `id, remote_id, user_id, amount, description, type, category, transaction_date, date_created, pending`

func scanTransaction(row interface{ Scan(dest ...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	var amount, txDate, created string
	err := row.Scan(&t.ID, &t.RemoteID, &t.UserID, &amount, &t.Description,
		&t.Type, &t.Category, &txDate, &created, &t.Pending)
	if err != nil {
		return nil, err
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}
	if t.TransactionDate, err = time.Parse(models.DateLayout, txDate); err != nil {
		return nil, fmt.Errorf("failed to parse transaction date %q: %w", txDate, err)
	}
	if t.DateCreated, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("failed to parse creation time %q: %w", created, err)
	}
	return &t, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.Transaction) (int64, error) {
	query := `insert into transactions
		(remote_id, user_id, amount, description, type, category, transaction_date, date_created, pending)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		t.RemoteID, t.UserID, t.Amount.String(), t.Description, t.Type, t.Category,
		t.TransactionDate.Format(models.DateLayout),
		t.DateCreated.UTC().Format(time.RFC3339), t.Pending)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, t *models.Transaction) error {
	query := `update transactions
		set remote_id=?, amount=?, description=?, type=?, category=?, transaction_date=?, date_created=?, pending=?
		where id=? and user_id=?`
	res, err := r.db.ExecContext(ctx, query,
		t.RemoteID, t.Amount.String(), t.Description, t.Type, t.Category,
		t.TransactionDate.Format(models.DateLayout),
		t.DateCreated.UTC().Format(time.RFC3339), t.Pending,
		t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	query := `select ` + transactionColumns + ` from transactions where id=? and user_id=?`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, userID int64) ([]models.Transaction, error) {
	query := `select ` + transactionColumns + ` from transactions
		where user_id=? order by transaction_date desc, date_created desc`
	return r.queryMany(ctx, query, userID)
}

func (r *SQLiteRepository) GetByMonth(ctx context.Context, userID int64, month, year int) ([]models.Transaction, error) {
	query := `select ` + transactionColumns + ` from transactions
		where user_id=? and substr(transaction_date, 1, 7)=?
		order by transaction_date desc, date_created desc`
	return r.queryMany(ctx, query, userID, fmt.Sprintf("%04d-%02d", year, month))
}

func (r *SQLiteRepository) GetSynced(ctx context.Context, userID int64) ([]models.Transaction, error) {
	query := `select ` + transactionColumns + ` from transactions where user_id=? and pending=0`
	return r.queryMany(ctx, query, userID)
}

func (r *SQLiteRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
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

func (r *SQLiteRepository) DeleteByID(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `delete from transactions where id=? and user_id=?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) SetRemoteID(ctx context.Context, id, remoteID int64) error {
	res, err := r.db.ExecContext(ctx, `update transactions set remote_id=? where id=?`, remoteID, id)
	if err != nil {
		return fmt.Errorf("failed to set remote id: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) SetPending(ctx context.Context, id int64, pending bool) error {
	res, err := r.db.ExecContext(ctx, `update transactions set pending=? where id=?`, pending, id)
	if err != nil {
		return fmt.Errorf("failed to set pending flag: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `delete from transactions where user_id=?`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
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
