package syncqueue

import (
	"context"
	"fmt"
	"time"

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

func (r *SQLiteRepository) Enqueue(ctx context.Context, e *models.QueueEntry) (int64, error) {
	query := `insert into sync_queue (user_id, entity, local_id, remote_id, op, payload, enqueued_at)
		values (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.UserID, e.Entity, e.LocalID, e.RemoteID, e.Op, e.Payload,
		e.EnqueuedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue change: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, userID int64) ([]models.QueueEntry, error) {
	query := `select id, user_id, entity, local_id, remote_id, op, payload, enqueued_at
		from sync_queue where user_id=? order by id asc`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue entries: %w", err)
	}
	defer rows.Close()

	var result []models.QueueEntry
	for rows.Next() {
		var e models.QueueEntry
		var enqueued string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Entity, &e.LocalID, &e.RemoteID,
			&e.Op, &e.Payload, &enqueued); err != nil {
			return nil, err
		}
		if e.EnqueuedAt, err = time.Parse(time.RFC3339, enqueued); err != nil {
			return nil, fmt.Errorf("failed to parse enqueue time %q: %w", enqueued, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `delete from sync_queue where id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete queue entry: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteForRow(ctx context.Context, userID int64, entity models.EntityType, localID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`delete from sync_queue where user_id=? and entity=? and local_id=?`,
		userID, entity, localID)
	if err != nil {
		return 0, fmt.Errorf("failed to purge queue entries: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra, nil
}

func (r *SQLiteRepository) CountForRow(ctx context.Context, userID int64, entity models.EntityType, localID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`select count(*) from sync_queue where user_id=? and entity=? and local_id=?`,
		userID, entity, localID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count queue entries: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`select count(*) from sync_queue where user_id=?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count queue entries: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `delete from sync_queue where user_id=?`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}
