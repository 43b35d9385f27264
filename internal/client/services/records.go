package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
)

// RecordService is the write/read surface for local records. Every mutation
// pairs the primary-row write with a queue intent inside one transaction, so
// a crash can never leave a changed row without its pending intent or an
// intent without its row.
type RecordService interface {
	AddTransaction(ctx context.Context, userID int64, t *models.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, userID int64, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
	GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)
	ListTransactionsByMonth(ctx context.Context, userID int64, month, year int) ([]models.Transaction, error)

	AddGoal(ctx context.Context, userID int64, g *models.Goal) (int64, error)
	UpdateGoal(ctx context.Context, userID int64, g *models.Goal) error
	DeleteGoal(ctx context.Context, userID, id int64) error
	ListGoals(ctx context.Context, userID int64) ([]models.Goal, error)
	GetGoalByMonth(ctx context.Context, userID int64, month, year int) (*models.Goal, error)

	// PendingCount reports how many queued intents await the next sync.
	PendingCount(ctx context.Context, userID int64) (int, error)

	// ClearLocalData wipes the user's rows and queue, e.g. before re-pulling
	// from scratch.
	ClearLocalData(ctx context.Context, userID int64) error
}

type recordService struct {
	db  *sql.DB
	mgr storage.Manager
	now func() time.Time
}

// NewRecordService constructs a RecordService over the local store.
func NewRecordService(db *sql.DB, mgr storage.Manager) RecordService {
	return &recordService{db: db, mgr: mgr, now: time.Now}
}

func (s *recordService) AddTransaction(ctx context.Context, userID int64, t *models.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	t.UserID = userID
	t.RemoteID = 0
	t.Pending = true
	if t.TransactionDate.IsZero() {
		t.TransactionDate = models.Today()
	}
	t.DateCreated = s.now().UTC()

	var id int64
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if id, err = s.mgr.Transactions(tx).Create(ctx, t); err != nil {
			return err
		}
		return s.enqueue(ctx, tx, userID, models.EntityTransaction, id, 0, models.OpCreate, t)
	})
	if err != nil {
		return 0, err
	}
	t.ID = id
	return id, nil
}

func (s *recordService) UpdateTransaction(ctx context.Context, userID int64, t *models.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.mgr.Transactions(tx)

		existing, err := repo.GetByID(ctx, userID, t.ID)
		if err != nil {
			return err
		}

		t.UserID = userID
		t.RemoteID = existing.RemoteID
		t.DateCreated = existing.DateCreated
		t.Pending = true
		if t.TransactionDate.IsZero() {
			t.TransactionDate = existing.TransactionDate
		}
		if err := repo.Update(ctx, t); err != nil {
			return err
		}
		return s.enqueue(ctx, tx, userID, models.EntityTransaction, t.ID, existing.RemoteID, models.OpUpdate, t)
	})
}

func (s *recordService) DeleteTransaction(ctx context.Context, userID, id int64) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.mgr.Transactions(tx)

		existing, err := repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := repo.DeleteByID(ctx, userID, id); err != nil {
			return err
		}

		queue := s.mgr.Queue(tx)
		if existing.RemoteID == 0 {
			// Never synced: the server has never heard of this record, so
			// drop its queued intents instead of pushing anything.
			_, err := queue.DeleteForRow(ctx, userID, models.EntityTransaction, id)
			return err
		}
		return s.enqueue(ctx, tx, userID, models.EntityTransaction, id, existing.RemoteID, models.OpDelete, nil)
	})
}

func (s *recordService) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	return s.mgr.Transactions(s.db).GetByID(ctx, userID, id)
}

func (s *recordService) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.mgr.Transactions(s.db).GetAll(ctx, userID)
}

func (s *recordService) ListTransactionsByMonth(ctx context.Context, userID int64, month, year int) ([]models.Transaction, error) {
	return s.mgr.Transactions(s.db).GetByMonth(ctx, userID, month, year)
}

func (s *recordService) AddGoal(ctx context.Context, userID int64, g *models.Goal) (int64, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}

	g.UserID = userID
	g.RemoteID = 0
	g.Pending = true
	g.CreatedAt = s.now().UTC()

	var id int64
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if id, err = s.mgr.Goals(tx).Create(ctx, g); err != nil {
			return err
		}
		return s.enqueue(ctx, tx, userID, models.EntityGoal, id, 0, models.OpCreate, g)
	})
	if err != nil {
		return 0, err
	}
	g.ID = id
	return id, nil
}

func (s *recordService) UpdateGoal(ctx context.Context, userID int64, g *models.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.mgr.Goals(tx)

		existing, err := repo.GetByID(ctx, userID, g.ID)
		if err != nil {
			return err
		}

		g.UserID = userID
		g.RemoteID = existing.RemoteID
		g.CreatedAt = existing.CreatedAt
		g.Pending = true
		if err := repo.Update(ctx, g); err != nil {
			return err
		}
		return s.enqueue(ctx, tx, userID, models.EntityGoal, g.ID, existing.RemoteID, models.OpUpdate, g)
	})
}

func (s *recordService) DeleteGoal(ctx context.Context, userID, id int64) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.mgr.Goals(tx)

		existing, err := repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := repo.DeleteByID(ctx, userID, id); err != nil {
			return err
		}

		queue := s.mgr.Queue(tx)
		if existing.RemoteID == 0 {
			_, err := queue.DeleteForRow(ctx, userID, models.EntityGoal, id)
			return err
		}
		return s.enqueue(ctx, tx, userID, models.EntityGoal, id, existing.RemoteID, models.OpDelete, nil)
	})
}

func (s *recordService) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	return s.mgr.Goals(s.db).GetAll(ctx, userID)
}

func (s *recordService) GetGoalByMonth(ctx context.Context, userID int64, month, year int) (*models.Goal, error) {
	return s.mgr.Goals(s.db).GetByMonthYear(ctx, userID, month, year)
}

func (s *recordService) PendingCount(ctx context.Context, userID int64) (int, error) {
	return s.mgr.Queue(s.db).Count(ctx, userID)
}

func (s *recordService) ClearLocalData(ctx context.Context, userID int64) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.mgr.Transactions(tx).Clear(ctx, userID); err != nil {
			return err
		}
		if err := s.mgr.Goals(tx).Clear(ctx, userID); err != nil {
			return err
		}
		return s.mgr.Queue(tx).Clear(ctx, userID)
	})
}

// snapshotter is implemented by both record models.
type snapshotter interface {
	Snapshot() ([]byte, error)
}

// enqueue appends one intent to the sync queue within the caller's
// transaction. A nil record (delete intents) stores an empty payload.
func (s *recordService) enqueue(ctx context.Context, tx dbx.DBTX, userID int64,
	entity models.EntityType, localID, remoteID int64, op models.Operation, record snapshotter) error {

	payload := []byte(`{}`)
	if record != nil {
		var err error
		if payload, err = record.Snapshot(); err != nil {
			return fmt.Errorf("failed to snapshot record: %w", err)
		}
	}

	_, err := s.mgr.Queue(tx).Enqueue(ctx, &models.QueueEntry{
		UserID:     userID,
		Entity:     entity,
		LocalID:    localID,
		RemoteID:   remoteID,
		Op:         op,
		Payload:    payload,
		EnqueuedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue %s intent: %w", op, err)
	}
	return nil
}
