package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/client/remote"
	"github.com/dmitrijs2005/fintrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
	"github.com/dmitrijs2005/fintrack/internal/logging"
)

// SyncReport summarizes one sync run.
type SyncReport struct {
	RunID  string
	Pushed int
	Failed int
	Pulled int
	Errors []string
}

// Summary renders the report as a one-line status for the UI.
func (r *SyncReport) Summary() string {
	s := fmt.Sprintf("pushed %d, failed %d, pulled %d", r.Pushed, r.Failed, r.Pulled)
	if len(r.Errors) > 0 {
		s += fmt.Sprintf(" (%d problem(s), will retry on next sync)", len(r.Errors))
	}
	return s
}

// SyncService reconciles local pending intents with the server and pulls
// authoritative state back.
type SyncService interface {
	// Sync runs one push+pull cycle. It fails immediately with
	// ErrUnavailable when the server is unreachable or no credential is
	// cached, and with ErrSyncInProgress when a run is already active.
	// Per-entry push failures do not fail the run; they are aggregated
	// into the report and retried next time. A failed pull fetch does
	// fail the run: no safe reconciliation is possible for that entity
	// type, so the report is returned together with a non-nil error.
	Sync(ctx context.Context, userID int64) (*SyncReport, error)
}

type syncService struct {
	api      remote.API
	db       *sql.DB
	mgr      storage.Manager
	log      logging.Logger
	inFlight atomic.Bool
}

// NewSyncService constructs a SyncService.
func NewSyncService(api remote.API, db *sql.DB, mgr storage.Manager, log logging.Logger) SyncService {
	return &syncService{api: api, db: db, mgr: mgr, log: log}
}

func (s *syncService) Sync(ctx context.Context, userID int64) (*SyncReport, error) {
	// Two concurrent drains of the same queue would double-submit intents.
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, common.ErrSyncInProgress
	}
	defer s.inFlight.Store(false)

	token, err := s.mgr.Metadata(s.db).Get(ctx, metadata.KeyToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("%w: not logged in", common.ErrUnavailable)
	}
	if err := s.api.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: server not reachable", common.ErrUnavailable)
	}

	report := &SyncReport{RunID: uuid.NewString()}
	log := s.log.With("run_id", report.RunID)
	log.Info(ctx, "sync started", "user_id", userID)

	s.push(ctx, userID, report, log)
	pullErr := s.pull(ctx, userID, report, log)

	log.Info(ctx, "sync finished",
		"pushed", report.Pushed, "failed", report.Failed, "pulled", report.Pulled)
	return report, pullErr
}

// push drains the queue in FIFO order. A failed entry stays queued and
// blocks this run's later entries for the same record, so a record's own
// history is never replayed out of order; entries for other records
// continue.
func (s *syncService) push(ctx context.Context, userID int64, report *SyncReport, log logging.Logger) {
	entries, err := s.mgr.Queue(s.db).GetAll(ctx, userID)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("read queue: %v", err))
		return
	}

	blocked := make(map[string]struct{})
	for i := range entries {
		e := &entries[i]
		key := fmt.Sprintf("%s/%d", e.Entity, e.LocalID)

		if _, ok := blocked[key]; ok {
			report.Failed++
			report.Errors = append(report.Errors,
				fmt.Sprintf("%s %s #%d deferred after earlier failure", e.Entity, e.Op, e.LocalID))
			continue
		}

		var ops entityOps
		switch e.Entity {
		case models.EntityTransaction:
			ops = s.transactionOps(userID)
		case models.EntityGoal:
			ops = s.goalOps(userID)
		default:
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("unknown entity %q", e.Entity))
			continue
		}

		if err := s.pushEntry(ctx, userID, e, ops); err != nil {
			blocked[key] = struct{}{}
			report.Failed++
			report.Errors = append(report.Errors,
				fmt.Sprintf("%s %s #%d: %v", e.Entity, e.Op, e.LocalID, err))
			log.Warn(ctx, "push failed",
				"entity", e.Entity, "op", e.Op, "local_id", e.LocalID, "error", err)
			continue
		}
		report.Pushed++
		log.Debug(ctx, "pushed", "entity", e.Entity, "op", e.Op, "local_id", e.LocalID)
	}
}

// entityOps adapts one entity type to the generic push algorithm.
type entityOps struct {
	create      func(ctx context.Context, payload []byte) (int64, error)
	update      func(ctx context.Context, id int64, payload []byte) error
	del         func(ctx context.Context, id int64) error
	rowRemoteID func(ctx context.Context, localID int64) (int64, bool)
	setRemoteID func(ctx context.Context, localID, remoteID int64) error
	setSynced   func(ctx context.Context, localID int64) error
}

func (s *syncService) transactionOps(userID int64) entityOps {
	repo := s.mgr.Transactions(s.db)
	return entityOps{
		create: func(ctx context.Context, payload []byte) (int64, error) {
			var p models.TransactionPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return 0, fmt.Errorf("corrupt payload: %w", err)
			}
			return s.api.CreateTransaction(ctx, p)
		},
		update: func(ctx context.Context, id int64, payload []byte) error {
			var p models.TransactionPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return fmt.Errorf("corrupt payload: %w", err)
			}
			return s.api.UpdateTransaction(ctx, id, p)
		},
		del: func(ctx context.Context, id int64) error {
			return s.api.DeleteTransaction(ctx, id)
		},
		rowRemoteID: func(ctx context.Context, localID int64) (int64, bool) {
			t, err := repo.GetByID(ctx, userID, localID)
			if err != nil {
				return 0, false
			}
			return t.RemoteID, true
		},
		setRemoteID: repo.SetRemoteID,
		setSynced: func(ctx context.Context, localID int64) error {
			return repo.SetPending(ctx, localID, false)
		},
	}
}

func (s *syncService) goalOps(userID int64) entityOps {
	repo := s.mgr.Goals(s.db)
	return entityOps{
		create: func(ctx context.Context, payload []byte) (int64, error) {
			var p models.GoalPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return 0, fmt.Errorf("corrupt payload: %w", err)
			}
			return s.api.CreateGoal(ctx, p)
		},
		update: func(ctx context.Context, id int64, payload []byte) error {
			var p models.GoalPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return fmt.Errorf("corrupt payload: %w", err)
			}
			return s.api.UpdateGoal(ctx, id, p)
		},
		del: func(ctx context.Context, id int64) error {
			return s.api.DeleteGoal(ctx, id)
		},
		rowRemoteID: func(ctx context.Context, localID int64) (int64, bool) {
			g, err := repo.GetByID(ctx, userID, localID)
			if err != nil {
				return 0, false
			}
			return g.RemoteID, true
		},
		setRemoteID: repo.SetRemoteID,
		setSynced: func(ctx context.Context, localID int64) error {
			return repo.SetPending(ctx, localID, false)
		},
	}
}

// pushEntry submits one intent. On success the entry is removed; when it
// was the record's last queued intent, the row is flipped to synced.
func (s *syncService) pushEntry(ctx context.Context, userID int64, e *models.QueueEntry, ops entityOps) error {
	switch e.Op {
	case models.OpCreate:
		remoteID, err := ops.create(ctx, e.Payload)
		if err != nil {
			var ce *remote.ConflictError
			if !errors.As(err, &ce) {
				return err
			}
			// The record already exists remotely: replay the same intent
			// as an update against the existing id.
			remoteID = ce.RemoteID
			if remoteID == 0 {
				remoteID = s.resolveTarget(ctx, e, ops)
			}
			if err := ops.update(ctx, remoteID, e.Payload); err != nil {
				return fmt.Errorf("conflict fallback: %w", err)
			}
		}
		if err := ops.setRemoteID(ctx, e.LocalID, remoteID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		return s.settle(ctx, userID, e, ops)

	case models.OpUpdate:
		if err := ops.update(ctx, s.resolveTarget(ctx, e, ops), e.Payload); err != nil {
			return err
		}
		return s.settle(ctx, userID, e, ops)

	case models.OpDelete:
		// A 404 means another client already deleted it; the intent is done.
		if err := ops.del(ctx, e.RemoteID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		return s.mgr.Queue(s.db).DeleteByID(ctx, e.ID)

	default:
		return fmt.Errorf("unknown queue operation %q", e.Op)
	}
}

// resolveTarget picks the server id to address: the row's current remote id
// when it has one, then the id captured at enqueue time, then the local id.
func (s *syncService) resolveTarget(ctx context.Context, e *models.QueueEntry, ops entityOps) int64 {
	if id, ok := ops.rowRemoteID(ctx, e.LocalID); ok && id > 0 {
		return id
	}
	if e.RemoteID > 0 {
		return e.RemoteID
	}
	return e.LocalID
}

func (s *syncService) settle(ctx context.Context, userID int64, e *models.QueueEntry, ops entityOps) error {
	queue := s.mgr.Queue(s.db)
	if err := queue.DeleteByID(ctx, e.ID); err != nil {
		return err
	}
	left, err := queue.CountForRow(ctx, userID, e.Entity, e.LocalID)
	if err != nil {
		return err
	}
	if left > 0 {
		// More intents queued for this record; it stays pending so a pull
		// cannot clobber the not-yet-pushed state.
		return nil
	}
	if err := ops.setSynced(ctx, e.LocalID); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return nil
}

// pull fetches the authoritative lists and reconciles them into the local
// store. Each entity type is fetched fully first and applied in a single
// transaction, so a network drop mid-pull never leaves half-applied state.
// A fetch failure aborts reconciliation for that entity type and fails the
// run; the other entity type is still pulled first so as much state as
// possible converges.
func (s *syncService) pull(ctx context.Context, userID int64, report *SyncReport, log logging.Logger) error {
	var errs []error

	remoteTxs, err := s.api.ListTransactions(ctx)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("pull transactions: %v", err))
		log.Warn(ctx, "pull transactions failed", "error", err)
		errs = append(errs, fmt.Errorf("pull transactions: %w", err))
	} else {
		n, err := s.reconcileTransactions(ctx, userID, remoteTxs)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("reconcile transactions: %v", err))
			log.Warn(ctx, "reconcile transactions failed", "error", err)
			errs = append(errs, fmt.Errorf("reconcile transactions: %w", err))
		}
		report.Pulled += n
	}

	remoteGoals, err := s.api.ListGoals(ctx)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("pull goals: %v", err))
		log.Warn(ctx, "pull goals failed", "error", err)
		errs = append(errs, fmt.Errorf("pull goals: %w", err))
	} else {
		n, err := s.reconcileGoals(ctx, userID, remoteGoals)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("reconcile goals: %v", err))
			log.Warn(ctx, "reconcile goals failed", "error", err)
			errs = append(errs, fmt.Errorf("reconcile goals: %w", err))
		}
		report.Pulled += n
	}

	return errors.Join(errs...)
}

func remoteTransactionToModel(userID int64, rr remote.Transaction) *models.Transaction {
	return &models.Transaction{
		RemoteID:        rr.ID,
		UserID:          userID,
		Amount:          rr.Amount,
		Description:     rr.Description,
		Type:            rr.Type,
		Category:        rr.Category,
		TransactionDate: models.ParseDate(rr.TransactionDate),
		DateCreated:     rr.DateCreated.UTC(),
		Pending:         false,
	}
}

func (s *syncService) reconcileTransactions(ctx context.Context, userID int64, remoteRows []remote.Transaction) (int, error) {
	applied := 0
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		applied = 0
		repo := s.mgr.Transactions(tx)

		locals, err := repo.GetAll(ctx, userID)
		if err != nil {
			return err
		}
		byRemote := make(map[int64]*models.Transaction, len(locals))
		for i := range locals {
			if locals[i].RemoteID != 0 {
				byRemote[locals[i].RemoteID] = &locals[i]
			}
		}

		seen := make(map[int64]struct{}, len(remoteRows))
		for _, rr := range remoteRows {
			seen[rr.ID] = struct{}{}
			local, ok := byRemote[rr.ID]
			if ok && local.Pending {
				// Local unsynced edit wins until its intent is pushed.
				continue
			}
			row := remoteTransactionToModel(userID, rr)
			if ok {
				row.ID = local.ID
				if err := repo.Update(ctx, row); err != nil {
					return err
				}
			} else {
				if _, err := repo.Create(ctx, row); err != nil {
					return err
				}
			}
			applied++
		}

		// Synced rows the server no longer has were deleted elsewhere.
		for i := range locals {
			l := &locals[i]
			if l.Pending || l.RemoteID == 0 {
				continue
			}
			if _, ok := seen[l.RemoteID]; !ok {
				if err := repo.DeleteByID(ctx, userID, l.ID); err != nil {
					return err
				}
				applied++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

func (s *syncService) reconcileGoals(ctx context.Context, userID int64, remoteRows []remote.Goal) (int, error) {
	applied := 0
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		applied = 0
		repo := s.mgr.Goals(tx)

		locals, err := repo.GetAll(ctx, userID)
		if err != nil {
			return err
		}
		byRemote := make(map[int64]*models.Goal, len(locals))
		for i := range locals {
			if locals[i].RemoteID != 0 {
				byRemote[locals[i].RemoteID] = &locals[i]
			}
		}

		seen := make(map[int64]struct{}, len(remoteRows))
		handled := make(map[int64]struct{})
		for _, rg := range remoteRows {
			seen[rg.ID] = struct{}{}
			local, ok := byRemote[rg.ID]
			if ok && local.Pending {
				continue
			}
			row := &models.Goal{
				RemoteID:     rg.ID,
				UserID:       userID,
				TargetAmount: rg.TargetAmount,
				TargetMonth:  rg.TargetMonth,
				TargetYear:   rg.TargetYear,
				CreatedAt:    rg.CreatedAt.UTC(),
				Pending:      false,
			}
			if ok {
				row.ID = local.ID
				if err := repo.Update(ctx, row); err != nil {
					return err
				}
				handled[local.ID] = struct{}{}
				applied++
				continue
			}

			// One goal per month: an unmatched remote goal may correspond
			// to an existing local row for the same month.
			att, err := repo.GetByMonthYear(ctx, userID, rg.TargetMonth, rg.TargetYear)
			switch {
			case err == nil && att.RemoteID == 0:
				// Never-synced local goal: adopt the server id but keep the
				// local values; its queued create will land as an update.
				if err := repo.SetRemoteID(ctx, att.ID, rg.ID); err != nil {
					return err
				}
				handled[att.ID] = struct{}{}
				applied++
			case err == nil && !att.Pending:
				// Month already taken by a row whose server record was
				// replaced; reuse the row under the new id.
				row.ID = att.ID
				if err := repo.Update(ctx, row); err != nil {
					return err
				}
				handled[att.ID] = struct{}{}
				applied++
			case err == nil:
				// Pending local edit under a stale id; leave it alone.
				handled[att.ID] = struct{}{}
			case errors.Is(err, common.ErrNotFound):
				if _, err := repo.Create(ctx, row); err != nil {
					return err
				}
				applied++
			default:
				return err
			}
		}

		for i := range locals {
			l := &locals[i]
			if l.Pending || l.RemoteID == 0 {
				continue
			}
			if _, ok := handled[l.ID]; ok {
				continue
			}
			if _, ok := seen[l.RemoteID]; !ok {
				if err := repo.DeleteByID(ctx, userID, l.ID); err != nil {
					return err
				}
				applied++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}
