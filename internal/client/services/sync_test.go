package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/client/remote"
	"github.com/dmitrijs2005/fintrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/logging"
)

// fakeCall records one outbound API call for order assertions.
type fakeCall struct {
	Op string
	ID int64
}

// fakeAPI is an in-memory remote.API double. Zero value behaves like a
// healthy empty server; individual function fields override behavior.
// Successful writes land in txList/goalList so the pull phase of the same
// run sees them, like a real server would.
type fakeAPI struct {
	pingErr error
	calls   []fakeCall

	nextID     int64
	txList     []remote.Transaction
	goalList   []remote.Goal
	createTxFn func(p models.TransactionPayload) (int64, error)
	updateTxFn func(id int64, p models.TransactionPayload) error
	createGlFn func(p models.GoalPayload) (int64, error)
	listTxErr  error
	listGlErr  error
}

func (f *fakeAPI) record(op string, id int64) { f.calls = append(f.calls, fakeCall{Op: op, ID: id}) }

func (f *fakeAPI) upsertTx(id int64, p models.TransactionPayload) {
	row := remote.Transaction{
		ID:              id,
		Amount:          p.Amount,
		Description:     p.Description,
		Type:            p.Type,
		Category:        p.Category,
		TransactionDate: p.TransactionDate,
		DateCreated:     time.Now().UTC(),
	}
	for i := range f.txList {
		if f.txList[i].ID == id {
			row.DateCreated = f.txList[i].DateCreated
			f.txList[i] = row
			return
		}
	}
	f.txList = append(f.txList, row)
}

func (f *fakeAPI) upsertGoal(id int64, p models.GoalPayload) {
	row := remote.Goal{
		ID:           id,
		TargetAmount: p.TargetAmount,
		TargetMonth:  p.TargetMonth,
		TargetYear:   p.TargetYear,
		CreatedAt:    time.Now().UTC(),
	}
	for i := range f.goalList {
		if f.goalList[i].ID == id {
			row.CreatedAt = f.goalList[i].CreatedAt
			f.goalList[i] = row
			return
		}
	}
	f.goalList = append(f.goalList, row)
}

func (f *fakeAPI) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeAPI) Register(ctx context.Context, name, email, password string, dob time.Time) error {
	return nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*remote.Session, error) {
	return &remote.Session{Token: "t", UserID: 1}, nil
}

func (f *fakeAPI) SetToken(token string) {}

func (f *fakeAPI) ListTransactions(ctx context.Context) ([]remote.Transaction, error) {
	f.record("list-tx", 0)
	return f.txList, f.listTxErr
}

func (f *fakeAPI) CreateTransaction(ctx context.Context, p models.TransactionPayload) (int64, error) {
	if f.createTxFn != nil {
		id, err := f.createTxFn(p)
		f.record("create-tx", id)
		if err == nil {
			f.upsertTx(id, p)
		}
		return id, err
	}
	f.nextID++
	f.record("create-tx", f.nextID)
	f.upsertTx(f.nextID, p)
	return f.nextID, nil
}

func (f *fakeAPI) UpdateTransaction(ctx context.Context, id int64, p models.TransactionPayload) error {
	f.record("update-tx", id)
	if f.updateTxFn != nil {
		if err := f.updateTxFn(id, p); err != nil {
			return err
		}
	}
	f.upsertTx(id, p)
	return nil
}

func (f *fakeAPI) DeleteTransaction(ctx context.Context, id int64) error {
	f.record("delete-tx", id)
	for i := range f.txList {
		if f.txList[i].ID == id {
			f.txList = append(f.txList[:i], f.txList[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeAPI) ListGoals(ctx context.Context) ([]remote.Goal, error) {
	f.record("list-goal", 0)
	return f.goalList, f.listGlErr
}

func (f *fakeAPI) CreateGoal(ctx context.Context, p models.GoalPayload) (int64, error) {
	if f.createGlFn != nil {
		id, err := f.createGlFn(p)
		f.record("create-goal", id)
		if err == nil {
			f.upsertGoal(id, p)
		}
		return id, err
	}
	f.nextID++
	f.record("create-goal", f.nextID)
	f.upsertGoal(f.nextID, p)
	return f.nextID, nil
}

func (f *fakeAPI) UpdateGoal(ctx context.Context, id int64, p models.GoalPayload) error {
	f.record("update-goal", id)
	f.upsertGoal(id, p)
	return nil
}

func (f *fakeAPI) DeleteGoal(ctx context.Context, id int64) error {
	f.record("delete-goal", id)
	for i := range f.goalList {
		if f.goalList[i].ID == id {
			f.goalList = append(f.goalList[:i], f.goalList[i+1:]...)
			break
		}
	}
	return nil
}

var _ remote.API = (*fakeAPI)(nil)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// setupSync wires a record service and a sync service over one store with a
// cached token, as a logged-in client would have.
func setupSync(t *testing.T, api remote.API) (*sql.DB, storage.Manager, RecordService, SyncService) {
	t.Helper()
	db, mgr := setupStore(t)
	require.NoError(t, mgr.Metadata(db).Set(context.Background(), metadata.KeyToken, "test-token"))
	records := NewRecordService(db, mgr)
	engine := NewSyncService(api, db, mgr, testLogger())
	return db, mgr, records, engine
}

func TestSync_OfflineFailsImmediately(t *testing.T) {
	api := &fakeAPI{pingErr: errors.New("no route to host")}
	_, _, _, engine := setupSync(t, api)

	_, err := engine.Sync(context.Background(), 1)
	require.ErrorIs(t, err, common.ErrUnavailable)
	assert.Empty(t, api.calls, "no partial work when offline")
}

func TestSync_NoTokenFailsImmediately(t *testing.T) {
	api := &fakeAPI{}
	db, mgr := setupStore(t)
	engine := NewSyncService(api, db, mgr, testLogger())

	_, err := engine.Sync(context.Background(), 1)
	require.ErrorIs(t, err, common.ErrUnavailable)
	assert.Empty(t, api.calls)
}

func TestSync_SecondConcurrentCallRejected(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	db, mgr := setupStore(t)
	require.NoError(t, mgr.Metadata(db).Set(context.Background(), metadata.KeyToken, "test-token"))

	// Block the first run inside Ping so the second call observes it.
	blocking := &blockingAPI{fakeAPI: &fakeAPI{}, started: started, release: release}
	engine := NewSyncService(blocking, db, mgr, testLogger())

	done := make(chan error, 1)
	go func() {
		_, err := engine.Sync(context.Background(), 1)
		done <- err
	}()

	<-started
	_, err := engine.Sync(context.Background(), 1)
	require.ErrorIs(t, err, common.ErrSyncInProgress)

	close(release)
	require.NoError(t, <-done)
}

type blockingAPI struct {
	*fakeAPI
	started chan struct{}
	release chan struct{}
}

func (b *blockingAPI) Ping(ctx context.Context) error {
	close(b.started)
	<-b.release
	return nil
}

func TestSync_PushCreateAssignsRemoteID(t *testing.T) {
	api := &fakeAPI{nextID: 916}
	db, mgr, records, engine := setupSync(t, api)
	ctx := context.Background()

	id, err := records.AddTransaction(ctx, 1, sampleTransaction())
	require.NoError(t, err)

	report, err := engine.Sync(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pushed)
	assert.Zero(t, report.Failed)

	got, err := records.GetTransaction(ctx, 1, id)
	require.NoError(t, err)
	assert.EqualValues(t, 917, got.RemoteID)
	assert.False(t, got.Pending)

	n, err := mgr.Queue(db).Count(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n, "confirmed intent is removed")
}

func TestSync_FIFOCreateBeforeUpdate(t *testing.T) {
	api := &fakeAPI{nextID: 100}
	_, _, records, engine := setupSync(t, api)
	ctx := context.Background()

	id, err := records.AddTransaction(ctx, 1, sampleTransaction())
	require.NoError(t, err)

	edit := sampleTransaction()
	edit.ID = id
	edit.Amount = decimal.NewFromInt(75)
	require.NoError(t, records.UpdateTransaction(ctx, 1, edit))

	report, err := engine.Sync(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pushed)

	// The create must land first and the update must address the id the
	// create just received.
	require.GreaterOrEqual(t, len(api.calls), 2)
	assert.Equal(t, fakeCall{Op: "create-tx", ID: 101}, api.calls[0])
	assert.Equal(t, fakeCall{Op: "update-tx", ID: 101}, api.calls[1])
}

func TestSync_ConflictCreateFallsBackToUpdate(t *testing.T) {
	api := &fakeAPI{
		createTxFn: func(p models.TransactionPayload) (int64, error) {
			return 0, &remote.ConflictError{RemoteID: 917}
		},
	}
	db, mgr, records, engine := setupSync(t, api)
	ctx := context.Background()

	id, err := records.AddTransaction(ctx, 1, sampleTransaction())
	require.NoError(t, err)

	report, err := engine.Sync(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pushed)
	assert.Zero(t, report.Failed, "conflict is recovered, never surfaced")

	got, err := records.GetTransaction(ctx, 1, id)
	require.NoError(t, err)
	assert.EqualValues(t, 917, got.RemoteID, "same end state as a successful create")
	assert.False(t, got.Pending)

	n, err := mgr.Queue(db).Count(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSync_PushDeleteUsesCapturedRemoteID(t *testing.T) {
	api := &fakeAPI{}
	db, mgr, records, engine := setupSync(t, api)
	ctx := context.Background()

	id, err := records.AddTransaction(ctx, 1, sampleTransaction())
	require.NoError(t, err)
	require.NoError(t, mgr.Transactions(db).SetRemoteID(ctx, id, 917))
	require.NoError(t, mgr.Transactions(db).SetPending(ctx, id, false))
	_, err = mgr.Queue(db).DeleteForRow(ctx, 1, models.EntityTransaction, id)
	require.NoError(t, err)

	require.NoError(t, records.DeleteTransaction(ctx, 1, id))

	report, err := engine.Sync(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pushed)

	var deletes []fakeCall
	for _, c := range api.calls {
		if c.Op == "delete-tx" {
			deletes = append(deletes, c)
		}
	}
	require.Len(t, deletes, 1)
	assert.EqualValues(t, 917, deletes[0].ID)

	n, err := mgr.Queue(db).Count(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSync_FailedEntryStaysQueuedOthersContinue(t *testing.T) {
	boom := errors.New("server said no")
	first := true
	api := &fakeAPI{
		nextID: 200,
		createTxFn: func(p models.TransactionPayload) (int64, error) {
			if first {
				first = false
				return 0, boom
			}
			return 300, nil
		},
	}
	db, mgr, records, engine := setupSync(t, api)
	ctx := context.Background()

	failing, err := records.AddTransaction(ctx, 1, sampleTransaction())
	require.NoError(t, err)
	ok, err := records.AddTransaction(ctx, 1, sampleTransaction())
	require.NoError(t, err)

	report, err := engine.Sync(ctx, 1)
	require.NoError(t, err, "a single entry's failure does not fail the run")
	assert.Equal(t, 1, report.Pushed)
	assert.Equal(t, 1, report.Failed)
	assert.NotEmpty(t, report.Errors)

	entries, err := mgr.Queue(db).GetAll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1, "failed intent is retried on the next run")
	assert.Equal(t, failing, entries[0].LocalID)

	got, err := records.GetTransaction(ctx, 1, ok)
	require.NoError(t, err)
	assert.EqualValues(t, 300, got.RemoteID)
}

func TestSync_PullInsertsRemoteRows(t *testing.T) {
	api := &fakeAPI{
		txList: []remote.Transaction{{
			ID:              917,
			Amount:          decimal.NewFromInt(42),
			Description:     "From another device",
			Type:            models.TransactionTypeExpense,
			Category:        "Food",
			TransactionDate: "2024-03-02",
			DateCreated:     time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
		}},
	}
	_, _, records, engine := setupSync(t, api)
	ctx := context.Background()

	report, err := engine.Sync(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pulled)

	rows, err := records.ListTransactions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 917, rows[0].RemoteID)
	assert.False(t, rows[0].Pending)
	assert.Equal(t, "From another device", rows[0].Description)
}

func TestSync_PullPreservesPendingRows(t *testing.T) {
	api := &fakeAPI{
		createTxFn: func(p models.TransactionPayload) (int64, error) {
			return 0, errors.New("create rejected for now")
		},
	}
	_, _, records, engine := setupSync(t, api)
	ctx := context.Background()

	id, err := records.AddTransaction(ctx, 1, sampleTransaction())
	require.NoError(t, err)

	report, err := engine.Sync(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)

	got, err := records.GetTransaction(ctx, 1, id)
	require.NoError(t, err)
	assert.True(t, got.Pending, "pull never discards unsynced local work")
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(50)))
}

func TestSync_PullDeletesRowsRemovedRemotely(t *testing.T) {
	api := &fakeAPI{} // remote returns empty lists
	db, mgr, records, engine := setupSync(t, api)
	ctx := context.Background()

	id, err := records.AddTransaction(ctx, 1, sampleTransaction())
	require.NoError(t, err)
	require.NoError(t, mgr.Transactions(db).SetRemoteID(ctx, id, 917))
	require.NoError(t, mgr.Transactions(db).SetPending(ctx, id, false))
	_, err = mgr.Queue(db).DeleteForRow(ctx, 1, models.EntityTransaction, id)
	require.NoError(t, err)

	_, err = engine.Sync(ctx, 1)
	require.NoError(t, err)

	_, err = records.GetTransaction(ctx, 1, id)
	require.ErrorIs(t, err, common.ErrNotFound, "deleted server-side by another session")
}

func TestSync_PullOverwritesSyncedRowFromRemote(t *testing.T) {
	api := &fakeAPI{
		txList: []remote.Transaction{{
			ID:              917,
			Amount:          decimal.NewFromInt(99),
			Description:     "Authoritative",
			Type:            models.TransactionTypeExpense,
			Category:        "Food",
			TransactionDate: "2024-03-01",
			DateCreated:     time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		}},
	}
	db, mgr, records, engine := setupSync(t, api)
	ctx := context.Background()

	id, err := records.AddTransaction(ctx, 1, sampleTransaction())
	require.NoError(t, err)
	require.NoError(t, mgr.Transactions(db).SetRemoteID(ctx, id, 917))
	require.NoError(t, mgr.Transactions(db).SetPending(ctx, id, false))
	_, err = mgr.Queue(db).DeleteForRow(ctx, 1, models.EntityTransaction, id)
	require.NoError(t, err)

	_, err = engine.Sync(ctx, 1)
	require.NoError(t, err)

	got, err := records.GetTransaction(ctx, 1, id)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(99)), "last pull wins for synced rows")
	assert.Equal(t, "Authoritative", got.Description)
}

func TestSync_PullAttachesRemoteGoalToLocalMonth(t *testing.T) {
	// A goal for the same month was created on another device and synced
	// there first. The local never-synced goal for that month must adopt
	// the remote id instead of producing a duplicate row.
	api := &fakeAPI{
		createGlFn: func(p models.GoalPayload) (int64, error) {
			return 0, errors.New("unreachable during push")
		},
		goalList: []remote.Goal{{
			ID:           55,
			TargetAmount: decimal.NewFromInt(800),
			TargetMonth:  3,
			TargetYear:   2024,
			CreatedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
	_, _, records, engine := setupSync(t, api)
	ctx := context.Background()

	id, err := records.AddGoal(ctx, 1, sampleGoal(3, 2024))
	require.NoError(t, err)

	_, err = engine.Sync(ctx, 1)
	require.NoError(t, err)

	goals, err := records.ListGoals(ctx, 1)
	require.NoError(t, err)
	require.Len(t, goals, 1, "no duplicate goal for the month")
	assert.Equal(t, id, goals[0].ID)
	assert.EqualValues(t, 55, goals[0].RemoteID)
	assert.True(t, goals[0].TargetAmount.Equal(decimal.NewFromInt(500)),
		"local values kept; the queued create lands as an update next run")
}

func TestSync_PullFailureDoesNotCorruptLocalData(t *testing.T) {
	api := &fakeAPI{listTxErr: errors.New("connection reset")}
	db, mgr, records, engine := setupSync(t, api)
	ctx := context.Background()

	id, err := records.AddTransaction(ctx, 1, sampleTransaction())
	require.NoError(t, err)
	require.NoError(t, mgr.Transactions(db).SetRemoteID(ctx, id, 1))
	require.NoError(t, mgr.Transactions(db).SetPending(ctx, id, false))
	_, err = mgr.Queue(db).DeleteForRow(ctx, 1, models.EntityTransaction, id)
	require.NoError(t, err)

	report, err := engine.Sync(ctx, 1)
	require.Error(t, err, "an unfetchable entity type fails the run")
	require.NotNil(t, report)
	assert.NotEmpty(t, report.Errors, "pull failure is reported")

	got, err := records.GetTransaction(ctx, 1, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.RemoteID, "nothing was half-applied")
}

func TestSync_PullFetchFailureStillPullsOtherEntity(t *testing.T) {
	api := &fakeAPI{
		listTxErr: errors.New("connection reset"),
		goalList: []remote.Goal{{
			ID:           55,
			TargetAmount: decimal.NewFromInt(800),
			TargetMonth:  3,
			TargetYear:   2024,
			CreatedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
	_, _, records, engine := setupSync(t, api)
	ctx := context.Background()

	report, err := engine.Sync(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, 1, report.Pulled, "goals still converge when transactions cannot be fetched")

	goals, err := records.ListGoals(ctx, 1)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.EqualValues(t, 55, goals[0].RemoteID)
}
