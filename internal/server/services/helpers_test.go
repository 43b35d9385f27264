package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	goalsrepo "github.com/dmitrijs2005/fintrack/internal/server/repositories/goals"
	txrepo "github.com/dmitrijs2005/fintrack/internal/server/repositories/transactions"
	usersrepo "github.com/dmitrijs2005/fintrack/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createFn          func(ctx context.Context, u *models.User) (int64, error)
	getByEmailFn      func(ctx context.Context, email string) (*models.User, error)
	getByIDFn         func(ctx context.Context, id int64) (*models.User, error)
	updateLastLoginFn func(ctx context.Context, id int64) error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (int64, error) {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return 1, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	if f.updateLastLoginFn != nil {
		return f.updateLastLoginFn(ctx, id)
	}
	return nil
}

type fakeTransactionsRepo struct {
	rows     []models.Transaction
	created  []models.Transaction
	updated  []models.Transaction
	deleted  []int64
	createID int64
	err      error
}

func (f *fakeTransactionsRepo) Create(ctx context.Context, t *models.Transaction) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.created = append(f.created, *t)
	return f.createID, nil
}

func (f *fakeTransactionsRepo) Update(ctx context.Context, t *models.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, *t)
	return nil
}

func (f *fakeTransactionsRepo) Delete(ctx context.Context, userID, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTransactionsRepo) GetByID(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == userID {
			return &f.rows[i], nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeTransactionsRepo) GetAll(ctx context.Context, userID int64) ([]models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Transaction
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTransactionsRepo) GetByMonth(ctx context.Context, userID int64, month, year int) ([]models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Transaction
	for _, r := range f.rows {
		if r.UserID == userID && int(r.TransactionDate.Month()) == month && r.TransactionDate.Year() == year {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeGoalsRepo struct {
	rows     []models.Goal
	created  []models.Goal
	createID int64
	err      error
}

func (f *fakeGoalsRepo) Create(ctx context.Context, g *models.Goal) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.created = append(f.created, *g)
	return f.createID, nil
}

func (f *fakeGoalsRepo) Update(ctx context.Context, g *models.Goal) error { return f.err }

func (f *fakeGoalsRepo) Delete(ctx context.Context, userID, id int64) error { return f.err }

func (f *fakeGoalsRepo) GetByID(ctx context.Context, userID, id int64) (*models.Goal, error) {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == userID {
			return &f.rows[i], nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeGoalsRepo) GetByMonthYear(ctx context.Context, userID int64, month, year int) (*models.Goal, error) {
	for i := range f.rows {
		if f.rows[i].UserID == userID && f.rows[i].TargetMonth == month && f.rows[i].TargetYear == year {
			return &f.rows[i], nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeGoalsRepo) GetAll(ctx context.Context, userID int64) ([]models.Goal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

// fakeRepoManager vends the fakes above regardless of the DBTX handle.
type fakeRepoManager struct {
	users *fakeUsersRepo
	txs   *fakeTransactionsRepo
	goals *fakeGoalsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users: &fakeUsersRepo{},
		txs:   &fakeTransactionsRepo{createID: 1},
		goals: &fakeGoalsRepo{createID: 1},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository { return m.users }

func (m *fakeRepoManager) Transactions(dbx.DBTX) txrepo.Repository { return m.txs }

func (m *fakeRepoManager) Goals(dbx.DBTX) goalsrepo.Repository { return m.goals }

func newUserService(t *testing.T, db *sql.DB, m *fakeRepoManager) *UserService {
	t.Helper()
	return NewUserService(db, m, []byte("test-secret"), time.Hour)
}
