// Package storage bootstraps the local SQLite database and vends
// repositories bound to it.
//
// Repositories are constructed over a dbx.DBTX handle, so the same
// constructors serve both plain connections and transactions: callers pass
// the *sql.DB for standalone reads and the WithTx handle when several
// writes must land atomically.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/fintrack/internal/client/migrations"
	"github.com/dmitrijs2005/fintrack/internal/client/repositories/goals"
	"github.com/dmitrijs2005/fintrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fintrack/internal/client/repositories/syncqueue"
	"github.com/dmitrijs2005/fintrack/internal/client/repositories/transactions"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
)

// Manager vends repository implementations bound to the given DBTX.
type Manager interface {
	Transactions(db dbx.DBTX) transactions.Repository
	Goals(db dbx.DBTX) goals.Repository
	Queue(db dbx.DBTX) syncqueue.Repository
	Metadata(db dbx.DBTX) metadata.Repository
}

// SQLiteManager is the Manager for the local SQLite store.
type SQLiteManager struct{}

func NewSQLiteManager() *SQLiteManager {
	return &SQLiteManager{}
}

func (m *SQLiteManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Goals(db dbx.DBTX) goals.Repository {
	return goals.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Queue(db dbx.DBTX) syncqueue.Repository {
	return syncqueue.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// EnsureInstallID returns the store's install id, generating and persisting
// one on first run. The id survives logout and local data wipes of the
// session keys.
func EnsureInstallID(ctx context.Context, db *sql.DB, m Manager) (string, error) {
	repo := m.Metadata(db)

	id, err := repo.Get(ctx, metadata.KeyInstallID)
	if err != nil {
		return "", fmt.Errorf("failed to read install id: %w", err)
	}
	if id != "" {
		return id, nil
	}

	id = uuid.NewString()
	if err := repo.Set(ctx, metadata.KeyInstallID, id); err != nil {
		return "", fmt.Errorf("failed to store install id: %w", err)
	}
	return id, nil
}

// Open opens the SQLite database at dsn and brings its schema up to date.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
