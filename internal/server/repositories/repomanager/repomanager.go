// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fintrack/internal/dbx"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/goals"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to the given DBTX
// and exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Goals(db dbx.DBTX) goals.Repository
}
