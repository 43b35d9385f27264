// Package remote implements the REST client for the fintrack backend.
//
// The API interface is the transport contract the sync engine and the auth
// service program against; HTTPClient is the concrete implementation. All
// responses arrive in a {success, message, data} envelope, and HTTP statuses
// are mapped to the sentinel errors in internal/common so callers can match
// them with errors.Is.
package remote

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// API is the remote contract used by the client services.
//
// Implementations hold the bearer token internally: SetToken installs it
// once after login, and every subsequent call sends it automatically.
type API interface {
	// Ping checks connectivity to the backend.
	Ping(ctx context.Context) error

	// Register creates a new account.
	Register(ctx context.Context, name, email, password string, dateOfBirth time.Time) error

	// Login exchanges credentials for a session token and user identity.
	Login(ctx context.Context, email, password string) (*Session, error)

	// SetToken installs the bearer token used by authenticated calls.
	SetToken(token string)

	// ListTransactions returns all of the user's transactions.
	ListTransactions(ctx context.Context) ([]Transaction, error)

	// CreateTransaction pushes a new transaction and returns its server id.
	CreateTransaction(ctx context.Context, p models.TransactionPayload) (int64, error)

	// UpdateTransaction replaces the transaction with the given server id.
	UpdateTransaction(ctx context.Context, id int64, p models.TransactionPayload) error

	// DeleteTransaction removes the transaction with the given server id.
	DeleteTransaction(ctx context.Context, id int64) error

	// ListGoals returns all of the user's goals.
	ListGoals(ctx context.Context) ([]Goal, error)

	// CreateGoal pushes a new goal and returns its server id. When the
	// server already has a goal for that month the call fails with a
	// ConflictError carrying the existing record's id.
	CreateGoal(ctx context.Context, p models.GoalPayload) (int64, error)

	// UpdateGoal replaces the goal with the given server id.
	UpdateGoal(ctx context.Context, id int64, p models.GoalPayload) error

	// DeleteGoal removes the goal with the given server id.
	DeleteGoal(ctx context.Context, id int64) error
}
