package transactions

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// Repository describes persistence operations for local transaction rows.
// Implementations are backed by the local SQLite database.
type Repository interface {
	// Create inserts a row exactly as given (including remote id and the
	// pending flag) and returns the new local id.
	Create(ctx context.Context, t *models.Transaction) (int64, error)

	// Update rewrites all mutable columns of the row with the given local id.
	Update(ctx context.Context, t *models.Transaction) error

	// GetByID returns a single row owned by userID.
	GetByID(ctx context.Context, userID, id int64) (*models.Transaction, error)

	// GetAll lists the user's rows, newest transaction date first.
	GetAll(ctx context.Context, userID int64) ([]models.Transaction, error)

	// GetByMonth lists the user's rows restricted to one calendar month.
	GetByMonth(ctx context.Context, userID int64, month, year int) ([]models.Transaction, error)

	// GetSynced lists rows already acknowledged by the server (pending=0).
	GetSynced(ctx context.Context, userID int64) ([]models.Transaction, error)

	// DeleteByID removes a row owned by userID.
	DeleteByID(ctx context.Context, userID, id int64) error

	// SetRemoteID records the server-assigned id for a local row.
	SetRemoteID(ctx context.Context, id, remoteID int64) error

	// SetPending flips the sync status flag of a local row.
	SetPending(ctx context.Context, id int64, pending bool) error

	// Clear removes all rows owned by userID.
	Clear(ctx context.Context, userID int64) error
}
