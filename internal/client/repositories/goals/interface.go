package goals

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// Repository describes persistence operations for local goal rows.
// The store enforces at most one goal per (user, target month, target year).
type Repository interface {
	// Create inserts a row and returns the new local id. A duplicate
	// (user, month, year) combination fails with ErrAlreadyExists.
	Create(ctx context.Context, g *models.Goal) (int64, error)

	// Update rewrites all mutable columns of the row with the given local id.
	Update(ctx context.Context, g *models.Goal) error

	// GetByID returns a single row owned by userID.
	GetByID(ctx context.Context, userID, id int64) (*models.Goal, error)

	// GetByMonthYear returns the user's goal for one calendar month, if any.
	GetByMonthYear(ctx context.Context, userID int64, month, year int) (*models.Goal, error)

	// GetAll lists the user's goals, newest target month first.
	GetAll(ctx context.Context, userID int64) ([]models.Goal, error)

	// GetSynced lists rows already acknowledged by the server (pending=0).
	GetSynced(ctx context.Context, userID int64) ([]models.Goal, error)

	// DeleteByID removes a row owned by userID.
	DeleteByID(ctx context.Context, userID, id int64) error

	// SetRemoteID records the server-assigned id for a local row.
	SetRemoteID(ctx context.Context, id, remoteID int64) error

	// SetPending flips the sync status flag of a local row.
	SetPending(ctx context.Context, id int64, pending bool) error

	// Clear removes all rows owned by userID.
	Clear(ctx context.Context, userID int64) error
}
