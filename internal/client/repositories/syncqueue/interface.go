package syncqueue

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// Repository persists pending-change intents in strict FIFO order.
// Entries are appended by record writes and consumed by the sync engine.
type Repository interface {
	// Enqueue appends an entry and returns its id. Ids grow monotonically,
	// so draining by ascending id preserves the order changes were made.
	Enqueue(ctx context.Context, e *models.QueueEntry) (int64, error)

	// GetAll returns the user's entries oldest first.
	GetAll(ctx context.Context, userID int64) ([]models.QueueEntry, error)

	// DeleteByID removes a single entry after it has been pushed.
	DeleteByID(ctx context.Context, id int64) error

	// DeleteForRow removes every entry referring to one local row and
	// reports how many were removed. Used when a never-synced row is
	// deleted locally, so nothing about it is ever pushed.
	DeleteForRow(ctx context.Context, userID int64, entity models.EntityType, localID int64) (int64, error)

	// CountForRow reports how many entries still refer to one local row.
	CountForRow(ctx context.Context, userID int64, entity models.EntityType, localID int64) (int, error)

	// Count reports the user's total queue depth.
	Count(ctx context.Context, userID int64) (int, error)

	// Clear removes all entries owned by userID.
	Clear(ctx context.Context, userID int64) error
}
