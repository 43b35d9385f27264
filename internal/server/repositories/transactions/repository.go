// Package transactions persists income/expense rows server-side.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

// Repository describes persistence operations for transaction rows.
// Updates and deletes are scoped by owner and report ErrNotFound when the
// row is absent or owned by someone else.
type Repository interface {
	Create(ctx context.Context, t *models.Transaction) (int64, error)
	Update(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, userID, id int64) error
	GetByID(ctx context.Context, userID, id int64) (*models.Transaction, error)

	// GetAll lists the user's rows, newest transaction date first (ties
	// broken by creation time descending).
	GetAll(ctx context.Context, userID int64) ([]models.Transaction, error)

	// GetByMonth lists the user's rows restricted to one calendar month.
	GetByMonth(ctx context.Context, userID int64, month, year int) ([]models.Transaction, error)
}
