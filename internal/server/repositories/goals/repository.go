// Package goals persists monthly savings targets server-side.
package goals

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

// Repository describes persistence operations for goal rows. The table's
// unique constraint on (user, target month, target year) surfaces as
// ErrAlreadyExists on Create; the HTTP layer turns that into the conflict
// status the client's create-to-update fallback relies on.
type Repository interface {
	Create(ctx context.Context, g *models.Goal) (int64, error)
	Update(ctx context.Context, g *models.Goal) error
	Delete(ctx context.Context, userID, id int64) error
	GetByID(ctx context.Context, userID, id int64) (*models.Goal, error)
	GetByMonthYear(ctx context.Context, userID int64, month, year int) (*models.Goal, error)

	// GetAll lists the user's goals, newest target month first.
	GetAll(ctx context.Context, userID int64) ([]models.Goal, error)
}
