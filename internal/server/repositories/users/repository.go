// Package users persists account rows.
package users

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

// Repository describes persistence operations for user accounts.
type Repository interface {
	// Create inserts a user and returns the assigned id. A duplicate email
	// fails with ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (int64, error)

	// GetByEmail returns the user with the given email, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// UpdateLastLogin stamps the user's last successful login time.
	UpdateLastLogin(ctx context.Context, id int64) error
}
