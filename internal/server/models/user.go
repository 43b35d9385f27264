// Package models defines the server-side database rows.
package models

import (
	"database/sql"
	"time"
)

// User is an account row. PasswordHash holds a bcrypt hash and never leaves
// the server.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	DateOfBirth  time.Time
	CreatedAt    time.Time
	LastLogin    sql.NullTime
	IsActive     bool
}
