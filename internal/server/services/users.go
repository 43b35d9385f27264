// Package services implements the server's business logic on top of the
// repository layer. Services receive the shared *sql.DB and a repository
// manager; multi-step writes run inside dbx.WithTx.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
	"github.com/dmitrijs2005/fintrack/internal/server/auth"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/repomanager"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// UserService handles registration, login and profile lookups.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	tokenTTL    time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, jwtSecret []byte, tokenTTL time.Duration) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

// Register creates a new account. The email must be unused and the password
// at least MinPasswordLength characters.
func (s *UserService) Register(ctx context.Context, name, email string, dateOfBirth time.Time, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", common.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		DateOfBirth:  dateOfBirth,
		IsActive:     true,
	}

	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return common.ErrAlreadyExists
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		id, err := repo.Create(ctx, user)
		if err != nil {
			return err
		}
		user.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and issues a bearer token. Unknown emails
// and wrong passwords both surface as ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, "", common.ErrUnauthorized
	}
	if err != nil {
		return nil, "", err
	}

	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", common.ErrUnauthorized
	}

	if err := repo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return user, token, nil
}

// GetByID returns the user's profile.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// VerifyToken checks the bearer token and returns the claims it carries.
// The HTTP middleware uses this to resolve the requesting user.
func (s *UserService) VerifyToken(tokenString string) (*auth.Claims, error) {
	return auth.ParseToken(tokenString, s.jwtSecret)
}
