// Package services contains the application services of the fintrack client:
// authentication and session restore, record CRUD with queued sync intents,
// the push/pull sync engine, and read-only aggregations.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/fintrack/internal/client/remote"
	"github.com/dmitrijs2005/fintrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
)

// AuthService handles account registration, login, and the locally cached
// session that lets the app start in offline mode without re-authenticating.
type AuthService interface {
	// Register creates a new account on the server.
	Register(ctx context.Context, name, email, password string, dateOfBirth time.Time) error

	// Login authenticates against the server and caches the session locally.
	Login(ctx context.Context, email, password string) (*remote.Session, error)

	// RestoreSession loads the cached session, rejects it if the token has
	// expired, and installs the token on the API client. Returns
	// ErrUnauthorized when no session is cached and ErrTokenExpired when the
	// cached token is stale.
	RestoreSession(ctx context.Context) (*remote.Session, error)

	// Logout drops the cached session.
	Logout(ctx context.Context) error

	// Ping proxies a connectivity check to the server.
	Ping(ctx context.Context) error
}

type authService struct {
	api remote.API
	db  *sql.DB
	mgr storage.Manager
	now func() time.Time
}

// NewAuthService constructs an AuthService over the given API client and
// local store.
func NewAuthService(api remote.API, db *sql.DB, mgr storage.Manager) AuthService {
	return &authService{api: api, db: db, mgr: mgr, now: time.Now}
}

func (a *authService) Register(ctx context.Context, name, email, password string, dateOfBirth time.Time) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", common.ErrValidation)
	}
	return a.api.Register(ctx, name, email, password, dateOfBirth)
}

func (a *authService) Login(ctx context.Context, email, password string) (*remote.Session, error) {
	sess, err := a.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, a.db, func(ctx context.Context, tx dbx.DBTX) error {
		md := a.mgr.Metadata(tx)
		if err := md.Set(ctx, metadata.KeyToken, sess.Token); err != nil {
			return err
		}
		if err := md.Set(ctx, metadata.KeyUserID, strconv.FormatInt(sess.UserID, 10)); err != nil {
			return err
		}
		if err := md.Set(ctx, metadata.KeyUserName, sess.Name); err != nil {
			return err
		}
		return md.Set(ctx, metadata.KeyUserEmail, sess.Email)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}

	return sess, nil
}

func (a *authService) RestoreSession(ctx context.Context) (*remote.Session, error) {
	md := a.mgr.Metadata(a.db)

	token, err := md.Get(ctx, metadata.KeyToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, common.ErrUnauthorized
	}

	if err := a.checkExpiry(token); err != nil {
		return nil, err
	}

	rawID, err := md.Get(ctx, metadata.KeyUserID)
	if err != nil {
		return nil, err
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt cached user id %q: %w", rawID, err)
	}
	name, err := md.Get(ctx, metadata.KeyUserName)
	if err != nil {
		return nil, err
	}
	email, err := md.Get(ctx, metadata.KeyUserEmail)
	if err != nil {
		return nil, err
	}

	a.api.SetToken(token)

	return &remote.Session{Token: token, UserID: userID, Name: name, Email: email}, nil
}

// checkExpiry inspects the token's exp claim without verifying the
// signature; the client has no signing secret, and the server re-checks
// the signature on every call anyway.
func (a *authService) checkExpiry(token string) error {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return fmt.Errorf("%w: malformed token", common.ErrUnauthorized)
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fmt.Errorf("%w: token has no expiry", common.ErrUnauthorized)
	}
	if exp.Before(a.now()) {
		return common.ErrTokenExpired
	}
	return nil
}

// Logout forgets the cached session. Non-session metadata (the install id)
// is kept.
func (a *authService) Logout(ctx context.Context) error {
	a.api.SetToken("")

	repo := a.mgr.Metadata(a.db)
	for _, key := range []string{metadata.KeyToken, metadata.KeyUserID, metadata.KeyUserName, metadata.KeyUserEmail} {
		if err := repo.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}
