package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fintrack/internal/client/remote"
	"github.com/dmitrijs2005/fintrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fintrack/internal/common"
)

// authAPI extends the fake with login behavior and token capture.
type authAPI struct {
	fakeAPI
	loginErr error
	token    string
	session  *remote.Session
}

func (a *authAPI) Login(ctx context.Context, email, password string) (*remote.Session, error) {
	if a.loginErr != nil {
		return nil, a.loginErr
	}
	return a.session, nil
}

func (a *authAPI) SetToken(token string) { a.token = token }

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"email":   "a@b.c",
		"exp":     expiresAt.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestLogin_CachesSession(t *testing.T) {
	db, mgr := setupStore(t)
	api := &authAPI{session: &remote.Session{
		Token: "tok-1", UserID: 7, Name: "Alice", Email: "alice@example.com"}}
	auth := NewAuthService(api, db, mgr)
	ctx := context.Background()

	sess, err := auth.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.EqualValues(t, 7, sess.UserID)

	md := mgr.Metadata(db)
	token, err := md.Get(ctx, metadata.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	name, err := md.Get(ctx, metadata.KeyUserName)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}

func TestLogin_FailurePropagates(t *testing.T) {
	db, mgr := setupStore(t)
	api := &authAPI{loginErr: common.ErrUnauthorized}
	auth := NewAuthService(api, db, mgr)

	_, err := auth.Login(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	token, err := mgr.Metadata(db).Get(context.Background(), metadata.KeyToken)
	require.NoError(t, err)
	assert.Empty(t, token, "nothing is cached on a failed login")
}

func TestRestoreSession_ValidToken(t *testing.T) {
	db, mgr := setupStore(t)
	api := &authAPI{session: &remote.Session{
		Token:  signedToken(t, time.Now().Add(24*time.Hour)),
		UserID: 7, Name: "Alice", Email: "alice@example.com"}}
	auth := NewAuthService(api, db, mgr)
	ctx := context.Background()

	_, err := auth.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	api.token = ""

	sess, err := auth.RestoreSession(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 7, sess.UserID)
	assert.Equal(t, "Alice", sess.Name)
	assert.NotEmpty(t, api.token, "restored token is installed on the API client")
}

func TestRestoreSession_NoCachedSession(t *testing.T) {
	db, mgr := setupStore(t)
	auth := NewAuthService(&authAPI{}, db, mgr)

	_, err := auth.RestoreSession(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRestoreSession_ExpiredToken(t *testing.T) {
	db, mgr := setupStore(t)
	api := &authAPI{session: &remote.Session{
		Token:  signedToken(t, time.Now().Add(-time.Hour)),
		UserID: 7, Name: "Alice", Email: "alice@example.com"}}
	auth := NewAuthService(api, db, mgr)
	ctx := context.Background()

	_, err := auth.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = auth.RestoreSession(ctx)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestRegister_Validation(t *testing.T) {
	db, mgr := setupStore(t)
	auth := NewAuthService(&authAPI{}, db, mgr)
	ctx := context.Background()
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)

	err := auth.Register(ctx, "", "a@b.c", "secret1", dob)
	require.ErrorIs(t, err, common.ErrValidation)

	err = auth.Register(ctx, "Alice", "", "secret1", dob)
	require.ErrorIs(t, err, common.ErrValidation)

	err = auth.Register(ctx, "Alice", "a@b.c", "short", dob)
	require.ErrorIs(t, err, common.ErrValidation)

	err = auth.Register(ctx, "Alice", "a@b.c", "secret1", dob)
	require.NoError(t, err)
}

func TestLogout_ClearsCachedSession(t *testing.T) {
	db, mgr := setupStore(t)
	api := &authAPI{session: &remote.Session{Token: "tok-1", UserID: 7}}
	auth := NewAuthService(api, db, mgr)
	ctx := context.Background()

	_, err := auth.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, mgr.Metadata(db).Set(ctx, metadata.KeyInstallID, "install-1"))

	require.NoError(t, auth.Logout(ctx))
	assert.Empty(t, api.token)

	_, err = auth.RestoreSession(ctx)
	require.ErrorIs(t, err, common.ErrUnauthorized)

	installID, err := mgr.Metadata(db).Get(ctx, metadata.KeyInstallID)
	require.NoError(t, err)
	assert.Equal(t, "install-1", installID, "install id survives logout")
}

func TestPing_Proxied(t *testing.T) {
	db, mgr := setupStore(t)
	boom := errors.New("down")
	auth := NewAuthService(&authAPI{fakeAPI: fakeAPI{pingErr: boom}}, db, mgr)

	err := auth.Ping(context.Background())
	require.ErrorIs(t, err, boom)
}
