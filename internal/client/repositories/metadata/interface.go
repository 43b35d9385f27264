package metadata

import (
	"context"
)

// Keys stored by the auth layer.
const (
	KeyToken     = "token"
	KeyUserID    = "user_id"
	KeyUserName  = "user_name"
	KeyUserEmail = "user_email"
)

// KeyInstallID identifies this local store instance. It is generated on
// first run and never cleared with the session keys.
const KeyInstallID = "install_id"

// Repository is a small key/value store for session state that must survive
// restarts: the auth token and the signed-in user's identity.
type Repository interface {
	// Get returns the value for key, or an empty string if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores the value, overwriting any previous one.
	Set(ctx context.Context, key, value string) error

	// Delete removes a single key.
	Delete(ctx context.Context, key string) error

	// Clear removes every stored key.
	Clear(ctx context.Context) error
}
