package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	require.NoError(t, err)

	return db
}

func TestSetGetOverwrite(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	got, err := r.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Empty(t, got, "absent key reads as empty")

	require.NoError(t, r.Set(ctx, KeyToken, "abc"))
	got, err = r.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	require.NoError(t, r.Set(ctx, KeyToken, "def"))
	got, err = r.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "def", got)
}

func TestDeleteAndClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyToken, "abc"))
	require.NoError(t, r.Set(ctx, KeyUserID, "1"))

	require.NoError(t, r.Delete(ctx, KeyToken))
	got, err := r.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, r.Delete(ctx, "never-set"), "deleting an absent key is not an error")

	require.NoError(t, r.Clear(ctx))
	got, err = r.Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
