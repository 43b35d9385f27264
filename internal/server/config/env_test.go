package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("RUN_ADDRESS", ":9999")
	t.Setenv("DATABASE_DSN", "postgres://env/db")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("TOKEN_TTL", "24")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":9999", c.RunAddress)
	assert.Equal(t, "postgres://env/db", c.DatabaseDSN)
	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.TokenTTL)
}

func TestParseEnv_EmptyKeepsDefaults(t *testing.T) {
	t.Setenv("RUN_ADDRESS", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_TTL", "")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":8000", c.RunAddress)
	assert.Equal(t, 7*24*time.Hour, c.TokenTTL)
}

func TestParseEnv_BadTTLPanics(t *testing.T) {
	t.Setenv("TOKEN_TTL", "one week")

	var c Config
	c.LoadDefaults()

	require.Panics(t, func() { parseEnv(&c) })
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "RUN_ADDRESS=:7777\nJWT_SECRET=file-secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	t.Setenv("RUN_ADDRESS", "")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("RUN_ADDRESS")
	os.Unsetenv("JWT_SECRET")
	t.Chdir(dir)

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":7777", c.RunAddress)
	assert.Equal(t, "file-secret", c.SecretKey)
}
