package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "staywell")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "staywell")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "redis://redis:6379", cfg.RedisURL)
	assert.Equal(t,
		"host=localhost user=staywell password=pw dbname=staywell port=5432 sslmode=disable",
		cfg.DSN())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "staywell")
	t.Setenv("DB_NAME", "staywell")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")

	_, err := Load()
	assert.Error(t, err)
}
