package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	require.Equal(t, "data/todo.db", cfg.Database.Path)
	require.Equal(t, 24*7, cfg.Auth.TokenTTLHours)
	require.Equal(t, "sha256", cfg.Auth.Hasher)
	require.Equal(t, "memory", cfg.Session.Store)
	require.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TODO_SERVER_ADDR", "127.0.0.1:9999")
	t.Setenv("TODO_AUTH_JWTSECRET", "sekrit")
	t.Setenv("TODO_AUTH_HASHER", "bcrypt")
	t.Setenv("TODO_SESSION_STORE", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	require.Equal(t, "sekrit", cfg.Auth.JWTSecret)
	require.Equal(t, "bcrypt", cfg.Auth.Hasher)
	require.Equal(t, "redis", cfg.Session.Store)
}
