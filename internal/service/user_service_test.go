package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"todo-server/internal/repository/memory"
)

func newUserService() UserService {
	return NewUserService(memory.NewUserRepository(), SHA256Hasher{}, 7*24*time.Hour, nil)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	result, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Greater(t, result.User.ID, int64(0))
	require.Equal(t, "alice", result.User.Username)
	require.Equal(t, "alice@example.com", result.User.Email)
	require.Empty(t, result.User.PasswordHash)
	require.True(t, result.ExpiresAt.After(time.Now()))
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	// same username
	_, err = svc.Register(ctx, "alice", "other@example.com", "pw123")
	require.ErrorIs(t, err, ErrDuplicateUser)

	// different username, same email
	_, err = svc.Register(ctx, "bob", "alice@example.com", "pw123")
	require.ErrorIs(t, err, ErrDuplicateUser)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	_, err := svc.Register(ctx, "", "a@example.com", "pw")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register(ctx, "a", "", "pw")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register(ctx, "a", "a@example.com", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	require.Greater(t, result.User.ID, int64(0))
	require.NotNil(t, result.User.LastLogin, "login must stamp last-login")

	// wrong password and unknown user yield the same generic failure
	_, err = svc.Login(ctx, "alice", "wrongpw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "mallory", "pw123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginPersistsLastLogin(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	svc := NewUserService(repo, SHA256Hasher{}, time.Hour, nil)

	reg, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	before, err := repo.GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	require.Nil(t, before.LastLogin)

	_, err = svc.Login(ctx, "alice", "pw123")
	require.NoError(t, err)

	after, err := repo.GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	require.NotNil(t, after.LastLogin)
}
