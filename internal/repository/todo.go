package repository

import (
	"context"
	"errors"

	"todo-server/internal/domain"
)

// ErrNotFound is returned when a row is absent or soft-deleted, or when
// an ownership-scoped lookup does not match the caller's user id.
var ErrNotFound = errors.New("not found")

// TodoUpdate carries a partial update; nil fields are left untouched.
// A non-nil Completed drives the completed-at transition: false→true
// stamps it, true→false clears it.
type TodoUpdate struct {
	Title       *string
	Description *string
	Priority    *int
	Completed   *bool
}

// TodoRepository exposes persistence operations for Todo rows. Every
// read and mutation filters out inactive (soft-deleted) rows before any
// other predicate. A zero ownerID means unscoped (administrative)
// access.
type TodoRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, todo *domain.Todo) (int64, error)
	Get(ctx context.Context, id, ownerID int64) (*domain.Todo, error)
	List(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	ListByPriority(ctx context.Context, priority int, ownerID int64) ([]domain.Todo, error)
	ListCompleted(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	ListPending(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	Update(ctx context.Context, id, ownerID int64, update TodoUpdate) (*domain.Todo, error)
	MarkCompleted(ctx context.Context, id, ownerID int64) (*domain.Todo, error)
	Delete(ctx context.Context, id, ownerID int64) (bool, error)
}
