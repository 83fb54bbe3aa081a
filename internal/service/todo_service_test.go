package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"todo-server/internal/domain"
	"todo-server/internal/repository"
	"todo-server/internal/repository/memory"
)

func newTodoFixture(t *testing.T) (TodoService, int64, int64) {
	t.Helper()
	ctx := context.Background()

	users := memory.NewUserRepository()
	alice := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	bob := &domain.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	aliceID, err := users.Create(ctx, alice)
	require.NoError(t, err)
	bobID, err := users.Create(ctx, bob)
	require.NoError(t, err)

	return NewTodoService(memory.NewTodoRepository(users)), aliceID, bobID
}

func TestCreateTodo(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newTodoFixture(t)

	todo, err := svc.Create(ctx, alice, "Buy milk", "two liters", 2)
	require.NoError(t, err)
	require.Greater(t, todo.ID, int64(0))
	require.Equal(t, "Buy milk", todo.Title)
	require.Equal(t, 2, todo.Priority)
	require.False(t, todo.Completed)
	require.Nil(t, todo.CompletedAt)
	require.True(t, todo.Active)
	require.Equal(t, "alice", todo.Username)

	// omitted priority defaults to low
	todo, err = svc.Create(ctx, alice, "Walk dog", "", 0)
	require.NoError(t, err)
	require.Equal(t, domain.PriorityLow, todo.Priority)
}

func TestCreateTodoValidation(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newTodoFixture(t)

	_, err := svc.Create(ctx, alice, "", "", 1)
	require.ErrorIs(t, err, ErrInvalidInput)

	// priority outside 1..3 is rejected, never clamped
	_, err = svc.Create(ctx, alice, "x", "", 4)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, alice, "x", "", -1)
	require.ErrorIs(t, err, ErrInvalidInput)

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Create(ctx, alice, string(long), "", 1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListScopedToOwner(t *testing.T) {
	ctx := context.Background()
	svc, alice, bob := newTodoFixture(t)

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, alice, title, "", 1)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob, "bobs", "", 1)
	require.NoError(t, err)

	todos, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	// newest-created first
	require.Equal(t, "third", todos[0].Title)
	require.Equal(t, "second", todos[1].Title)
	require.Equal(t, "first", todos[2].Title)
	for _, todo := range todos {
		require.Equal(t, alice, todo.UserID)
	}

	// unscoped administrative variant sees everything
	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
}

func TestUpdateTodoPartial(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newTodoFixture(t)

	created, err := svc.Create(ctx, alice, "original", "desc", 2)
	require.NoError(t, err)

	title := "X"
	updated, err := svc.Update(ctx, created.ID, alice, repository.TodoUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "X", updated.Title)
	require.Equal(t, "desc", updated.Description)
	require.Equal(t, 2, updated.Priority)
	require.False(t, updated.Completed)

	got, err := svc.Get(ctx, created.ID, alice)
	require.NoError(t, err)
	require.Equal(t, "X", got.Title)
	require.Equal(t, "desc", got.Description)
	require.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestUpdateCompletedTransition(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newTodoFixture(t)

	created, err := svc.Create(ctx, alice, "task", "", 1)
	require.NoError(t, err)

	done := true
	updated, err := svc.Update(ctx, created.ID, alice, repository.TodoUpdate{Completed: &done})
	require.NoError(t, err)
	require.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)

	undone := false
	updated, err = svc.Update(ctx, created.ID, alice, repository.TodoUpdate{Completed: &undone})
	require.NoError(t, err)
	require.False(t, updated.Completed)
	require.Nil(t, updated.CompletedAt)
}

func TestUpdateValidation(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newTodoFixture(t)

	created, err := svc.Create(ctx, alice, "task", "", 1)
	require.NoError(t, err)

	bad := 5
	_, err = svc.Update(ctx, created.ID, alice, repository.TodoUpdate{Priority: &bad})
	require.ErrorIs(t, err, ErrInvalidInput)

	empty := "  "
	_, err = svc.Update(ctx, created.ID, alice, repository.TodoUpdate{Title: &empty})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestOwnershipEnforcedOnMutations(t *testing.T) {
	ctx := context.Background()
	svc, alice, bob := newTodoFixture(t)

	created, err := svc.Create(ctx, alice, "mine", "", 1)
	require.NoError(t, err)

	title := "stolen"
	_, err = svc.Update(ctx, created.ID, bob, repository.TodoUpdate{Title: &title})
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Complete(ctx, created.ID, bob)
	require.ErrorIs(t, err, repository.ErrNotFound)

	deleted, err := svc.Delete(ctx, created.ID, bob)
	require.NoError(t, err)
	require.False(t, deleted)

	// unscoped variant may still mutate any row
	_, err = svc.Complete(ctx, created.ID, 0)
	require.NoError(t, err)
}

func TestCompleteIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newTodoFixture(t)

	created, err := svc.Create(ctx, alice, "task", "", 1)
	require.NoError(t, err)

	first, err := svc.Complete(ctx, created.ID, alice)
	require.NoError(t, err)
	require.True(t, first.Completed)
	require.NotNil(t, first.CompletedAt)

	time.Sleep(5 * time.Millisecond)

	second, err := svc.Complete(ctx, created.ID, alice)
	require.NoError(t, err)
	require.True(t, second.Completed)
	require.NotNil(t, second.CompletedAt)
	require.True(t, second.CompletedAt.After(*first.CompletedAt))
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newTodoFixture(t)

	keep, err := svc.Create(ctx, alice, "keep", "", 1)
	require.NoError(t, err)
	drop, err := svc.Create(ctx, alice, "drop", "", 1)
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, drop.ID, alice)
	require.NoError(t, err)
	require.True(t, deleted)

	// absent from every read path
	_, err = svc.Get(ctx, drop.ID, alice)
	require.ErrorIs(t, err, repository.ErrNotFound)
	todos, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	require.Equal(t, keep.ID, todos[0].ID)

	// deleting again reports false
	deleted, err = svc.Delete(ctx, drop.ID, alice)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newTodoFixture(t)

	low, err := svc.Create(ctx, alice, "low", "", 1)
	require.NoError(t, err)
	high, err := svc.Create(ctx, alice, "high", "", 3)
	require.NoError(t, err)

	_, err = svc.Complete(ctx, high.ID, alice)
	require.NoError(t, err)

	completed, err := svc.ListCompleted(ctx, alice)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, high.ID, completed[0].ID)

	pending, err := svc.ListPending(ctx, alice)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, low.ID, pending[0].ID)

	byPriority, err := svc.ListByPriority(ctx, 3, alice)
	require.NoError(t, err)
	require.Len(t, byPriority, 1)
	require.Equal(t, high.ID, byPriority[0].ID)

	_, err = svc.ListByPriority(ctx, 9, alice)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc, alice, bob := newTodoFixture(t)

	_, err := svc.Create(ctx, alice, "Buy milk", "from the corner shop", 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, "Call plumber", "kitchen sink leaks MILK everywhere", 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, "Read book", "", 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, "milk the cows", "", 1)
	require.NoError(t, err)

	// case-insensitive, matches title or description, scoped to caller
	results, err := svc.Search(ctx, "milk", alice)
	require.NoError(t, err)
	require.Len(t, results, 2)

	results, err = svc.Search(ctx, "nothing-matches", alice)
	require.NoError(t, err)
	require.Empty(t, results)

	// empty term returns the full list
	results, err = svc.Search(ctx, "  ", alice)
	require.NoError(t, err)
	require.Len(t, results, 3)
}
