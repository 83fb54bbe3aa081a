package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"todo-server/internal/domain"
	"todo-server/internal/repository"
)

type TodoRepository struct {
	mu     sync.Mutex
	nextID int64
	todos  map[int64]domain.Todo

	// usernames resolves owner ids for the Username field on reads,
	// standing in for the sqlite join against users.
	users *UserRepository
}

func NewTodoRepository(users *UserRepository) *TodoRepository {
	return &TodoRepository{
		nextID: 1,
		todos:  make(map[int64]domain.Todo),
		users:  users,
	}
}

func (r *TodoRepository) Init(ctx context.Context) error { return nil }

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now().UTC()
	}
	todo.Completed = false
	todo.CompletedAt = nil
	todo.Active = true
	todo.ID = r.nextID
	r.nextID++
	r.todos[todo.ID] = *todo
	return todo.ID, nil
}

func (r *TodoRepository) Get(ctx context.Context, id, ownerID int64) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(ctx, id, ownerID)
}

func (r *TodoRepository) getLocked(ctx context.Context, id, ownerID int64) (*domain.Todo, error) {
	t, ok := r.todos[id]
	if !ok || !t.Active {
		return nil, repository.ErrNotFound
	}
	if ownerID != 0 && t.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	r.fillUsername(ctx, &t)
	return &t, nil
}

func (r *TodoRepository) List(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return r.collect(ctx, ownerID, func(t domain.Todo) bool { return true }, byCreatedDesc)
}

func (r *TodoRepository) ListByPriority(ctx context.Context, priority int, ownerID int64) ([]domain.Todo, error) {
	return r.collect(ctx, ownerID, func(t domain.Todo) bool { return t.Priority == priority }, byCreatedDesc)
}

func (r *TodoRepository) ListCompleted(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return r.collect(ctx, ownerID, func(t domain.Todo) bool { return t.Completed }, byCompletedDesc)
}

func (r *TodoRepository) ListPending(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return r.collect(ctx, ownerID, func(t domain.Todo) bool { return !t.Completed }, byCreatedDesc)
}

func (r *TodoRepository) Update(ctx context.Context, id, ownerID int64, update repository.TodoUpdate) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, err := r.getLocked(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		todo.Title = *update.Title
	}
	if update.Description != nil {
		todo.Description = *update.Description
	}
	if update.Priority != nil {
		todo.Priority = *update.Priority
	}
	if update.Completed != nil {
		switch {
		case *update.Completed && !todo.Completed:
			now := time.Now().UTC()
			todo.CompletedAt = &now
		case !*update.Completed:
			todo.CompletedAt = nil
		}
		todo.Completed = *update.Completed
	}

	r.todos[id] = *todo
	return todo, nil
}

func (r *TodoRepository) MarkCompleted(ctx context.Context, id, ownerID int64) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, err := r.getLocked(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	todo.Completed = true
	todo.CompletedAt = &now
	r.todos[id] = *todo
	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok || !t.Active {
		return false, nil
	}
	if ownerID != 0 && t.UserID != ownerID {
		return false, nil
	}
	t.Active = false
	r.todos[id] = t
	return true, nil
}

func (r *TodoRepository) collect(ctx context.Context, ownerID int64, keep func(domain.Todo) bool, less func(a, b domain.Todo) bool) ([]domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var todos []domain.Todo
	for _, t := range r.todos {
		if !t.Active {
			continue
		}
		if ownerID != 0 && t.UserID != ownerID {
			continue
		}
		if !keep(t) {
			continue
		}
		r.fillUsername(ctx, &t)
		todos = append(todos, t)
	}
	sort.Slice(todos, func(i, j int) bool { return less(todos[i], todos[j]) })
	return todos, nil
}

func (r *TodoRepository) fillUsername(ctx context.Context, t *domain.Todo) {
	if r.users == nil {
		return
	}
	if u, err := r.users.GetByID(ctx, t.UserID); err == nil {
		t.Username = u.Username
	}
}

func byCreatedDesc(a, b domain.Todo) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func byCompletedDesc(a, b domain.Todo) bool {
	at, bt := time.Time{}, time.Time{}
	if a.CompletedAt != nil {
		at = *a.CompletedAt
	}
	if b.CompletedAt != nil {
		bt = *b.CompletedAt
	}
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return a.ID > b.ID
}
