package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todo-server/internal/domain"
	"todo-server/internal/repository"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// ErrInvalidInput marks validation failures; the message carries the
// specific field problem.
var ErrInvalidInput = errors.New("invalid input")

// TodoService coordinates todo operations backed by the repository.
// Every operation takes the caller's user id; passing zero selects the
// unscoped administrative variant, which sees all users' rows. Mutations
// with a non-zero owner reject rows the caller does not own as
// repository.ErrNotFound.
type TodoService interface {
	Create(ctx context.Context, ownerID int64, title, description string, priority int) (*domain.Todo, error)
	Get(ctx context.Context, id, ownerID int64) (*domain.Todo, error)
	List(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	ListByPriority(ctx context.Context, priority int, ownerID int64) ([]domain.Todo, error)
	ListCompleted(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	ListPending(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	Search(ctx context.Context, term string, ownerID int64) ([]domain.Todo, error)
	Update(ctx context.Context, id, ownerID int64, update repository.TodoUpdate) (*domain.Todo, error)
	Complete(ctx context.Context, id, ownerID int64) (*domain.Todo, error)
	Delete(ctx context.Context, id, ownerID int64) (bool, error)
}

type todoService struct {
	todos repository.TodoRepository
}

func NewTodoService(todos repository.TodoRepository) TodoService {
	return &todoService{todos: todos}
}

func (s *todoService) Create(ctx context.Context, ownerID int64, title, description string, priority int) (*domain.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, maxTitleLen)
	}
	if len(description) > maxDescriptionLen {
		return nil, fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, maxDescriptionLen)
	}
	if priority == 0 {
		priority = domain.PriorityLow
	}
	if !domain.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: priority must be between %d and %d", ErrInvalidInput, domain.PriorityLow, domain.PriorityHigh)
	}
	if ownerID <= 0 {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}

	todo := &domain.Todo{
		Title:       title,
		Description: description,
		Priority:    priority,
		UserID:      ownerID,
	}
	if _, err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	// re-read so the response carries the owner's username
	return s.todos.Get(ctx, todo.ID, ownerID)
}

func (s *todoService) Get(ctx context.Context, id, ownerID int64) (*domain.Todo, error) {
	return s.todos.Get(ctx, id, ownerID)
}

func (s *todoService) List(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return s.todos.List(ctx, ownerID)
}

func (s *todoService) ListByPriority(ctx context.Context, priority int, ownerID int64) ([]domain.Todo, error) {
	if !domain.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: priority must be between %d and %d", ErrInvalidInput, domain.PriorityLow, domain.PriorityHigh)
	}
	return s.todos.ListByPriority(ctx, priority, ownerID)
}

func (s *todoService) ListCompleted(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return s.todos.ListCompleted(ctx, ownerID)
}

func (s *todoService) ListPending(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return s.todos.ListPending(ctx, ownerID)
}

// Search matches the term case-insensitively against title and
// description of the caller's active todos.
func (s *todoService) Search(ctx context.Context, term string, ownerID int64) ([]domain.Todo, error) {
	todos, err := s.todos.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return todos, nil
	}

	matched := make([]domain.Todo, 0, len(todos))
	for _, t := range todos {
		if strings.Contains(strings.ToLower(t.Title), term) ||
			strings.Contains(strings.ToLower(t.Description), term) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func (s *todoService) Update(ctx context.Context, id, ownerID int64, update repository.TodoUpdate) (*domain.Todo, error) {
	if update.Title != nil {
		trimmed := strings.TrimSpace(*update.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		if len(trimmed) > maxTitleLen {
			return nil, fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, maxTitleLen)
		}
		update.Title = &trimmed
	}
	if update.Description != nil && len(*update.Description) > maxDescriptionLen {
		return nil, fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, maxDescriptionLen)
	}
	if update.Priority != nil && !domain.ValidPriority(*update.Priority) {
		return nil, fmt.Errorf("%w: priority must be between %d and %d", ErrInvalidInput, domain.PriorityLow, domain.PriorityHigh)
	}
	return s.todos.Update(ctx, id, ownerID, update)
}

func (s *todoService) Complete(ctx context.Context, id, ownerID int64) (*domain.Todo, error) {
	return s.todos.MarkCompleted(ctx, id, ownerID)
}

func (s *todoService) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	return s.todos.Delete(ctx, id, ownerID)
}
