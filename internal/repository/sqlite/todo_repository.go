package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-server/internal/domain"
	"todo-server/internal/repository"
)

const createTodosTable = `
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL CHECK (length(title) <= 200),
	description TEXT NOT NULL DEFAULT '' CHECK (length(description) <= 1000),
	is_completed INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	completed_at DATETIME NULL,
	priority INTEGER NOT NULL DEFAULT 1,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	is_active INTEGER NOT NULL DEFAULT 1
);
`

const createTodosUserIndex = `
CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id);
`

// selectTodo joins users so read results carry the owner's username.
// The is_active predicate is the baseline for every read: a soft-deleted
// row behaves as if it does not exist.
const selectTodo = `
SELECT t.id, t.title, t.description, t.is_completed, t.created_at, t.completed_at, t.priority, t.user_id, t.is_active, u.username
FROM todos t
JOIN users u ON u.id = t.user_id
WHERE t.is_active = 1
`

type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) repository.TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTodosTable); err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createTodosUserIndex); err != nil {
		return fmt.Errorf("create todos user index: %w", err)
	}
	return nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (int64, error) {
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now().UTC()
	}
	todo.Completed = false
	todo.CompletedAt = nil
	todo.Active = true

	res, err := r.db.ExecContext(ctx, `
INSERT INTO todos (title, description, is_completed, created_at, priority, user_id, is_active)
VALUES (?, ?, 0, ?, ?, ?, 1)`,
		todo.Title,
		todo.Description,
		todo.CreatedAt,
		todo.Priority,
		todo.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert todo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("todo last insert id: %w", err)
	}
	todo.ID = id
	return id, nil
}

func (r *TodoRepository) Get(ctx context.Context, id, ownerID int64) (*domain.Todo, error) {
	query := selectTodo + `AND t.id = ?`
	args := []any{id}
	if ownerID != 0 {
		query += ` AND t.user_id = ?`
		args = append(args, ownerID)
	}
	return scanTodo(r.db.QueryRowContext(ctx, query, args...))
}

func (r *TodoRepository) List(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return r.query(ctx, ``, `ORDER BY t.created_at DESC, t.id DESC`, ownerID)
}

func (r *TodoRepository) ListByPriority(ctx context.Context, priority int, ownerID int64) ([]domain.Todo, error) {
	return r.query(ctx, `AND t.priority = ?`, `ORDER BY t.created_at DESC, t.id DESC`, ownerID, priority)
}

func (r *TodoRepository) ListCompleted(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return r.query(ctx, `AND t.is_completed = 1`, `ORDER BY t.completed_at DESC, t.id DESC`, ownerID)
}

func (r *TodoRepository) ListPending(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return r.query(ctx, `AND t.is_completed = 0`, `ORDER BY t.created_at DESC, t.id DESC`, ownerID)
}

func (r *TodoRepository) query(ctx context.Context, cond, order string, ownerID int64, args ...any) ([]domain.Todo, error) {
	query := selectTodo + cond
	if ownerID != 0 {
		query += ` AND t.user_id = ?`
		args = append(args, ownerID)
	}
	query += ` ` + order

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

// Update applies a partial update as a single-row read-modify-write.
// Concurrent updates to the same row are last-write-wins.
func (r *TodoRepository) Update(ctx context.Context, id, ownerID int64, update repository.TodoUpdate) (*domain.Todo, error) {
	todo, err := r.Get(ctx, id, ownerID)
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

	if err := r.persist(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// MarkCompleted sets the completed flag unconditionally; recompleting an
// already-completed todo just refreshes its completion timestamp.
func (r *TodoRepository) MarkCompleted(ctx context.Context, id, ownerID int64) (*domain.Todo, error) {
	todo, err := r.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	todo.Completed = true
	todo.CompletedAt = &now

	if err := r.persist(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Delete flips is_active off. It reports false when the row is absent,
// already soft-deleted, or not owned by ownerID.
func (r *TodoRepository) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	query := `UPDATE todos SET is_active = 0 WHERE is_active = 1 AND id = ?`
	args := []any{id}
	if ownerID != 0 {
		query += ` AND user_id = ?`
		args = append(args, ownerID)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("soft delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *TodoRepository) persist(ctx context.Context, todo *domain.Todo) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE todos
SET title=?, description=?, is_completed=?, completed_at=?, priority=?
WHERE id=? AND is_active=1`,
		todo.Title,
		todo.Description,
		todo.Completed,
		nullTime(todo.CompletedAt),
		todo.Priority,
		todo.ID,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return nil
}

func scanTodo(row interface {
	Scan(dest ...any) error
}) (*domain.Todo, error) {
	var (
		todo        domain.Todo
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Completed,
		&todo.CreatedAt,
		&completedAt,
		&todo.Priority,
		&todo.UserID,
		&todo.Active,
		&todo.Username,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	if completedAt.Valid {
		t := completedAt.Time
		todo.CompletedAt = &t
	}
	return &todo, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
