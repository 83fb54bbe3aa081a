package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"todo-server/internal/domain"
	"todo-server/internal/repository"
	"todo-server/internal/service"
)

type createTodoRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
	Priority    int    `json:"priority" binding:"omitempty,min=1,max=3"`
}

// updateTodoRequest is a partial update: nil fields leave the stored
// value untouched.
type updateTodoRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Priority    *int    `json:"priority" binding:"omitempty,min=1,max=3"`
	IsCompleted *bool   `json:"isCompleted"`
}

type TodoResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	IsCompleted bool    `json:"isCompleted"`
	CreatedAt   string  `json:"createdAt"`
	CompletedAt *string `json:"completedAt,omitempty"`
	Priority    int     `json:"priority"`
	UserID      int64   `json:"userId"`
	IsActive    bool    `json:"isActive"`
	Username    string  `json:"username"`
}

func (h *Handler) listTodos(c *gin.Context) {
	identity := currentIdentity(c)
	todos, err := h.todos.List(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, todosToResponse(todos))
}

func (h *Handler) createTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := currentIdentity(c)
	todo, err := h.todos.Create(c.Request.Context(), identity.UserID, req.Title, req.Description, req.Priority)
	if err != nil {
		respondTodoErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, todoToResponse(*todo))
}

func (h *Handler) getTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	identity := currentIdentity(c)
	todo, err := h.todos.Get(c.Request.Context(), id, identity.UserID)
	if err != nil {
		respondTodoErr(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(*todo))
}

func (h *Handler) updateTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := currentIdentity(c)
	todo, err := h.todos.Update(c.Request.Context(), id, identity.UserID, repository.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.IsCompleted,
	})
	if err != nil {
		respondTodoErr(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(*todo))
}

func (h *Handler) completeTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	identity := currentIdentity(c)
	todo, err := h.todos.Complete(c.Request.Context(), id, identity.UserID)
	if err != nil {
		respondTodoErr(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(*todo))
}

func (h *Handler) deleteTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	identity := currentIdentity(c)
	deleted, err := h.todos.Delete(c.Request.Context(), id, identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// filterTodos mirrors the filter page of the form surface: completed,
// pending, priority, or everything for an unknown type.
func (h *Handler) filterTodos(c *gin.Context) {
	identity := currentIdentity(c)
	ctx := c.Request.Context()

	var (
		todos []domain.Todo
		err   error
	)
	switch c.Query("type") {
	case "completed":
		todos, err = h.todos.ListCompleted(ctx, identity.UserID)
	case "pending":
		todos, err = h.todos.ListPending(ctx, identity.UserID)
	case "priority":
		priority, perr := strconv.Atoi(c.Query("priority"))
		if perr != nil || !domain.ValidPriority(priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be between 1 and 3"})
			return
		}
		todos, err = h.todos.ListByPriority(ctx, priority, identity.UserID)
	default:
		todos, err = h.todos.List(ctx, identity.UserID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, todosToResponse(todos))
}

func (h *Handler) searchTodos(c *gin.Context) {
	identity := currentIdentity(c)
	todos, err := h.todos.Search(c.Request.Context(), c.Query("q"), identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, todosToResponse(todos))
}

func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo id"})
		return 0, false
	}
	return id, true
}

func respondTodoErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func todoToResponse(todo domain.Todo) TodoResponse {
	resp := TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		IsCompleted: todo.Completed,
		CreatedAt:   todo.CreatedAt.Format(time.RFC3339),
		Priority:    todo.Priority,
		UserID:      todo.UserID,
		IsActive:    todo.Active,
		Username:    todo.Username,
	}
	if todo.CompletedAt != nil {
		v := todo.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}

func todosToResponse(todos []domain.Todo) []TodoResponse {
	resp := make([]TodoResponse, len(todos))
	for i := range todos {
		resp[i] = todoToResponse(todos[i])
	}
	return resp
}
