// Package http wires the JSON API to the user and todo services. The
// caller's identity is resolved once per request at the boundary and
// threaded into every service call; handlers never read ambient state.
package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todo-server/internal/service"
	"todo-server/internal/session"
)

// Identity is the resolved caller of a request. A zero UserID means
// anonymous; protected routes reject it before any service call.
type Identity struct {
	UserID        int64
	Authenticated bool
}

const identityKey = "identity"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	todos    service.TodoService
	claims   *session.ClaimsCodec
	sessions session.Store
}

func NewHandler(users service.UserService, todos service.TodoService, claims *session.ClaimsCodec, sessions session.Store) *Handler {
	return &Handler{
		users:    users,
		todos:    todos,
		claims:   claims,
		sessions: sessions,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(h.resolveIdentity())

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		user := api.Group("/user")
		{
			user.POST("/register", h.register)
			user.POST("/login", h.login)
			user.POST("/logout", h.logout)
			user.GET("/me", h.requireAuth, h.me)
		}

		todo := api.Group("/todo", h.requireAuth)
		{
			todo.GET("", h.listTodos)
			todo.POST("", h.createTodo)
			todo.GET("/filter", h.filterTodos)
			todo.GET("/search", h.searchTodos)
			todo.GET("/:id", h.getTodo)
			todo.PUT("/:id", h.updateTodo)
			todo.PATCH("/:id/complete", h.completeTodo)
			todo.DELETE("/:id", h.deleteTodo)
		}
	}
}

// resolveIdentity derives the caller once per request: the signed
// claims cookie wins; a bearer token or session cookie checked against
// the server-side store is the fallback. Absent both, the caller is
// anonymous (user id 0).
func (h *Handler) resolveIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := Identity{}

		if cookie, err := c.Cookie(session.ClaimsCookie); err == nil && cookie != "" {
			if claims, err := h.claims.Verify(cookie); err == nil {
				if id := claims.UserID(); id > 0 {
					identity = Identity{UserID: id, Authenticated: true}
				}
			}
		}

		if !identity.Authenticated {
			if token := h.sessionToken(c); token != "" {
				if id, err := h.sessions.Get(c.Request.Context(), token); err == nil && id > 0 {
					identity = Identity{UserID: id, Authenticated: true}
				}
			}
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func (h *Handler) sessionToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(session.TokenCookie); err == nil {
		return cookie
	}
	return ""
}

func (h *Handler) requireAuth(c *gin.Context) {
	if !currentIdentity(c).Authenticated {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}
}

func currentIdentity(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
