package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo-server/internal/domain"
	"todo-server/internal/repository"
	"todo-server/internal/service"
	"todo-server/internal/session"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	CreatedAt string  `json:"createdAt"`
	LastLogin *string `json:"lastLogin,omitempty"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	User      UserResponse `json:"user"`
	ExpiresAt string       `json:"expiresAt"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUser) || errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, authToResponse(result))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// durable identity claim plus a server-side session keyed by the
	// opaque token, so either survives absence of the other
	claim, err := h.claims.Issue(result.User)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ttl := h.claims.TTL()
	if err := h.sessions.Put(c.Request.Context(), result.Token, result.User.ID, ttl); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	maxAge := int(ttl / time.Second)
	c.SetCookie(session.ClaimsCookie, claim, maxAge, "/", "", false, true)
	c.SetCookie(session.TokenCookie, result.Token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, authToResponse(result))
}

// logout clears the caller's cookies and server-side session. Claims
// issued elsewhere stay valid until they expire; there is no
// revocation list.
func (h *Handler) logout(c *gin.Context) {
	if token := h.sessionToken(c); token != "" {
		_ = h.sessions.Delete(c.Request.Context(), token)
	}
	c.SetCookie(session.ClaimsCookie, "", -1, "/", "", false, true)
	c.SetCookie(session.TokenCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	identity := currentIdentity(c)
	user, err := h.users.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func userToResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLogin != nil {
		v := user.LastLogin.Format(time.RFC3339)
		resp.LastLogin = &v
	}
	return resp
}

func authToResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     result.Token,
		User:      userToResponse(result.User),
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	}
}
