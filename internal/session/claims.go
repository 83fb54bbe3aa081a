// Package session implements the identity boundary: a signed cookie
// claim carrying the authenticated user, plus a server-side session
// store used as a fallback lookup when no claim is present.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todo-server/internal/domain"
)

// Cookie names used by the HTTP layer.
const (
	ClaimsCookie = "todo_identity"
	TokenCookie  = "todo_session"
)

// Claims is the signed identity assertion placed in the claims cookie:
// subject is the user id, plus name and email attributes.
type Claims struct {
	Username string `json:"name"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user id, zero if malformed.
func (c *Claims) UserID() int64 {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ClaimsCodec signs and verifies identity claims with an HMAC secret.
type ClaimsCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewClaimsCodec(secret string, ttl time.Duration) (*ClaimsCodec, error) {
	if secret == "" {
		return nil, errors.New("claims secret is required")
	}
	return &ClaimsCodec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL is the claim validity window, also used as the cookie lifetime.
func (c *ClaimsCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a claim for the given user.
func (c *ClaimsCodec) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify parses and validates a signed claim.
func (c *ClaimsCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
