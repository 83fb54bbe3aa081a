package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"todo-server/internal/domain"
	"todo-server/internal/repository"
)

var (
	// ErrDuplicateUser is returned when registering with a username or
	// email that is already taken.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthResult is returned on successful registration or login. Token is
// an opaque session marker, not a cryptographic credential; the signed
// identity claim travels separately in a cookie.
type AuthResult struct {
	Token     string
	User      *domain.User
	ExpiresAt time.Time
}

// UserService orchestrates registration and login.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type userService struct {
	users    repository.UserRepository
	hasher   PasswordHasher
	tokenTTL time.Duration
	log      logrus.FieldLogger
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher, tokenTTL time.Duration, log logrus.FieldLogger) UserService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &userService{
		users:    users,
		hasher:   hasher,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	exists, err := s.users.Exists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		// the uniqueness check above races with concurrent registrations;
		// the unique index is the authority
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	s.log.WithField("username", username).Info("user registered")
	return s.authResult(user), nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.WithField("username", username).Warn("login failed: unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.WithField("username", username).Warn("login failed: password mismatch")
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	s.log.WithField("username", username).Info("login successful")
	return s.authResult(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) authResult(user *domain.User) *AuthResult {
	return &AuthResult{
		Token:     uuid.NewString(),
		User:      sanitizeUser(user),
		ExpiresAt: time.Now().UTC().Add(s.tokenTTL),
	}
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}
