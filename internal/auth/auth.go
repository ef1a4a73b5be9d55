// Package auth provides password hashing and session-based authentication
// for the HTTP layer. Passwords are stored as bcrypt digests only.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"finboard/internal/core"
	"finboard/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooShort   = errors.New("password too short (min 6 characters)")
	ErrPasswordTooLong    = errors.New("password too long (max 72 bytes)")
)

// HashPassword returns the bcrypt digest of a clear-text password.
func HashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", ErrPasswordTooShort
	}
	// bcrypt silently ignores input beyond 72 bytes
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored digest.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Service orchestrates account creation and login over a UserStore.
type Service struct {
	users    store.UserStore
	sessions *SessionManager
}

func NewService(users store.UserStore, sessions *SessionManager) *Service {
	return &Service{users: users, sessions: sessions}
}

// Register creates the account and logs it in immediately.
func (s *Service) Register(ctx context.Context, username, password string) (core.User, Session, error) {
	username = strings.TrimSpace(username)
	hash, err := HashPassword(password)
	if err != nil {
		return core.User{}, Session{}, err
	}
	u, err := s.users.CreateUser(ctx, core.User{Username: username, PasswordHash: hash})
	if err != nil {
		return core.User{}, Session{}, err
	}
	return u, s.sessions.Create(u.ID), nil
}

// Login verifies credentials and issues a session. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (core.User, Session, error) {
	u, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return core.User{}, Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, Session{}, fmt.Errorf("look up user: %w", err)
	}
	if !CheckPassword(u.PasswordHash, password) {
		return core.User{}, Session{}, ErrInvalidCredentials
	}
	return u, s.sessions.Create(u.ID), nil
}

// Logout revokes the session token.
func (s *Service) Logout(token string) {
	s.sessions.Revoke(token)
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (core.User, error) {
	sess, ok := s.sessions.Lookup(token)
	if !ok {
		return core.User{}, ErrInvalidCredentials
	}
	u, err := s.users.GetUser(ctx, sess.UserID)
	if err != nil {
		return core.User{}, ErrInvalidCredentials
	}
	return u, nil
}
