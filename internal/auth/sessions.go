package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is an opaque bearer token bound to one user. Tokens are
// random UUIDs; nothing about the user is recoverable from the token.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// SessionManager keeps active sessions in memory with TTL expiry.
type SessionManager struct {
	mu           sync.Mutex
	ttl          time.Duration
	sessions     map[string]Session
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	m := &SessionManager{
		ttl:         ttl,
		sessions:    make(map[string]Session),
		stopCleanup: make(chan struct{}),
	}
	go m.startCleanup()
	return m
}

// startCleanup runs periodic cleanup to drop expired sessions
func (m *SessionManager) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupExpired()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *SessionManager) cleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for token, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
}

// Create issues a fresh session for the user.
func (m *SessionManager) Create(userID int64) Session {
	s := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return s
}

// Lookup returns the live session for a token, if any. Expired sessions
// are treated as absent and removed.
func (m *SessionManager) Lookup(token string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, false
	}
	return s, true
}

// Revoke removes a session; revoking an unknown token is a no-op.
func (m *SessionManager) Revoke(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Stop shuts down the cleanup goroutine.
func (m *SessionManager) Stop() {
	m.shutdownOnce.Do(func() {
		close(m.stopCleanup)
	})
}
