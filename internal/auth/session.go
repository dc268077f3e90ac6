package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reviewly/backend/internal/store"
)

// Session is the explicit login state handed to request handlers. It is
// created on login and removed on logout or expiry; nothing reads login
// state from anywhere else.
type Session struct {
	Token     string
	UserKey   string
	Email     string
	Role      string
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s.Role == store.RoleAdmin
}

// SessionManager owns all live sessions. In-memory only: a restart logs
// everyone out.
type SessionManager struct {
	ttl      time.Duration
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

func (m *SessionManager) Create(user *store.User) *Session {
	session := &Session{
		Token:     uuid.NewString(),
		UserKey:   user.UserKey,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[session.Token] = session
	m.mu.Unlock()

	return session
}

// Get resolves a token. Expired sessions are dropped on access.
func (m *SessionManager) Get(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		delete(m.sessions, token)
		return nil, false
	}
	return session, true
}

func (m *SessionManager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}
