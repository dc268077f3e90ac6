// Package auth verifies credentials and manages login sessions.
// Passwords are compared only against bcrypt hashes; plaintext is never
// stored.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/reviewly/backend/internal/store"
	"github.com/reviewly/backend/internal/userkey"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

const minPasswordLength = 8

type Service struct {
	store    *store.SQLiteStore
	sessions *SessionManager
}

func NewService(s *store.SQLiteStore, sessions *SessionManager) *Service {
	return &Service{
		store:    s,
		sessions: sessions,
	}
}

// Register creates a credential record with a bcrypt hash and the user
// key derived from the email.
func (s *Service) Register(email, password, role string) (*store.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if role == "" {
		role = store.RoleUser
	}

	key := userkey.Derive(email)
	if key == "" {
		return nil, errors.New("email normalizes to an empty user key")
	}

	if _, err := s.store.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &store.User{
		UserKey:      key,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the password and opens a session. Unknown emails and
// wrong passwords report the same error.
func (s *Service) Login(email, password string) (*Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.store.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.sessions.Create(user), nil
}

func (s *Service) Logout(token string) {
	s.sessions.Destroy(token)
}

// Resolve maps a bearer token to its live session.
func (s *Service) Resolve(token string) (*Session, bool) {
	return s.sessions.Get(token)
}

// EnsureAdmin creates the bootstrap admin account if it does not exist.
func (s *Service) EnsureAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.Register(email, password, store.RoleAdmin)
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	return err
}
