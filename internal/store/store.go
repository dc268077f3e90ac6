package store

import "errors"

var (
	ErrNotFound = errors.New("not found")
)

// User is a credential record. Passwords are stored only as bcrypt
// hashes; the primary key is the normalized user key derived from the
// email.
type User struct {
	UserKey      string
	Email        string
	PasswordHash string
	Role         string // "user" or "admin"
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Settings is the single shared feature-toggle record. Saves are
// last-write-wins overwrites.
type Settings struct {
	AllowOpenSubmission bool `json:"allow_open_submission"`
}
