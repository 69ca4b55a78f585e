package models

import (
	"strings"
	"time"
)

// AuthProvider identifies how an account signs in.
type AuthProvider string

const (
	AuthProviderLocal          AuthProvider = "local"
	AuthProviderSimulatedOAuth AuthProvider = "simulated-oauth"
)

// Account is a registered user identity. Only the password hash is stored.
type Account struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash,omitempty"`
	DisplayName  string       `json:"display_name"`
	AuthProvider AuthProvider `json:"auth_provider"`
	CreatedAt    time.Time    `json:"created_at"`
}

// AccountCollection is the persisted document holding every account.
type AccountCollection struct {
	Accounts []Account `json:"accounts"`
}

// FindByEmail returns the index of the account with the given email
// (case-insensitive), or -1.
func (c *AccountCollection) FindByEmail(email string) int {
	for i := range c.Accounts {
		if strings.EqualFold(c.Accounts[i].Email, email) {
			return i
		}
	}
	return -1
}

// FindByID returns the index of the account with the given id, or -1.
func (c *AccountCollection) FindByID(id string) int {
	for i := range c.Accounts {
		if c.Accounts[i].ID == id {
			return i
		}
	}
	return -1
}

// RememberedLogin is an autofill entry. No credential is kept.
type RememberedLogin struct {
	Email      string    `json:"email"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// SessionContext is the authenticated state threaded through view operations.
type SessionContext struct {
	Account *Account
}

// AccountID returns the id of the session's account, or "" when unauthenticated.
func (s *SessionContext) AccountID() string {
	if s == nil || s.Account == nil {
		return ""
	}
	return s.Account.ID
}
