package models

import "time"

// User is a portal account as stored server-side. PasswordHash is a
// bcrypt hash, never the raw password.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	FirstName    string
	LastName     string
	Role         string
	IsSuperuser  bool
	CreatedAt    time.Time
	LastLogin    *time.Time
	Phone        string
	Address      string
}

// RefreshToken is a long-lived credential stored server-side, used to
// mint new access tokens.
type RefreshToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
