package storage

import (
	"context"
	"time"

	"github.com/wkarimi/shulebook/internal/models"
)

// UserStorage defines the interface for user account persistence
type UserStorage interface {
	// CreateUser creates a new user and returns its assigned ID.
	// Returns ErrUserAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, user *models.User) (int64, error)

	// GetUserByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// UpdateProfile updates the editable profile fields.
	// Returns ErrUserNotFound if the user doesn't exist.
	UpdateProfile(ctx context.Context, userID int64, email, firstName, lastName, phone, address string) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID int64, lastLogin time.Time) error
}
