package storage

import "errors"

// Common server storage errors
var (
	// ErrUserNotFound indicates that the user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a username collision on signup
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTokenNotFound indicates that the refresh token doesn't exist
	ErrTokenNotFound = errors.New("refresh token not found")
)
