package cli

import (
	"context"
	"fmt"

	"github.com/wkarimi/shulebook/internal/validation"
	"github.com/wkarimi/shulebook/pkg/api"
)

// RunSignup registers a new portal account. The account still has to
// log in afterwards; registration does not start a session.
func (a *App) RunSignup(ctx context.Context, passwords Passwords) error {
	username, err := readInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}

	email, err := readInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	firstName, err := readInput("First name: ")
	if err != nil {
		return fmt.Errorf("failed to read first name: %w", err)
	}
	lastName, err := readInput("Last name: ")
	if err != nil {
		return fmt.Errorf("failed to read last name: %w", err)
	}

	role, err := readInput("Role (student/teacher/parent): ")
	if err != nil {
		return fmt.Errorf("failed to read role: %w", err)
	}
	switch role {
	case api.RoleStudent, api.RoleTeacher, api.RoleParent:
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	password, err := readPassword(passwords)
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	resp, err := a.Client.Signup(ctx, api.SignupRequest{
		Username:  username,
		Password:  password,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	})
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	fmt.Println(resp.Message)
	fmt.Println("Run 'shulebook login' to start a session.")
	return nil
}
