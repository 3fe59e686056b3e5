package cli

import (
	"context"
	"fmt"
)

// RunLogin authenticates and stores the token pair locally.
func (a *App) RunLogin(ctx context.Context, passwords Passwords) error {
	session := a.Auth.Session()
	if session.Authenticated {
		fmt.Printf("Already logged in as %s. Run 'shulebook logout' first to switch accounts.\n", session.User.Username)
		return nil
	}

	username, err := readInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := readPassword(passwords)
	if err != nil {
		return err
	}

	user, err := a.Auth.Login(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}
