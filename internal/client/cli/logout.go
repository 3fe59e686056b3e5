package cli

import (
	"context"
	"fmt"
)

// RunLogout ends the session. The local teardown runs even when the
// server cannot be reached.
func (a *App) RunLogout(ctx context.Context) error {
	a.Auth.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}
