package cli

import (
	"context"
	"fmt"
)

// RunStatus prints the current session and cache state.
func (a *App) RunStatus(ctx context.Context) error {
	session := a.Auth.Session()

	if !session.Authenticated {
		fmt.Println("Status: not logged in")
		return nil
	}

	user := session.User
	fmt.Println("Status: logged in")
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  Name:     %s %s\n", user.FirstName, user.LastName)
	fmt.Printf("  Role:     %s\n", user.Role)

	st := a.Store.State()
	fmt.Printf("  Cached courses: %d\n", len(st.Courses))
	if st.NeedsRefresh {
		fmt.Println("  Dashboard data is stale; run 'shulebook dashboard' to refresh.")
	}

	return nil
}
