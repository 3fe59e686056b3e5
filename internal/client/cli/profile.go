package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/wkarimi/shulebook/internal/validation"
)

// RunProfile shows the profile, or updates it when field=value
// arguments are given. After a successful update the session is
// re-validated so every view sees the fresh user record.
func (a *App) RunProfile(ctx context.Context, args []string) error {
	session := a.Auth.Session()
	if !session.Authenticated {
		return fmt.Errorf("not logged in. Run 'shulebook login' first")
	}

	profile, err := a.Client.GetProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if len(args) == 0 {
		fmt.Printf("Email:      %s\n", profile.Email)
		fmt.Printf("First name: %s\n", profile.FirstName)
		fmt.Printf("Last name:  %s\n", profile.LastName)
		fmt.Printf("Phone:      %s\n", profile.Phone)
		fmt.Printf("Address:    %s\n", profile.Address)
		return nil
	}

	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected field=value, got %q", arg)
		}
		switch field {
		case "email":
			if err := validation.ValidateEmail(value); err != nil {
				return err
			}
			profile.Email = value
		case "first_name":
			profile.FirstName = value
		case "last_name":
			profile.LastName = value
		case "phone":
			profile.Phone = value
		case "address":
			profile.Address = value
		default:
			return fmt.Errorf("unknown profile field %q", field)
		}
	}

	if _, err := a.Client.UpdateProfile(ctx, *profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	// Re-validate so the session user reflects the edit.
	if err := a.Auth.LoadUser(ctx); err != nil {
		return fmt.Errorf("profile updated but session check failed: %w", err)
	}

	fmt.Println("Profile updated.")
	return nil
}
