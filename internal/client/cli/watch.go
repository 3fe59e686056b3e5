package cli

import (
	"context"
	"fmt"

	"github.com/wkarimi/shulebook/internal/client/notify"
	"github.com/wkarimi/shulebook/pkg/api"
)

// RunWatch polls the notification feed until the context is cancelled
// or the session ends. Notifications that arrive after teardown are
// discarded by the poller, never printed.
func (a *App) RunWatch(ctx context.Context) error {
	session := a.Auth.Session()
	if !session.Authenticated {
		return fmt.Errorf("not logged in. Run 'shulebook login' first")
	}

	seen := make(map[string]bool)
	poller := notify.NewPoller(a.Client, a.Config.PollInterval, func(notifications []api.Notification) {
		for _, n := range notifications {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			fmt.Printf("[%s] %s %s\n", n.Kind, n.CreatedAt, n.Message)
		}
	}, a.Logger)

	// Stop polling the moment the session becomes unauthenticated.
	sessions := a.Auth.Subscribe()
	go func() {
		for s := range sessions {
			if !s.Authenticated && !s.Initializing {
				poller.Stop()
				return
			}
		}
	}()

	fmt.Printf("Watching notifications every %s (Ctrl+C to stop)...\n", a.Config.PollInterval)
	poller.Run(ctx)

	return nil
}
