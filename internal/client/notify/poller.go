package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wkarimi/shulebook/pkg/api"
)

// DefaultInterval is how often the notification feed is polled.
const DefaultInterval = 60 * time.Second

// NotificationAPI fetches the notification feed.
type NotificationAPI interface {
	Notifications(ctx context.Context) ([]api.Notification, error)
}

// Poller periodically fetches the notification feed and hands each
// batch to the handler. It stops deterministically: after Stop (or ctx
// cancellation) no in-flight response is ever delivered, so a teardown
// cannot race a late fetch into stale state.
type Poller struct {
	client   NotificationAPI
	handler  func([]api.Notification)
	logger   *slog.Logger
	interval time.Duration
	stopped  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPoller creates a poller. interval <= 0 selects DefaultInterval.
func NewPoller(client NotificationAPI, interval time.Duration, handler func([]api.Notification), logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		client:   client,
		handler:  handler,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Run polls until ctx is cancelled or Stop is called. The first fetch
// happens immediately, then once per interval.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			p.Stop()
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// Stop halts the poller. Safe to call more than once and concurrently
// with Run.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		close(p.stopCh)
	})
}

// poll performs one fetch. The liveness check runs after the response
// arrives: a result that lands post-Stop is discarded, not applied.
func (p *Poller) poll(ctx context.Context) {
	notifications, err := p.client.Notifications(ctx)
	if err != nil {
		p.logger.Debug("notification poll failed", "error", err)
		return
	}

	if p.stopped.Load() || ctx.Err() != nil {
		return
	}

	p.handler(notifications)
}
