package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wkarimi/shulebook/pkg/api"
)

// notificationFunc adapts a function to the NotificationAPI interface
type notificationFunc func(ctx context.Context) ([]api.Notification, error)

func (f notificationFunc) Notifications(ctx context.Context) ([]api.Notification, error) {
	return f(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestPoller_ImmediateFirstPoll(t *testing.T) {
	received := make(chan []api.Notification, 1)
	client := notificationFunc(func(ctx context.Context) ([]api.Notification, error) {
		return []api.Notification{{ID: "n1", Message: "hello"}}, nil
	})

	p := NewPoller(client, time.Hour, func(batch []api.Notification) {
		received <- batch
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)
	defer p.Stop()

	select {
	case batch := <-received:
		assert.Len(t, batch, 1)
		assert.Equal(t, "n1", batch[0].ID)
	case <-time.After(time.Second):
		t.Fatal("expected an immediate first poll")
	}
}

func TestPoller_PollsOnInterval(t *testing.T) {
	var polls atomic.Int32
	client := notificationFunc(func(ctx context.Context) ([]api.Notification, error) {
		polls.Add(1)
		return []api.Notification{}, nil
	})

	p := NewPoller(client, 20*time.Millisecond, func([]api.Notification) {}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	time.Sleep(110 * time.Millisecond)
	p.Stop()

	assert.GreaterOrEqual(t, polls.Load(), int32(3))
}

func TestPoller_ErrorsAreSilent(t *testing.T) {
	var handled atomic.Int32
	client := notificationFunc(func(ctx context.Context) ([]api.Notification, error) {
		return nil, fmt.Errorf("network down")
	})

	p := NewPoller(client, 20*time.Millisecond, func([]api.Notification) {
		handled.Add(1)
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	time.Sleep(70 * time.Millisecond)
	p.Stop()

	// Failed polls never reach the handler
	assert.Equal(t, int32(0), handled.Load())
}

func TestPoller_PostStopResultDiscarded(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})
	var handled atomic.Int32

	client := notificationFunc(func(ctx context.Context) ([]api.Notification, error) {
		close(inFlight)
		<-release
		return []api.Notification{{ID: "late"}}, nil
	})

	p := NewPoller(client, time.Hour, func([]api.Notification) {
		handled.Add(1)
	}, testLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Run(context.Background())
	}()

	<-inFlight
	// Stop while the fetch is in flight, then let it complete
	p.Stop()
	close(release)
	wg.Wait()

	assert.Equal(t, int32(0), handled.Load())
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	p := NewPoller(notificationFunc(func(ctx context.Context) ([]api.Notification, error) {
		return nil, nil
	}), time.Hour, func([]api.Notification) {}, testLogger())

	p.Stop()
	p.Stop()
	p.Stop()
}

func TestPoller_ContextCancellationStops(t *testing.T) {
	client := notificationFunc(func(ctx context.Context) ([]api.Notification, error) {
		return []api.Notification{}, nil
	})

	p := NewPoller(client, 10*time.Millisecond, func([]api.Notification) {}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
}

func TestPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(notificationFunc(func(ctx context.Context) ([]api.Notification, error) {
		return nil, nil
	}), 0, func([]api.Notification) {}, testLogger())

	assert.Equal(t, DefaultInterval, p.interval)
	assert.Equal(t, 60*time.Second, DefaultInterval)
}
