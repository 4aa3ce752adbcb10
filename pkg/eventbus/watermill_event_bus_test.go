package eventbus_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/postgate/pkg/channels/gochannel"
	"github.com/dukex/postgate/pkg/eventbus"
	"github.com/dukex/postgate/pkg/events"
	"github.com/dukex/postgate/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(slog.Default()))
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func TestWatermillEventBus_DeliversTypedEvents(t *testing.T) {
	t.Parallel()

	bus := newBus(t)

	var (
		mu       sync.Mutex
		received []any
	)

	handler := func(_ context.Context, event any) error {
		mu.Lock()
		defer mu.Unlock()

		received = append(received, event)

		return nil
	}

	require.NoError(t, bus.Handle(events.DraftApprovedEvent, handler))
	require.NoError(t, bus.Handle(events.DraftRejectedEvent, handler))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	approved := events.DraftApproved{
		BaseEvent: events.NewBaseEvent(events.DraftApprovedEvent, models.DraftStatusApproved),
		HistoryID: "entry-1",
		URL:       "https://www.linkedin.com/feed/update/urn:li:share:1/",
	}
	rejected := events.DraftRejected{
		BaseEvent: events.NewBaseEvent(events.DraftRejectedEvent, models.DraftStatusRejected),
	}
	// No handler registered for resets, so it must be skipped.
	reset := events.DraftReset{
		BaseEvent: events.NewBaseEvent(events.DraftResetEvent, models.DraftStatusPending),
	}

	require.NoError(t, bus.Publish(ctx, "session", approved))
	require.NoError(t, bus.Publish(ctx, "session", reset))
	require.NoError(t, bus.Publish(ctx, "session", rejected))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(received) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	got, ok := received[0].(*events.DraftApproved)
	require.True(t, ok)
	assert.Equal(t, approved.ID, got.ID)
	assert.Equal(t, approved.URL, got.URL)
	assert.Equal(t, models.DraftStatusApproved, got.Status)

	_, ok = received[1].(*events.DraftRejected)
	assert.True(t, ok)
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	t.Parallel()

	bus := newBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
