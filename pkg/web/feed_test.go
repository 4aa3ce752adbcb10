package web

import (
	"context"
	"testing"

	"github.com/dukex/postgate/pkg/eventbus"
	"github.com/dukex/postgate/pkg/events"
	"github.com/dukex/postgate/pkg/mocks"
	"github.com/dukex/postgate/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func rejected() events.DraftRejected {
	return events.DraftRejected{BaseEvent: events.NewBaseEvent(events.DraftRejectedEvent, models.DraftStatusRejected)}
}

func TestEventFeed_Since(t *testing.T) {
	t.Parallel()

	feed := NewEventFeed(10)

	got, last := feed.Since(0)
	assert.Empty(t, got)
	assert.Equal(t, uint64(0), last)

	feed.Append(rejected())
	feed.Append(events.DraftReset{BaseEvent: events.NewBaseEvent(events.DraftResetEvent, models.DraftStatusPending)})

	got, last = feed.Since(0)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), last)
	assert.Equal(t, events.DraftRejectedEvent, got[0].Type)
	assert.Equal(t, events.DraftResetEvent, got[1].Type)

	got, _ = feed.Since(1)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].Seq)

	got, _ = feed.Since(2)
	assert.Empty(t, got)
}

func TestEventFeed_Capacity(t *testing.T) {
	t.Parallel()

	feed := NewEventFeed(3)

	for range 5 {
		feed.Append(rejected())
	}

	got, last := feed.Since(0)
	require.Len(t, got, 3)
	assert.Equal(t, uint64(5), last)
	assert.Equal(t, uint64(3), got[0].Seq)
}

func TestEventFeed_Register(t *testing.T) {
	t.Parallel()

	bus := &mocks.MockEventBus{}
	bus.On("Handle", mock.Anything, mock.Anything).Return(nil)

	feed := NewEventFeed(0)
	require.NoError(t, feed.Register(bus))

	bus.AssertNumberOfCalls(t, "Handle", len(events.AllEventTypes))

	handler, ok := bus.Calls[0].Arguments.Get(1).(eventbus.EventHandler)
	require.True(t, ok)

	require.NoError(t, handler(context.Background(), rejected()))

	got, _ := feed.Since(0)
	assert.Len(t, got, 1)
}
