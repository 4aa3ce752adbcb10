package web

import (
	"context"
	"sync"

	"github.com/dukex/postgate/pkg/eventbus"
	"github.com/dukex/postgate/pkg/events"
)

const defaultFeedCapacity = 256

// FeedEvent is a state-change event with its position in the feed.
type FeedEvent struct {
	Seq   uint64           `json:"seq"`
	Type  events.EventType `json:"type"`
	Event any              `json:"event"`
}

// EventFeed keeps the most recent session events so the review page can poll
// for changes it has not seen yet.
type EventFeed struct {
	mu       sync.RWMutex
	events   []FeedEvent
	last     uint64
	capacity int
}

func NewEventFeed(capacity int) *EventFeed {
	if capacity <= 0 {
		capacity = defaultFeedCapacity
	}

	return &EventFeed{capacity: capacity}
}

// Register subscribes the feed to every session event type on bus.
func (f *EventFeed) Register(bus eventbus.EventSubscriber) error {
	for _, eventType := range events.AllEventTypes {
		if err := bus.Handle(eventType, f.record); err != nil {
			return err
		}
	}

	return nil
}

func (f *EventFeed) record(_ context.Context, event any) error {
	typed, ok := event.(eventbus.Event)
	if !ok {
		return nil
	}

	f.Append(typed)

	return nil
}

// Append adds event to the feed, evicting the oldest entry when full.
func (f *EventFeed) Append(event eventbus.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last++
	f.events = append(f.events, FeedEvent{Seq: f.last, Type: event.GetType(), Event: event})

	if len(f.events) > f.capacity {
		f.events = append([]FeedEvent(nil), f.events[len(f.events)-f.capacity:]...)
	}
}

// Since returns the events with a sequence number greater than after, and the
// latest sequence number.
func (f *EventFeed) Since(after uint64) ([]FeedEvent, uint64) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := []FeedEvent{}

	for _, event := range f.events {
		if event.Seq > after {
			result = append(result, event)
		}
	}

	return result, f.last
}
