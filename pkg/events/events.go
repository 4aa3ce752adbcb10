// Package events defines the state-change notifications published by the review session.
package events

import (
	"time"

	"github.com/dukex/postgate/pkg/models"
	"github.com/google/uuid"
)

type EventType string

const Topic = "postgate.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Generation events.
	DraftGeneratedEvent   EventType = "draft.generated"
	GenerationFailedEvent EventType = "draft.generation_failed"

	// Review decisions.
	DraftApprovedEvent      EventType = "draft.approved"
	DraftPublishFailedEvent EventType = "draft.publish_failed"
	DraftRejectedEvent      EventType = "draft.rejected"
	DraftResetEvent         EventType = "draft.reset"

	// Edit session.
	DraftEditStartedEvent   EventType = "draft.edit_started"
	DraftEditedEvent        EventType = "draft.edited"
	DraftEditCancelledEvent EventType = "draft.edit_cancelled"
)

// AllEventTypes lists every event a review session can publish.
var AllEventTypes = []EventType{
	DraftGeneratedEvent,
	GenerationFailedEvent,
	DraftApprovedEvent,
	DraftPublishFailedEvent,
	DraftRejectedEvent,
	DraftResetEvent,
	DraftEditStartedEvent,
	DraftEditedEvent,
	DraftEditCancelledEvent,
}

type BaseEvent struct {
	ID        string             `json:"id"`
	Type      EventType          `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
	Status    models.DraftStatus `json:"status"` // Draft status after the change
	Metadata  map[string]any     `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, status models.DraftStatus) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Status:    status,
		Metadata:  make(map[string]any),
	}
}

type DraftGenerated struct {
	BaseEvent

	Date     string `json:"date"`
	Fallback bool   `json:"fallback"`
	Note     string `json:"note,omitempty"`
}

func (e DraftGenerated) GetType() EventType {
	return DraftGeneratedEvent
}

type GenerationFailed struct {
	BaseEvent

	Date  string `json:"date"`
	Error string `json:"error"`
}

func (e GenerationFailed) GetType() EventType {
	return GenerationFailedEvent
}

type DraftApproved struct {
	BaseEvent

	HistoryID string `json:"history_id"`
	PostID    string `json:"post_id"`
	URL       string `json:"url"`
}

func (e DraftApproved) GetType() EventType {
	return DraftApprovedEvent
}

type DraftPublishFailed struct {
	BaseEvent

	HistoryID string `json:"history_id"`
	Error     string `json:"error"`
}

func (e DraftPublishFailed) GetType() EventType {
	return DraftPublishFailedEvent
}

type DraftRejected struct {
	BaseEvent
}

func (e DraftRejected) GetType() EventType {
	return DraftRejectedEvent
}

type DraftReset struct {
	BaseEvent
}

func (e DraftReset) GetType() EventType {
	return DraftResetEvent
}

type DraftEditStarted struct {
	BaseEvent
}

func (e DraftEditStarted) GetType() EventType {
	return DraftEditStartedEvent
}

type DraftEdited struct {
	BaseEvent

	Length int `json:"length"` // Characters in the saved text
}

func (e DraftEdited) GetType() EventType {
	return DraftEditedEvent
}

type DraftEditCancelled struct {
	BaseEvent
}

func (e DraftEditCancelled) GetType() EventType {
	return DraftEditCancelledEvent
}

// NewEvent returns an empty event value for eventType, ready to be decoded into.
func NewEvent(eventType EventType) (any, bool) {
	switch eventType {
	case DraftGeneratedEvent:
		return &DraftGenerated{}, true
	case GenerationFailedEvent:
		return &GenerationFailed{}, true
	case DraftApprovedEvent:
		return &DraftApproved{}, true
	case DraftPublishFailedEvent:
		return &DraftPublishFailed{}, true
	case DraftRejectedEvent:
		return &DraftRejected{}, true
	case DraftResetEvent:
		return &DraftReset{}, true
	case DraftEditStartedEvent:
		return &DraftEditStarted{}, true
	case DraftEditedEvent:
		return &DraftEdited{}, true
	case DraftEditCancelledEvent:
		return &DraftEditCancelled{}, true
	default:
		return nil, false
	}
}
