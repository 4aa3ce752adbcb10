package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dukex/postgate/pkg/eventbus"
	"github.com/dukex/postgate/pkg/events"
	"github.com/dukex/postgate/pkg/generator"
	"github.com/dukex/postgate/pkg/ledger"
	"github.com/dukex/postgate/pkg/lifecycle"
	"github.com/dukex/postgate/pkg/models"
	"github.com/dukex/postgate/pkg/otelhelper"
	"github.com/dukex/postgate/pkg/publisher"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultInitialText is the draft a new session starts with.
const DefaultInitialText = "🚀 Success! Automated LinkedIn post!"

// SessionKey partitions events on the bus. There is one session per process.
const SessionKey = "session"

// Generator produces draft text for a date.
type Generator interface {
	Generate(ctx context.Context, date string) (*models.Generation, error)
}

// Publisher submits approved text upstream.
type Publisher interface {
	CheckCredentials() error
	Publish(ctx context.Context, text string) (*models.PublishOutcome, error)
}

// Session is a point-in-time copy of the review state and its history.
type Session struct {
	lifecycle.State

	Busy    bool                  `json:"busy"`
	History []models.HistoryEntry `json:"history"`
}

// Review owns the live draft of a review session. The lock guards state
// transitions only and is released while the generator or publisher runs.
type Review struct {
	mu    sync.Mutex
	state lifecycle.State

	generator Generator
	publisher Publisher
	ledger    *ledger.Ledger
	events    eventbus.EventPublisher
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewReview creates a session holding a pending draft with initialText.
// events may be nil when nobody listens for state changes.
func NewReview(
	initialText string,
	generator Generator,
	publisher Publisher,
	ledger *ledger.Ledger,
	events eventbus.EventPublisher,
	logger *slog.Logger,
) *Review {
	if initialText == "" {
		initialText = DefaultInitialText
	}

	return &Review{
		state:     lifecycle.New(initialText),
		generator: generator,
		publisher: publisher,
		ledger:    ledger,
		events:    events,
		logger:    logger.With("module", "review"),
		tracer:    otelhelper.Tracer(),
		now:       time.Now,
	}
}

// Snapshot returns the current state and history.
func (r *Review) Snapshot() Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshotLocked()
}

func (r *Review) snapshotLocked() Session {
	return Session{
		State:   r.state,
		Busy:    r.state.Busy(),
		History: r.ledger.Entries(),
	}
}

// CheckCredentials reports whether publishing is configured, without publishing.
func (r *Review) CheckCredentials() error {
	return r.publisher.CheckCredentials()
}

// History returns the publish attempts of this session, most recent first.
func (r *Review) History() []models.HistoryEntry {
	return r.ledger.Entries()
}

// Generate replaces the draft with freshly generated text for date. On failure
// the draft is left exactly as it was.
func (r *Review) Generate(ctx context.Context, date string) (*models.Generation, error) {
	if err := generator.ValidateDate(date); err != nil {
		return nil, newServiceError("generate", err)
	}

	r.mu.Lock()

	next, effect, err := r.state.BeginGenerate(date)
	if err != nil {
		r.mu.Unlock()

		return nil, newServiceError("generate", err)
	}

	r.state = next
	r.mu.Unlock()

	gen, err := r.generator.Generate(ctx, effect.Date)
	if err == nil && (gen == nil || strings.TrimSpace(gen.Text) == "") {
		err = generator.ErrOutputEmpty
	}

	r.mu.Lock()

	if err != nil {
		r.state = r.state.CompleteGenerate(nil)
	} else {
		r.state = r.state.CompleteGenerate(gen)
	}

	status := r.state.Draft.Status
	r.mu.Unlock()

	if err != nil {
		r.logger.ErrorContext(ctx, "Post generation failed", "date", date, "error", err)
		r.emit(ctx, events.GenerationFailed{
			BaseEvent: events.NewBaseEvent(events.GenerationFailedEvent, status),
			Date:      date,
			Error:     err.Error(),
		})

		return nil, newServiceError("generate", err)
	}

	r.logger.InfoContext(ctx, "Draft generated", "date", date, "fallback", gen.Fallback)
	r.emit(ctx, events.DraftGenerated{
		BaseEvent: events.NewBaseEvent(events.DraftGeneratedEvent, status),
		Date:      date,
		Fallback:  gen.Fallback,
		Note:      gen.Note,
	})

	return gen, nil
}

// Approve publishes the pending draft. A failed publish keeps the draft
// pending and records a failed history entry; missing credentials fail before
// anything is recorded.
func (r *Review) Approve(ctx context.Context) (outcome *models.PublishOutcome, err error) {
	ctx, span := otelhelper.StartSpan(ctx, r.tracer, "review.approve")

	defer func() {
		otelhelper.Finish(span, err, attribute.String(otelhelper.DraftStatusKey, string(r.Snapshot().Draft.Status)))
	}()

	r.mu.Lock()

	next, effect, err := r.state.BeginApprove()
	if err != nil {
		r.mu.Unlock()

		return nil, newServiceError("approve", err)
	}

	if err := r.publisher.CheckCredentials(); err != nil {
		r.mu.Unlock()

		return nil, newServiceError("approve", err)
	}

	r.state = next
	r.mu.Unlock()

	outcome, err = r.publisher.Publish(ctx, effect.Text)
	if err == nil && (outcome == nil || !outcome.Success) {
		err = publisher.ErrUnexpectedResponse
	}

	if err != nil {
		return nil, r.failApprove(ctx, effect.Text, err)
	}

	url := outcome.ExternalURL
	entry := models.HistoryEntry{
		ID:        uuid.NewString(),
		Text:      effect.Text,
		Timestamp: r.now(),
		URL:       &url,
		Status:    models.HistoryStatusSuccess,
	}

	r.mu.Lock()
	r.state = r.state.CompleteApprove(outcome)
	r.ledger.Append(entry)
	status := r.state.Draft.Status
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "Draft approved and published", "post_id", outcome.ExternalPostID, "url", outcome.ExternalURL)
	r.emit(ctx, events.DraftApproved{
		BaseEvent: events.NewBaseEvent(events.DraftApprovedEvent, status),
		HistoryID: entry.ID,
		PostID:    outcome.ExternalPostID,
		URL:       outcome.ExternalURL,
	})

	return outcome, nil
}

func (r *Review) failApprove(ctx context.Context, text string, cause error) error {
	r.mu.Lock()
	r.state = r.state.CompleteApprove(nil)

	// Credentials can disappear between the check and the call; that is
	// still a configuration problem and is not a publish attempt.
	if errors.Is(cause, publisher.ErrMissingCredentials) {
		r.mu.Unlock()

		return newServiceError("approve", cause)
	}

	entry := models.HistoryEntry{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: r.now(),
		Status:    models.HistoryStatusFailed,
		Error:     cause.Error(),
	}

	r.ledger.Append(entry)
	status := r.state.Draft.Status
	r.mu.Unlock()

	r.logger.ErrorContext(ctx, "Publishing draft failed", "error", cause)
	r.emit(ctx, events.DraftPublishFailed{
		BaseEvent: events.NewBaseEvent(events.DraftPublishFailedEvent, status),
		HistoryID: entry.ID,
		Error:     entry.Error,
	})

	return newServiceError("approve", cause)
}

// Reject discards the pending draft without publishing it.
func (r *Review) Reject(ctx context.Context) (Session, error) {
	return r.transition(ctx, "reject", lifecycle.State.Reject, func(status models.DraftStatus) eventbus.Event {
		return events.DraftRejected{BaseEvent: events.NewBaseEvent(events.DraftRejectedEvent, status)}
	})
}

// Reset returns an approved or rejected draft to pending.
func (r *Review) Reset(ctx context.Context) (Session, error) {
	return r.transition(ctx, "reset", lifecycle.State.Reset, func(status models.DraftStatus) eventbus.Event {
		return events.DraftReset{BaseEvent: events.NewBaseEvent(events.DraftResetEvent, status)}
	})
}

// StartEdit opens an edit session on the pending draft.
func (r *Review) StartEdit(ctx context.Context) (Session, error) {
	return r.transition(ctx, "start_edit", lifecycle.State.StartEdit, func(status models.DraftStatus) eventbus.Event {
		return events.DraftEditStarted{BaseEvent: events.NewBaseEvent(events.DraftEditStartedEvent, status)}
	})
}

// UpdateEditBuffer stores in-progress edits. It publishes no event.
func (r *Review) UpdateEditBuffer(_ context.Context, text string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := r.state.UpdateEditBuffer(text)
	if err != nil {
		return r.snapshotLocked(), newServiceError("update_edit", err)
	}

	r.state = next

	return r.snapshotLocked(), nil
}

// SaveEdit replaces the draft text and closes the edit session.
func (r *Review) SaveEdit(ctx context.Context, text string) (Session, error) {
	if strings.TrimSpace(text) == "" {
		return r.Snapshot(), newServiceError("save_edit", ErrEmptyText)
	}

	save := func(s lifecycle.State) (lifecycle.State, error) {
		return s.SaveEdit(text)
	}

	return r.transition(ctx, "save_edit", save, func(status models.DraftStatus) eventbus.Event {
		return events.DraftEdited{
			BaseEvent: events.NewBaseEvent(events.DraftEditedEvent, status),
			Length:    len([]rune(text)),
		}
	})
}

// CancelEdit discards the edit buffer.
func (r *Review) CancelEdit(ctx context.Context) (Session, error) {
	cancel := func(s lifecycle.State) (lifecycle.State, error) {
		return s.CancelEdit(), nil
	}

	return r.transition(ctx, "cancel_edit", cancel, func(status models.DraftStatus) eventbus.Event {
		return events.DraftEditCancelled{BaseEvent: events.NewBaseEvent(events.DraftEditCancelledEvent, status)}
	})
}

// PublishText sends text straight to the publisher. The draft and the
// history are not involved.
func (r *Review) PublishText(ctx context.Context, text string) (*models.PublishOutcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newServiceError("publish", ErrEmptyText)
	}

	outcome, err := r.publisher.Publish(ctx, text)
	if err != nil {
		return nil, newServiceError("publish", err)
	}

	return outcome, nil
}

// transition applies a local-only state change and publishes its event.
func (r *Review) transition(
	ctx context.Context,
	op string,
	apply func(lifecycle.State) (lifecycle.State, error),
	event func(models.DraftStatus) eventbus.Event,
) (Session, error) {
	r.mu.Lock()

	next, err := apply(r.state)
	if err != nil {
		session := r.snapshotLocked()
		r.mu.Unlock()

		return session, newServiceError(op, err)
	}

	r.state = next
	session := r.snapshotLocked()
	r.mu.Unlock()

	r.logger.DebugContext(ctx, "Draft state changed", "op", op, "status", session.Draft.Status)
	r.emit(ctx, event(session.Draft.Status))

	return session, nil
}

func (r *Review) emit(ctx context.Context, event eventbus.Event) {
	if r.events == nil {
		return
	}

	if err := r.events.Publish(ctx, SessionKey, event); err != nil {
		r.logger.WarnContext(ctx, "Failed to publish state change event", "type", event.GetType(), "error", err)
	}
}
