// Package lifecycle implements the post review state machine. Every operation
// is a pure function from the current State to the next State; operations
// that need an external call also return the Effect to perform, and the
// caller feeds the result back through the matching Complete method.
package lifecycle

import "github.com/dukex/postgate/pkg/models"

// EffectKind names the external call an operation asks the caller to perform.
type EffectKind string

const (
	EffectNone     EffectKind = ""
	EffectGenerate EffectKind = "generate"
	EffectPublish  EffectKind = "publish"
)

// Effect describes an external call to perform on behalf of a transition.
type Effect struct {
	Kind EffectKind
	Date string // set for EffectGenerate
	Text string // set for EffectPublish
}

// State is the session-scoped review state. It is a value type: operations
// never modify the receiver.
type State struct {
	Draft       models.Draft `json:"draft"`
	Editing     bool         `json:"editing"`
	EditBuffer  string       `json:"editBuffer,omitempty"`
	ExternalURL string       `json:"externalUrl,omitempty"`
	InFlight    EffectKind   `json:"inFlight,omitempty"`
}

// New returns the initial state: a pending draft holding text.
func New(text string) State {
	return State{Draft: models.NewDraft(text)}
}

// Busy reports whether an external call is outstanding.
func (s State) Busy() bool {
	return s.InFlight != EffectNone
}

// BeginGenerate marks a generation as in flight.
func (s State) BeginGenerate(date string) (State, Effect, error) {
	if s.Busy() {
		return s, Effect{}, ErrBusy
	}

	s.InFlight = EffectGenerate

	return s, Effect{Kind: EffectGenerate, Date: date}, nil
}

// CompleteGenerate applies a generation result. A nil gen (failure) leaves the
// draft untouched.
func (s State) CompleteGenerate(gen *models.Generation) State {
	s.InFlight = EffectNone

	if gen == nil {
		return s
	}

	s.Draft = models.NewDraft(gen.Text)
	s.Editing = false
	s.EditBuffer = ""
	s.ExternalURL = ""

	return s
}

// BeginApprove marks a publish as in flight and returns the text to publish.
func (s State) BeginApprove() (State, Effect, error) {
	if s.Busy() {
		return s, Effect{}, ErrBusy
	}

	if !s.Draft.Status.CanTransitionTo(models.DraftStatusApproved) {
		return s, Effect{}, newTransitionError("approve", s.Draft.Status)
	}

	if s.Editing {
		return s, Effect{}, ErrEditInProgress
	}

	s.InFlight = EffectPublish

	return s, Effect{Kind: EffectPublish, Text: s.Draft.Text}, nil
}

// CompleteApprove applies a publish outcome. Anything but a successful outcome
// keeps the draft pending.
func (s State) CompleteApprove(outcome *models.PublishOutcome) State {
	s.InFlight = EffectNone

	if outcome == nil || !outcome.Success {
		return s
	}

	s.Draft.Status = models.DraftStatusApproved
	s.ExternalURL = outcome.ExternalURL

	return s
}

// Reject discards the draft locally. An open edit session is dropped.
func (s State) Reject() (State, error) {
	if s.Busy() {
		return s, ErrBusy
	}

	if !s.Draft.Status.CanTransitionTo(models.DraftStatusRejected) {
		return s, newTransitionError("reject", s.Draft.Status)
	}

	s.Draft.Status = models.DraftStatusRejected
	s.Editing = false
	s.EditBuffer = ""

	return s, nil
}

// Reset returns an approved or rejected draft to pending, keeping its text.
func (s State) Reset() (State, error) {
	if s.Busy() {
		return s, ErrBusy
	}

	if s.Draft.Status == models.DraftStatusPending ||
		!s.Draft.Status.CanTransitionTo(models.DraftStatusPending) {
		return s, newTransitionError("reset", s.Draft.Status)
	}

	s.Draft.Status = models.DraftStatusPending
	s.ExternalURL = ""

	return s, nil
}

// StartEdit opens an edit session seeded with the current text. Calling it
// while already editing keeps the existing buffer.
func (s State) StartEdit() (State, error) {
	if s.Busy() {
		return s, ErrBusy
	}

	if s.Draft.Status != models.DraftStatusPending {
		return s, newTransitionError("start_edit", s.Draft.Status)
	}

	if s.Editing {
		return s, nil
	}

	s.Editing = true
	s.EditBuffer = s.Draft.Text

	return s, nil
}

// UpdateEditBuffer replaces the in-progress buffer without touching the draft.
func (s State) UpdateEditBuffer(text string) (State, error) {
	if !s.Editing {
		return s, ErrNotEditing
	}

	s.EditBuffer = text

	return s, nil
}

// SaveEdit replaces the draft text and closes the edit session.
func (s State) SaveEdit(text string) (State, error) {
	if s.Busy() {
		return s, ErrBusy
	}

	if s.Draft.Status != models.DraftStatusPending {
		return s, newTransitionError("save_edit", s.Draft.Status)
	}

	if !s.Editing {
		return s, ErrNotEditing
	}

	s.Draft.Text = text
	s.Editing = false
	s.EditBuffer = ""

	return s, nil
}

// CancelEdit discards the edit buffer.
func (s State) CancelEdit() State {
	s.Editing = false
	s.EditBuffer = ""

	return s
}
