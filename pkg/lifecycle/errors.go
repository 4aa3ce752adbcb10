package lifecycle

import (
	"errors"
	"fmt"

	"github.com/dukex/postgate/pkg/models"
)

var (
	// ErrBusy is returned when an external call is already in flight.
	ErrBusy = errors.New("another generate or publish operation is in progress")

	// ErrInvalidTransition is returned when the draft status does not allow the operation.
	ErrInvalidTransition = errors.New("invalid draft transition")

	// ErrNotEditing is returned by edit operations that need an open edit session.
	ErrNotEditing = errors.New("draft is not being edited")

	// ErrEditInProgress is returned when an open edit session blocks the operation.
	ErrEditInProgress = errors.New("draft has unsaved edits")
)

// TransitionError wraps ErrInvalidTransition with the operation and the status
// the draft was in.
type TransitionError struct {
	Op     string             // Operation being performed (e.g., "approve", "reset")
	Status models.DraftStatus // Status at the time of the call
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s not allowed while draft is %s", e.Op, e.Status)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func newTransitionError(op string, status models.DraftStatus) *TransitionError {
	return &TransitionError{Op: op, Status: status}
}
