// Package services provides the review session controller and its error taxonomy.
package services

import (
	"errors"
	"fmt"

	"github.com/dukex/postgate/pkg/generator"
	"github.com/dukex/postgate/pkg/lifecycle"
	"github.com/dukex/postgate/pkg/publisher"
	"github.com/go-playground/validator/v10"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidDate = generator.ErrInvalidDate
	ErrEmptyText   = errors.New("post text cannot be empty")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(op string, err error) error {
	if err == nil {
		return nil
	}

	return &ServiceError{Op: op, Err: err}
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	var validationErrs validator.ValidationErrors

	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrEmptyText) ||
		errors.Is(err, publisher.ErrEmptyText) ||
		errors.As(err, &validationErrs)
}

// IsConflictError checks if an error is a state conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, lifecycle.ErrBusy) ||
		errors.Is(err, lifecycle.ErrInvalidTransition) ||
		errors.Is(err, lifecycle.ErrNotEditing) ||
		errors.Is(err, lifecycle.ErrEditInProgress)
}

// IsConfigurationError reports missing publishing credentials.
func IsConfigurationError(err error) bool {
	return errors.Is(err, publisher.ErrMissingCredentials)
}

// IsUpstreamError reports failures of the publishing API or the network path to it.
func IsUpstreamError(err error) bool {
	return publisher.IsPublishFailure(err)
}

// IsGenerationError reports failures of the external post generator.
func IsGenerationError(err error) bool {
	return errors.Is(err, generator.ErrGeneratorFailed) ||
		errors.Is(err, generator.ErrGeneratorTimeout) ||
		errors.Is(err, generator.ErrOutputMissing) ||
		errors.Is(err, generator.ErrOutputEmpty)
}
