package publisher

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingCredentials is returned when the access token or author URN is not configured.
	ErrMissingCredentials = errors.New("LinkedIn credentials not configured. Check environment variables")

	// ErrEmptyText is returned when there is nothing to publish.
	ErrEmptyText = errors.New("post text is required")

	// ErrPublishFailed is returned for every non-2xx response from the publishing API.
	ErrPublishFailed = errors.New("failed to post to LinkedIn")

	// ErrUnexpectedResponse is returned when a 2xx response does not carry a post id.
	ErrUnexpectedResponse = errors.New("unexpected response from LinkedIn")
)

// ErrorKind classifies publishing API failures for diagnostics.
type ErrorKind string

const (
	KindDuplicate    ErrorKind = "duplicate"
	KindUnauthorized ErrorKind = "unauthorized"
	KindOther        ErrorKind = "other"
)

var hints = map[ErrorKind]string{
	KindDuplicate:    "The post content was too similar to a previous post",
	KindUnauthorized: "Generate a new access token in LinkedIn Developer Portal",
	KindOther:        "Check the response details and your environment variables",
}

// Hint returns the operator-facing tip for kind.
func (k ErrorKind) Hint() string {
	return hints[k]
}

// ConfigurationError reports which credentials are missing.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: missing %s", ErrMissingCredentials, strings.Join(e.Missing, ", "))
}

func (e *ConfigurationError) Unwrap() error {
	return ErrMissingCredentials
}

// APIError is a non-2xx answer from the publishing API.
type APIError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
	Details    any // Decoded response body
}

func (e *APIError) Error() string {
	reason := e.Message
	if reason == "" {
		reason = "Unknown error"
	}

	return fmt.Sprintf("%v: status %d (%s): %s", ErrPublishFailed, e.StatusCode, e.Kind, reason)
}

func (e *APIError) Unwrap() error {
	return ErrPublishFailed
}

// NetworkError wraps transport failures reaching the publishing API.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error reaching LinkedIn: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// classify maps a failed response to an ErrorKind.
func classify(statusCode int, message string) ErrorKind {
	switch {
	case statusCode == 422 && strings.Contains(strings.ToLower(message), "duplicate"):
		return KindDuplicate
	case statusCode == 401:
		return KindUnauthorized
	default:
		return KindOther
	}
}

// IsPublishFailure reports whether err came from the publishing API or the
// network path to it, as opposed to local configuration or validation.
func IsPublishFailure(err error) bool {
	var netErr *NetworkError

	return errors.Is(err, ErrPublishFailed) ||
		errors.Is(err, ErrUnexpectedResponse) ||
		errors.As(err, &netErr)
}
