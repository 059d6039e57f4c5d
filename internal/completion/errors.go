// ABOUTME: Typed failure taxonomy for completion requests
// ABOUTME: Every failed attempt maps to unavailable, invalid_response, or rate_limited

package completion

import "fmt"

// ErrorKind classifies why a completion attempt failed.
type ErrorKind string

const (
	// KindUnavailable covers transport failures, timeouts, and 5xx responses.
	KindUnavailable ErrorKind = "unavailable"
	// KindInvalidResponse covers responses with no usable completion text.
	KindInvalidResponse ErrorKind = "invalid_response"
	// KindRateLimited covers 429 and quota exhaustion signaled by the service.
	KindRateLimited ErrorKind = "rate_limited"
)

// Error is the typed failure returned by the client. The engine never
// propagates it to customers; the session substitutes a fallback message.
type Error struct {
	Kind       ErrorKind
	StatusCode int // zero when the request never produced a response
	Message    string
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("completion %s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is can see through to
// context cancellation.
func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, status int, message string, cause error) *Error {
	return &Error{Kind: kind, StatusCode: status, Message: message, cause: cause}
}
