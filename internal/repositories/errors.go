package repositories

import "fmt"

// ErrorKind enumerates the failure categories services translate on.
type ErrorKind string

const (
	// KindNotFound indicates the requested record does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindConflict indicates a concurrent modification was detected.
	KindConflict ErrorKind = "conflict"
	// KindUnavailable indicates the backing store cannot serve the request.
	KindUnavailable ErrorKind = "unavailable"
)

// Error wraps storage failures with the categorisation used by services.
type Error struct {
	Op      string
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap exposes the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsNotFound reports whether the error categorises as a missing record.
func (e *Error) IsNotFound() bool { return e != nil && e.Kind == KindNotFound }

// IsConflict reports whether the error categorises as a write conflict.
func (e *Error) IsConflict() bool { return e != nil && e.Kind == KindConflict }

// IsUnavailable reports whether the error categorises as a backend outage.
func (e *Error) IsUnavailable() bool { return e != nil && e.Kind == KindUnavailable }

// NewError constructs a categorised repository error.
func NewError(op string, kind ErrorKind, message string, err error) *Error {
	if message == "" {
		message = string(kind)
	}
	return &Error{Op: op, Kind: kind, Message: message, Err: err}
}
