package blogapi

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed operation.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindConflict
	KindRequest
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRequest:
		return "request"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its kind.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrRequest        = errors.New("request failed")
	ErrTransport      = errors.New("transport failure")
)

// authMessage is returned for every 401, whatever the response body says.
const authMessage = "Authentication failed. Please check your API key is set correctly in the tool configuration."

// Error is returned by every Client operation. Message is written for the
// person driving the tool and is safe to show as-is.
type Error struct {
	Kind       ErrorKind
	Op         string // e.g. "create post"
	Status     int    // HTTP status, 0 when no response was received
	StatusText string
	Message    string
	Err        error // underlying cause, if any
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrAuthentication:
		return e.Kind == KindAuthentication
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrRequest:
		return e.Kind == KindRequest
	case ErrTransport:
		return e.Kind == KindTransport
	}
	return false
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

func validationError(op, format string, args ...any) *Error {
	return &Error{
		Kind:    KindValidation,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}
