package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUpstreamNotFound indicates that the price source has no page (or no price) for a currency.
var ErrUpstreamNotFound = errors.New("currency not found on price source")

// ErrTransport indicates that the price source could not be reached.
var ErrTransport = errors.New("price source unreachable")

// Kind tags an AppError with the failure class it represents.
type Kind int

const (
	KindInternal Kind = iota
	KindMalformedPayload
	KindNotFound
	KindConflict
	KindUpstreamNotFound
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindMalformedPayload:
		return "malformed_payload"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstreamNotFound:
		return "upstream_not_found"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "internal"
	}
}

// sentinel returns the package level error a kind matches with errors.Is.
func (k Kind) sentinel() error {
	switch k {
	case KindMalformedPayload:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrDuplicate
	case KindUpstreamNotFound:
		return ErrUpstreamNotFound
	case KindTransportFailure:
		return ErrTransport
	default:
		return nil
	}
}

// AppError carries a failure kind, a client facing message and the underlying cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel error for this kind.
func (e *AppError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf classifies err. Plain sentinel errors are recognised as well as AppError values.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	switch {
	case errors.Is(err, ErrValidation):
		return KindMalformedPayload
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicate):
		return KindConflict
	case errors.Is(err, ErrUpstreamNotFound):
		return KindUpstreamNotFound
	case errors.Is(err, ErrTransport):
		return KindTransportFailure
	}
	return KindInternal
}

// Message returns the client facing message for err.
// Internal failures never expose their cause.
func Message(err error) string {
	kind := KindOf(err)
	if kind == KindInternal {
		return "Please retry"
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if kind == KindTransportFailure {
		return "Connection error, please retry"
	}
	return err.Error()
}

// HTTPStatus maps err to the status code returned by the API.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindMalformedPayload, KindNotFound, KindConflict, KindUpstreamNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
