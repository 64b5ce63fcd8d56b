package helpdesk

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCode classifies a per-backend failure. Codes, not error types, are
// what crosses the aggregation boundary for multi-item operations.
type ErrorCode string

const (
	// ErrBackendUnreachable: connecting or authenticating to the backend failed.
	ErrBackendUnreachable ErrorCode = "backend_unreachable"
	// ErrBackendEmptyResult: the backend answered but the payload was
	// structurally empty where content was expected.
	ErrBackendEmptyResult ErrorCode = "backend_empty_result"
	// ErrBackendMisconfigured: an endpoint key does not map to a recognized
	// backend classification.
	ErrBackendMisconfigured ErrorCode = "backend_misconfigured"
	// ErrBackendTimeout: the fixed per-call deadline elapsed. Treated like
	// unreachable, scoped to the one backend.
	ErrBackendTimeout ErrorCode = "backend_timeout"
	// ErrNotImplemented: the operation is not supported by this backend kind.
	ErrNotImplemented ErrorCode = "not_implemented"
)

// BackendError is the classified error adapters return. Raw transport errors
// never cross the adapter boundary; they travel wrapped here.
type BackendError struct {
	Origin Origin
	Code   ErrorCode
	cause  error
}

func (e *BackendError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("backend %s: %s: %v", e.Origin, e.Code, e.cause)
	}
	return fmt.Sprintf("backend %s: %s", e.Origin, e.Code)
}

func (e *BackendError) Unwrap() error {
	return e.cause
}

// NewBackendError builds a classified error with an optional cause.
func NewBackendError(origin Origin, code ErrorCode, cause error) *BackendError {
	return &BackendError{Origin: origin, Code: code, cause: cause}
}

// ClassifyBackendError wraps err for origin, deriving the code from the
// error shape: deadline and net timeouts become ErrBackendTimeout, an
// already-classified error passes through unchanged, everything else is
// ErrBackendUnreachable.
func ClassifyBackendError(origin Origin, err error) *BackendError {
	var be *BackendError
	if errors.As(err, &be) {
		return be
	}
	code := ErrBackendUnreachable
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = ErrBackendTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		code = ErrBackendTimeout
	}
	return &BackendError{Origin: origin, Code: code, cause: err}
}

// CodeOf extracts the classification code from err, falling back to
// ErrBackendUnreachable for unclassified errors.
func CodeOf(err error) ErrorCode {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrBackendUnreachable
}
