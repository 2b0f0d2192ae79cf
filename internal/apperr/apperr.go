// Package apperr defines the error taxonomy shared by services, repositories
// and handlers. Every caller-visible failure carries a Kind (mapped to an
// HTTP status in exactly one place) and a stable machine-readable Code, so
// clients can distinguish e.g. an expired access token from a revoked
// refresh token without parsing human text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Kinds are deliberately coarse; fine-grained
// distinctions live in the Code field.
type Kind int

const (
	// KindInternal is the fallback for unexpected failures.
	KindInternal Kind = iota
	// KindValidation marks malformed or missing input. Caller-correctable.
	KindValidation
	// KindNotFound marks a missing referenced entity.
	KindNotFound
	// KindUnauthorized marks missing/invalid credentials or tokens.
	KindUnauthorized
	// KindForbidden marks an authenticated caller lacking rights.
	KindForbidden
	// KindConflict marks a unique-constraint or dependent-state clash.
	KindConflict
	// KindInvalidState marks an operation against the wrong lifecycle state.
	KindInvalidState
)

// Error is the concrete error type surfaced to handlers.
type Error struct {
	Kind Kind
	Code string // stable identifier, e.g. "token_expired"
	Msg  string // human-readable message
	Err  error  // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two apperr values by kind and code, which keeps
// sentinel comparisons working across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// New builds an Error with an explicit kind and code.
func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

// Wrap attaches a cause to a copy of err. Useful for keeping the stable
// kind/code while recording the underlying driver error.
func Wrap(err *Error, cause error) *Error {
	return &Error{Kind: err.Kind, Code: err.Code, Msg: err.Msg, Err: cause}
}

// Convenience constructors for the common kinds.

func Validation(msg string) *Error   { return New(KindValidation, "validation", msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, "not_found", msg) }
func Unauthorized(msg string) *Error { return New(KindUnauthorized, "unauthorized", msg) }
func Forbidden(msg string) *Error    { return New(KindForbidden, "forbidden", msg) }
func Conflict(msg string) *Error     { return New(KindConflict, "conflict", msg) }
func InvalidState(msg string) *Error { return New(KindInvalidState, "invalid_state", msg) }
func Internal(msg string) *Error     { return New(KindInternal, "internal", msg) }

// KindOf extracts the kind of err, defaulting to KindInternal for plain
// errors so that nothing leaks as a 200.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf extracts the stable code, defaulting to "internal".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal"
}

// HTTPStatus maps a kind to its HTTP status code. Handlers and middleware
// share this single mapping so a kind can never surface as two different
// statuses.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	case KindUnauthorized:
		return 401
	case KindForbidden:
		return 403
	case KindConflict:
		return 409
	case KindInvalidState:
		return 422
	default:
		return 500
	}
}

// Token and account lifecycle failures that callers must tell apart: an
// expired access token means "refresh", a revoked refresh token means
// "re-login", a pending account means "wait for approval".
var (
	ErrTokenExpired    = New(KindUnauthorized, "token_expired", "access token expired")
	ErrTokenMalformed  = New(KindUnauthorized, "token_malformed", "access token malformed")
	ErrRefreshExpired  = New(KindUnauthorized, "refresh_expired", "refresh token expired")
	ErrRefreshRevoked  = New(KindUnauthorized, "refresh_revoked", "refresh token revoked")
	ErrRefreshUnknown  = New(KindUnauthorized, "refresh_unknown", "refresh token not recognized")
	ErrBadCredentials  = New(KindUnauthorized, "bad_credentials", "invalid email or password")
	ErrAccountPending  = New(KindUnauthorized, "account_pending", "account has not been approved")
	ErrAccountRejected = New(KindUnauthorized, "account_rejected", "account has been rejected")
)
