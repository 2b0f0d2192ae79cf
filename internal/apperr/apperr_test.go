package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	cause := errors.New("driver: row scan failed")
	wrapped := Wrap(ErrRefreshRevoked, cause)

	require.ErrorIs(t, wrapped, ErrRefreshRevoked)
	require.ErrorIs(t, fmt.Errorf("outer: %w", wrapped), ErrRefreshRevoked)
	require.Equal(t, cause, errors.Unwrap(wrapped))
	require.NotErrorIs(t, wrapped, ErrRefreshExpired, "same kind, different code")
}

func TestKindAndCodeOfPlainErrors(t *testing.T) {
	plain := errors.New("boom")
	require.Equal(t, KindInternal, KindOf(plain))
	require.Equal(t, "internal", CodeOf(plain))

	require.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	require.Equal(t, "token_expired", CodeOf(ErrTokenExpired))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindNotFound:     http.StatusNotFound,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindConflict:     http.StatusConflict,
		KindInvalidState: http.StatusUnprocessableEntity,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		require.Equal(t, want, HTTPStatus(kind))
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	e := New(KindConflict, "email_exists", "email already registered")
	require.Equal(t, "email already registered", e.Error())

	withCause := Wrap(e, errors.New("duplicate key 1062"))
	require.Contains(t, withCause.Error(), "email already registered")
	require.Contains(t, withCause.Error(), "1062")
}
