package errs

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := E(KindInvalidState, "lifecycle.end", "session is not active")
	wrapped := fmt.Errorf("handler: %w", base)

	assert.Equal(t, KindInvalidState, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindInvalidState))
	assert.False(t, Is(wrapped, KindInvalidInput))
	assert.Equal(t, "lifecycle.end: session is not active", base.Error())
	assert.Equal(t, "session is not active", Message(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	require.NoError(t, Wrap(KindNotFound, "store.get", nil))

	err := Wrap(KindNotFound, "store.get", sql.ErrNoRows)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Contains(t, err.Error(), "store.get")
}

func TestUnknownErrorsStayOpaque(t *testing.T) {
	err := fmt.Errorf("dial tcp: refused")
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.False(t, Is(nil, KindUnknown))
	assert.Equal(t, "internal error", Message(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindOf(err)))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidInput:         http.StatusBadRequest,
		KindInvalidState:         http.StatusConflict,
		KindAmountMismatch:       http.StatusConflict,
		KindAlreadyImpersonating: http.StatusConflict,
		KindPricingNotConfigured: http.StatusUnprocessableEntity,
		KindNotAuthorized:        http.StatusForbidden,
		KindInvalidCredential:    http.StatusUnauthorized,
		KindExpired:              http.StatusUnauthorized,
		KindNotFound:             http.StatusNotFound,
	}
	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(kind), kind)
	}

	assert.Equal(t, KindAmountMismatch, FromHTTPStatus(http.StatusConflict, string(KindAmountMismatch)))
	assert.Equal(t, KindNotAuthorized, FromHTTPStatus(http.StatusForbidden, ""))
}
