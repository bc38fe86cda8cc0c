package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := New(KindOutOfStock, "item %q is out of stock", "chair")
	assert.Equal(t, KindOutOfStock, KindOf(err))
	assert.Equal(t, `item "chair" is out of stock`, err.Error())

	// The kind survives wrapping by callers.
	wrapped := fmt.Errorf("checkout: %w", err)
	assert.Equal(t, KindOutOfStock, KindOf(wrapped))

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindStoreUnavailable, cause, "fetching item")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindStoreUnavailable, KindOf(err))
	assert.Equal(t, "fetching item: connection reset", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindForbidden, http.StatusForbidden},
		{KindOutOfStock, http.StatusBadRequest},
		{KindInvalidTransition, http.StatusBadRequest},
		{KindEmptyCart, http.StatusBadRequest},
		{KindStoreUnavailable, http.StatusInternalServerError},
		{KindUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.kind.HTTPStatus())
	}
}
