// Package apperr defines the caller-facing error kinds shared by the
// services and mapped to HTTP statuses by the controllers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindOutOfStock
	KindUnavailable
	KindInsufficientStock
	KindQuantityLimitExceeded
	KindInvalidQuantity
	KindCrossSellerCart
	KindMultiSellerCart
	KindEmptyCart
	KindIncompleteCheckoutInfo
	KindForbidden
	KindInvalidTransition
	KindInvalidInput
	KindStoreUnavailable
)

// Error carries a kind alongside the message, so controllers can pick a
// status code without string matching.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// HTTPStatus maps a kind to the status the HTTP layer should respond with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindStoreUnavailable, KindUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
