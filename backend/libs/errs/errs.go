// Package errs provides typed domain errors shared by the services.
package errs

import (
	"errors"
	"net/http"
	"strings"
)

// Kind is a machine-readable error category.
type Kind string

const (
	KindUnknown              Kind = "UNKNOWN"
	KindInvalidState         Kind = "INVALID_STATE"
	KindInvalidInput         Kind = "INVALID_INPUT"
	KindNotFound             Kind = "NOT_FOUND"
	KindPricingNotConfigured Kind = "PRICING_NOT_CONFIGURED"
	KindPricingIncomplete    Kind = "PRICING_INCOMPLETE"
	KindAmountMismatch       Kind = "AMOUNT_MISMATCH"
	KindNotAuthorized        Kind = "NOT_AUTHORIZED"
	KindInvalidCredential    Kind = "INVALID_CREDENTIAL"
	KindExpired              Kind = "EXPIRED"
	KindAlreadyImpersonating Kind = "ALREADY_IMPERSONATING"
	KindConflict             Kind = "CONFLICT"
)

// Error is a domain error carrying its kind and the operation that produced it.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// E builds a new error of the given kind.
func E(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap attaches a kind to an underlying error. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Message != "" && e.Err != nil:
		b.WriteString(e.Message)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(strings.ToLower(strings.ReplaceAll(string(e.Kind), "_", " ")))
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the outermost kind from any error, KindUnknown otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns a caller-facing message for err, hiding unknown internals.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal error"
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error()
}

// HTTPStatus maps a kind to the status code used on the wire.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindInvalidCredential, KindExpired:
		return http.StatusUnauthorized
	case KindNotAuthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindAmountMismatch, KindAlreadyImpersonating, KindConflict:
		return http.StatusConflict
	case KindPricingNotConfigured:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// FromHTTPStatus recovers a kind from an upstream response, preferring the explicit code.
func FromHTTPStatus(status int, code string) Kind {
	if code != "" {
		return Kind(code)
	}
	switch status {
	case http.StatusBadRequest:
		return KindInvalidInput
	case http.StatusUnauthorized:
		return KindInvalidCredential
	case http.StatusForbidden:
		return KindNotAuthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnprocessableEntity:
		return KindPricingNotConfigured
	default:
		return KindUnknown
	}
}
