package order

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrSimulatedPaymentFailure is reported when a played-back timeline ends in
// the failed phase.
var ErrSimulatedPaymentFailure = errors.New("simulated payment failure")

// ValidationError means the caller's input is structurally invalid or breaks a
// business rule. Not retryable.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError means a referenced store or product is not in the catalog.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// MalformedRequestError wraps a body that could not be decoded at all.
type MalformedRequestError struct {
	Err error
}

func (e *MalformedRequestError) Error() string {
	if e.Err == nil {
		return "invalid request body"
	}
	return "invalid request body: " + e.Err.Error()
}

func (e *MalformedRequestError) Unwrap() error { return e.Err }

var (
	errMissingFields     = &ValidationError{Reason: "missing required fields"}
	errUnsupportedMethod = &ValidationError{Reason: "payment method not supported"}
	errStoreNotFound     = &NotFoundError{Resource: "store"}
	errProductNotFound   = &NotFoundError{Resource: "product"}
)

// HTTPStatus maps an error from this package onto a response status.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		malformed  *MalformedRequestError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &malformed):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the short message shown to shoppers. Internal errors never
// leak their detail.
func PublicMessage(err error) string {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		malformed  *MalformedRequestError
	)
	switch {
	case errors.As(err, &malformed):
		return "Invalid request body"
	case errors.As(err, &validation):
		return capitalize(validation.Error())
	case errors.As(err, &notFound):
		return capitalize(notFound.Error())
	default:
		return "Internal server error"
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(s[size:])
	return b.String()
}
