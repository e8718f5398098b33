// Package apperr defines the closed set of error kinds the pipeline can
// produce and their mapping to HTTP statuses.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	// KindInternal is the zero value: anything that is not one of the
	// declared failure modes below.
	KindInternal Kind = iota
	// KindValidation covers bad or missing caller input.
	KindValidation
	// KindExtraction covers documents that are unreadable or too sparse
	// to yield usable text.
	KindExtraction
	// KindNetwork covers outbound fetch failures during website ingestion.
	KindNetwork
	// KindProvider covers misconfigured or rejected LLM backend calls.
	KindProvider
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindExtraction:
		return "extraction"
	case KindNetwork:
		return "network"
	case KindProvider:
		return "provider"
	default:
		return "internal"
	}
}

// Error carries a kind plus a message safe to surface to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-visible message of err, or fallback when err
// carries no safe message of its own.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// HTTPStatus maps an error to the response status per the API contract:
// caller mistakes and unreadable documents are 4xx, backend
// misconfiguration and everything unexpected are 5xx.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindExtraction, KindNetwork:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
