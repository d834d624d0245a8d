// Package apperr defines the error taxonomy shared by all domain services:
// validation failures, missing entities, referential-integrity faults, and
// persistence failures. Handlers return these errors unchanged; the HTTP
// error handler maps them to status codes and a generic JSON body.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and logging.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindIntegrity   Kind = "integrity"
	KindPersistence Kind = "persistence"
)

// Error is a classified application error. Message is shown to clients
// only for validation and not-found kinds; server-fault kinds render a
// generic body and keep Message for the log.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Validation reports malformed or missing input. Maps to 400.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing requested entity. Maps to 404.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Integrity reports a dangling reference discovered during a joined read.
// The request is not at fault; retrying will not help. Maps to 500.
func Integrity(format string, args ...interface{}) *Error {
	return &Error{Kind: KindIntegrity, Message: fmt.Sprintf(format, args...)}
}

// Persistence wraps a storage failure with a client-safe message. Maps to 500.
func Persistence(message string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Cause: cause}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Status returns the HTTP status for err. Unclassified errors map to 500.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message safe to expose for err. Only
// client-fault kinds carry their message to the response; integrity and
// persistence details (row ids, storage errors) stay in the log.
func ClientMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case KindValidation, KindNotFound:
			return ae.Message
		}
	}
	return "internal server error"
}
