// Package apperr defines the service's stable error taxonomy: a machine
// code, an HTTP status, and a human message, so the server's terminal
// error handler can map any error raised by the pipeline to a response
// without inspecting its origin.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable machine-readable error code returned to clients.
type Code string

const (
	// Authentication failures (HTTP 401).
	CodeProjectKeyMissing  Code = "PROJECT_KEY_MISSING"
	CodeSignatureMissing   Code = "SIGNATURE_MISSING"
	CodeAdminTokenMissing  Code = "ADMIN_TOKEN_MISSING"
	CodeProjectNotFound    Code = "PROJECT_NOT_FOUND"
	CodeSignatureInvalid   Code = "SIGNATURE_INVALID"
	CodeAdminTokenInvalid  Code = "ADMIN_TOKEN_INVALID"
	CodeDatabaseError      Code = "DATABASE_ERROR"

	// Validation failures (HTTP 400).
	CodeProjectRequired  Code = "PROJECT_REQUIRED"
	CodeTooManyEvents    Code = "TOO_MANY_EVENTS"
	CodeInvalidEventData Code = "INVALID_EVENT_DATA"

	// Rate-limit failures (HTTP 429).
	CodeIPRateLimitExceeded      Code = "IP_RATE_LIMIT_EXCEEDED"
	CodeProjectRateLimitExceeded Code = "PROJECT_RATE_LIMIT_EXCEEDED"
	// CodeRateLimitExceeded is reserved for a generic rate-limit failure
	// not attributable to a specific tier; no code path raises it today.
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"

	// Infrastructure failures (HTTP 500).
	CodeInternalError  Code = "INTERNAL_ERROR"
	CodeDBQueryFailed  Code = "DB_QUERY_FAILED"
	// CodeDBInsertFailed is reserved for a single-row insert failure; the
	// ingestion path only ever performs bulk inserts, so it is unused
	// today but completes the taxonomy for future single-row writers.
	CodeDBInsertFailed     Code = "DB_INSERT_FAILED"
	CodeDBBulkInsertFailed Code = "DB_BULK_INSERT_FAILED"
	// CodeDBNotInitialized is reserved for a pool/migration wiring bug
	// caught before any query runs; no current code path raises it.
	CodeDBNotInitialized Code = "DB_NOT_INITIALIZED"
)

var statusByCode = map[Code]int{
	CodeProjectKeyMissing: http.StatusUnauthorized,
	CodeSignatureMissing:  http.StatusUnauthorized,
	CodeAdminTokenMissing: http.StatusUnauthorized,
	CodeProjectNotFound:   http.StatusUnauthorized,
	CodeSignatureInvalid:  http.StatusUnauthorized,
	CodeAdminTokenInvalid: http.StatusUnauthorized,
	CodeDatabaseError:     http.StatusUnauthorized,

	CodeProjectRequired:  http.StatusBadRequest,
	CodeTooManyEvents:    http.StatusBadRequest,
	CodeInvalidEventData: http.StatusBadRequest,

	CodeIPRateLimitExceeded:      http.StatusTooManyRequests,
	CodeProjectRateLimitExceeded: http.StatusTooManyRequests,
	CodeRateLimitExceeded:        http.StatusTooManyRequests,

	CodeInternalError:      http.StatusInternalServerError,
	CodeDBQueryFailed:      http.StatusInternalServerError,
	CodeDBInsertFailed:     http.StatusInternalServerError,
	CodeDBBulkInsertFailed: http.StatusInternalServerError,
	CodeDBNotInitialized:   http.StatusInternalServerError,
}

// Error is a taxonomy member: a code plus a message, optionally wrapping
// a lower-level cause that is logged but never serialised to the client.
type Error struct {
	Code       Code
	Message    string
	RetryAfter int // seconds; >0 for rate-limit errors
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status for e's code, defaulting to 500 for an
// unrecognised code (should not happen for a code minted by New).
func (e *Error) Status() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New builds an Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds an Error that carries cause for server-side logging only.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// RateLimited builds a 429 Error with a fixed 60s Retry-After.
func RateLimited(code Code, message string) *Error {
	return &Error{Code: code, Message: message, RetryAfter: 60}
}

// As extracts an *Error from err via errors.As semantics, without importing
// errors in call sites that already import apperr.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
