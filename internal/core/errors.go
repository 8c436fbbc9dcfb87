package core

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable classification of a service error.
type ErrorKind string

const (
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindNotVerified     ErrorKind = "not_verified"
	KindAccessDenied    ErrorKind = "access_denied"
	KindValidation      ErrorKind = "validation_error"
	KindQuotaExceeded   ErrorKind = "quota_exceeded"
	KindStorageFailure  ErrorKind = "storage_failure"
)

// Error carries a kind for the API layer and a message suitable for direct
// display. Services return these across the boundary instead of panicking.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf extracts the kind from an error chain. Unknown errors are
// classified as storage failures, the only unstructured failure mode here.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorageFailure
}

func errUnauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func errNotVerified() *Error {
	return &Error{Kind: KindNotVerified, Message: "account email is not verified"}
}

// errAccessDenied is returned both when the caller does not own the bot and
// when the bot does not exist, so existence is never revealed to non-owners.
func errAccessDenied() *Error {
	return &Error{Kind: KindAccessDenied, Message: "bot not found or access denied"}
}

func errValidation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func errQuotaExceeded() *Error {
	return &Error{Kind: KindQuotaExceeded, Message: fmt.Sprintf("bot limit reached (max %d per account)", maxBotsPerUser)}
}

func errStorage(op string, cause error) *Error {
	return &Error{Kind: KindStorageFailure, Message: op + " failed", cause: cause}
}
