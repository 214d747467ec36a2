package geo

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind distinguishes a superseded request from a genuine provider
// failure. Callers branch on the kind, never on the concrete error type.
type ErrorKind int

const (
	// KindCancelled means the request's context was cancelled because a newer
	// request superseded it or its owner was torn down. Never user-visible.
	KindCancelled ErrorKind = iota
	// KindProvider covers network errors, upstream 5xx, timeouts, and
	// malformed payloads. User-visible and retryable.
	KindProvider
)

// Error is the error type for both provider calls.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsCancelled reports whether err represents a cancelled provider call.
func IsCancelled(err error) bool {
	var geoErr *Error
	if errors.As(err, &geoErr) {
		return geoErr.Kind == KindCancelled
	}
	return errors.Is(err, context.Canceled)
}

// classify wraps a transport error, separating cancellation from failure.
// A deadline expiry counts as a provider failure, not a cancellation: only an
// explicitly cancelled context marks the result as disposable.
func classify(message string, err error) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCancelled, Message: "request cancelled", Err: err}
	}
	return &Error{Kind: KindProvider, Message: message, Err: err}
}

func providerErr(message string) *Error {
	return &Error{Kind: KindProvider, Message: message}
}
