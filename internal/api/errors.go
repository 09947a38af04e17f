package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies what went wrong with a request.
type Kind int

const (
	// KindTransport covers network-level failures: the request never got a
	// usable HTTP response (DNS, refused connection, timeout).
	KindTransport Kind = iota + 1
	// KindAPI is a non-2xx response from the backend; Message carries the
	// server's error field when it sent one.
	KindAPI
	// KindDecode means the response arrived but its body was not the JSON
	// we expected.
	KindDecode
)

// Error is the one error type the client returns. Callers that care about
// the class match with errors.As; everyone else just prints it.
type Error struct {
	Kind     Kind
	Status   int    // HTTP status, 0 for transport failures
	Message  string // human readable, server-provided when available
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
	case KindAPI:
		if e.Message != "" {
			return e.Message
		}
		return fmt.Sprintf("%s: %s", e.Endpoint, http.StatusText(e.Status))
	case KindDecode:
		return fmt.Sprintf("unexpected response from %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s: unknown error", e.Endpoint)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindTransport
}

// StatusOf returns the HTTP status behind err, or 0 when there is none.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

func transportErr(endpoint string, err error) *Error {
	return &Error{Kind: KindTransport, Endpoint: endpoint, Err: err}
}

func decodeErr(endpoint string, status int, err error) *Error {
	return &Error{Kind: KindDecode, Status: status, Endpoint: endpoint, Err: err}
}
