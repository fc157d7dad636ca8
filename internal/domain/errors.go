package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every failure the service can report to a caller.
type Kind string

const (
	KindInvalidInput           Kind = "invalid_input"
	KindNotFound               Kind = "not_found"
	KindServiceMisconfigured   Kind = "service_misconfigured"
	KindUpstreamTimeout        Kind = "upstream_timeout"
	KindUpstreamUnavailable    Kind = "upstream_unavailable"
	KindUpstreamAuthFailure    Kind = "upstream_auth_failure"
	KindUpstreamError          Kind = "upstream_error"
	KindUpstreamBadResponse    Kind = "upstream_bad_response"
	KindUpstreamIncompleteData Kind = "upstream_incomplete_data"
	KindServiceUnavailable     Kind = "service_unavailable"
	KindInternal               Kind = "internal_error"
)

var statusByKind = map[Kind]int{
	KindInvalidInput:           http.StatusBadRequest,
	KindNotFound:               http.StatusNotFound,
	KindServiceMisconfigured:   http.StatusInternalServerError,
	KindUpstreamTimeout:        http.StatusGatewayTimeout,
	KindUpstreamUnavailable:    http.StatusBadGateway,
	KindUpstreamAuthFailure:    http.StatusBadGateway,
	KindUpstreamError:          http.StatusBadGateway,
	KindUpstreamBadResponse:    http.StatusBadGateway,
	KindUpstreamIncompleteData: http.StatusBadGateway,
	KindServiceUnavailable:     http.StatusServiceUnavailable,
	KindInternal:               http.StatusInternalServerError,
}

// StatusCode returns the HTTP status for a kind. Unknown kinds map to 500.
func StatusCode(k Kind) int {
	if s, ok := statusByKind[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is the single error type returned by services. Msg is safe to show to callers.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode is shorthand for StatusCode(e.Kind).
func (e *Error) StatusCode() int { return StatusCode(e.Kind) }

// New builds an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an error of the given kind that keeps the cause for logging.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func InvalidInput(msg string) *Error { return New(KindInvalidInput, msg) }

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func Internal(msg string, err error) *Error { return Wrap(KindInternal, msg, err) }

// As extracts a *Error from the chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// KindOf reports the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
