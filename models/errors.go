package models

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The engine only produces the kinds below; the
// API layer decides how each one is rendered.
type Kind string

const (
	KindTimeout          Kind = "UPSTREAM_TIMEOUT"
	KindNetwork          Kind = "NETWORK_ERROR"
	KindNotFound         Kind = "NOT_FOUND"
	KindServerError      Kind = "UPSTREAM_SERVER_ERROR"
	KindUnexpectedStatus Kind = "UNEXPECTED_STATUS"
	KindParsing          Kind = "PARSING_FAILED"
	KindInvalidInput     Kind = "INVALID_INPUT"
	KindRateLimited      Kind = "RATE_LIMITED"
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindInternal         Kind = "INTERNAL_ERROR"
)

// Retryable reports whether the fetcher may try again after this kind.
func (k Kind) Retryable() bool {
	switch k {
	case KindTimeout, KindNetwork, KindServerError:
		return true
	}
	return false
}

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
	Details string `json:"details,omitempty"`
}

// ExtractError is the internal error type carrying a failure kind, the URL
// being worked on and a short diagnostic of what was expected.
// It implements the error interface and supports error wrapping via Unwrap.
type ExtractError struct {
	Kind    Kind
	Message string
	URL     string
	Details string
	Status  int   // HTTP status for ServerError / UnexpectedStatus
	Err     error // wrapped original error
}

func (e *ExtractError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ExtractError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: string(e.Kind), Message: e.Message, URL: e.URL, Details: e.Details}
}

// NewError creates a new ExtractError.
func NewError(kind Kind, message, url string, err error) *ExtractError {
	return &ExtractError{Kind: kind, Message: message, URL: url, Err: err}
}

// NewParsingError reports a page whose embedded payload could not be used.
func NewParsingError(message, url, details string) *ExtractError {
	return &ExtractError{Kind: KindParsing, Message: message, URL: url, Details: details}
}

// NewStatusError reports an HTTP status the fetcher gave up on.
func NewStatusError(kind Kind, url string, status int) *ExtractError {
	return &ExtractError{
		Kind:    kind,
		Message: fmt.Sprintf("upstream returned HTTP %d", status),
		URL:     url,
		Status:  status,
	}
}

// KindOf extracts the Kind from err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var e *ExtractError
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an ExtractError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// AsExtractError returns err as an *ExtractError, wrapping foreign errors
// as KindInternal.
func AsExtractError(err error) *ExtractError {
	var e *ExtractError
	if errors.As(err, &e) {
		return e
	}
	return NewError(KindInternal, err.Error(), "", err)
}
