package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by *Error and by transport failures.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
)

// Error is a non-2xx response from the API.
type Error struct {
	Method     string
	Path       string
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Unwrap maps the status code onto a sentinel so callers can use errors.Is.
func (e *Error) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return ErrConflict
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrServer
	}
	return nil
}

// ErrorKind classifies failures by how the interface should react to them.
type ErrorKind int

const (
	// KindUnknown covers network failures and anything unclassified.
	KindUnknown ErrorKind = iota
	// KindAuth means the session is no longer valid.
	KindAuth
	// KindValidation means the server rejected the input; its message is shown inline.
	KindValidation
	// KindNotFound covers missing or conflicting records on mutation.
	KindNotFound
	// KindNetwork means the server could not be reached.
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	case KindNetwork:
		return "network"
	}
	return "unknown"
}

// Kind classifies err.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrUnauthorized):
		return KindAuth
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return KindNotFound
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	}
	return KindUnknown
}

// UserMessage returns the text to show the user for err. Validation failures
// carry the server's message; everything else gets fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if Kind(err) == KindValidation && errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// ServerMessage returns the server-provided message carried by err, if any.
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
