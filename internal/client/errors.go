package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
)

// Kind classifies a failed call
type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindConflict
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	default:
		return "server"
	}
}

// FieldError is one field level validation message from the server
type FieldError struct {
	Field   string
	Message string
}

// Error is returned by every Client method that fails
type Error struct {
	Kind    Kind
	Status  int // 0 when no response arrived
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a client Error of the given kind
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		return KindTransient
	default:
		return KindServer
	}
}

type wireError struct {
	Error  string `json:"error"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// responseError builds an Error from a non-2xx response body
func responseError(status int, body []byte) *Error {
	apiErr := &Error{Kind: kindForStatus(status), Status: status}

	var w wireError
	if err := json.Unmarshal(body, &w); err == nil {
		for _, f := range w.Errors {
			apiErr.Fields = append(apiErr.Fields, FieldError{Field: f.Field, Message: f.Message})
		}
		apiErr.Message = w.Error
	}

	if apiErr.Message == "" && len(apiErr.Fields) > 0 {
		msgs := make([]string, 0, len(apiErr.Fields))
		for _, f := range apiErr.Fields {
			msgs = append(msgs, f.Message)
		}
		apiErr.Message = strings.Join(msgs, "; ")
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// transportError wraps a request that never got a response
func transportError(err error) *Error {
	msg := "Cannot reach the server"
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()):
		msg = "Request timed out"
	case errors.Is(err, context.Canceled):
		msg = "Request canceled"
	}
	return &Error{Kind: KindTransient, Message: msg, Err: err}
}
