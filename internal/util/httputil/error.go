// Package httputil contains the error values and request helpers shared by the HTTP handlers.
package httputil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error is an error which is reported to the client with the given status code.
type Error struct {
	code     int
	message  string
	location string
}

func (e *Error) Error() string {
	return fmt.Sprintf("http %v: %v", e.code, e.message)
}

func (e *Error) Code() int       { return e.code }
func (e *Error) Message() string { return e.message }

func (e *Error) IsRedirect() bool {
	return e.location != ""
}

func (e *Error) ApplyHeaders(w http.ResponseWriter) {
	if e.location != "" {
		w.Header().Set("Location", e.location)
	}
}

// MakeError returns an *Error. Empty message is replaced with the status text.
func MakeError(code int, message string) error {
	if message == "" {
		message = http.StatusText(code)
	}
	return &Error{code: code, message: message}
}

// MakeRedirectError returns an *Error which redirects to location. Non-3xx codes produce a
// plain error without the location.
func MakeRedirectError(code int, message string, location string) error {
	if code < 300 || code > 399 {
		return MakeError(code, message)
	}
	return &Error{code: code, message: message, location: location}
}

// WriteErrorResponse writes err as a plain text response. The details of errors other than
// *Error are not shown to the client.
func WriteErrorResponse(err error, w http.ResponseWriter) error {
	var httpErr *Error
	if !errors.As(err, &httpErr) {
		httpErr = &Error{code: http.StatusInternalServerError, message: "internal server error"}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	httpErr.ApplyHeaders(w)
	w.WriteHeader(httpErr.code)
	if _, err := io.WriteString(w, httpErr.message+"\n"); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
