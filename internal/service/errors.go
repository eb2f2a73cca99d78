package service

import (
	"errors"
	"net/http"
)

// Error is the caller-visible failure contract: an HTTP-status-equivalent
// code and a message. Everything a handler surfaces goes through this type;
// anything else renders as a generic internal error.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewValidation(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message}
}

// NewInvalid flags a token that is expired or already used. Same wire code
// as validation failures, kept separate at call sites for readability.
func NewInvalid(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message}
}

func NewUnauthenticated(message string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Code: http.StatusForbidden, Message: message}
}

func NewNotFound(message string) *Error {
	return &Error{Code: http.StatusNotFound, Message: message}
}

func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
