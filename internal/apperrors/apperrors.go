// Package apperrors holds the error kinds shared by stores, services and handlers.
//
// Stores return these kinds (wrapped with the failing operation) so services can
// decide what to surface and handlers can pick a status code with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrPersistence  = errors.New("persistence failure")
	ErrNotification = errors.New("notification failure")
)

// Error ties a kind to the operation that failed and, optionally, its cause.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Validation(op, msg string) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: msg}
}

func NotFound(op, msg string) error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: msg}
}

func Conflict(op, msg string) error {
	return &Error{Kind: ErrConflict, Op: op, Msg: msg}
}

func Unauthorized(op, msg string) error {
	return &Error{Kind: ErrUnauthorized, Op: op, Msg: msg}
}

func Persistence(op string, err error) error {
	return &Error{Kind: ErrPersistence, Op: op, Err: err}
}

func Notification(op string, err error) error {
	return &Error{Kind: ErrNotification, Op: op, Err: err}
}

// Message returns the human readable part of err without the operation prefix,
// falling back to err.Error() for foreign errors.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Msg != "" {
			return appErr.Msg
		}
		return appErr.Kind.Error()
	}
	return err.Error()
}
