package service

import (
	"errors"

	"gorm.io/gorm"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is;
// anything else is a storage failure.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error is a client-facing error: Msg is returned to the caller as is.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func badRequest(msg string) error   { return &Error{Kind: ErrBadRequest, Msg: msg} }
func unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Msg: msg} }
func conflict(msg string) error     { return &Error{Kind: ErrConflict, Msg: msg} }
func notFound(what string) error    { return &Error{Kind: ErrNotFound, Msg: what + " not found"} }
func forbidden() error              { return &Error{Kind: ErrForbidden, Msg: "Forbidden"} }

// notFoundOr turns gorm.ErrRecordNotFound into a not-found error for what
// and passes any other error through.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what)
	}
	return err
}
