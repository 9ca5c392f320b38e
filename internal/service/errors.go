package service

import (
	"errors"
	"fmt"
)

// Kind classifies service failures; handlers translate kinds into HTTP statuses.
type Kind int

const (
	KindStore Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindSprintClosed
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation error"
	case KindSprintClosed:
		return "sprint closed"
	case KindConflict:
		return "conflict"
	default:
		return "store failure"
	}
}

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
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the bare sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrSprintClosed = &Error{Kind: KindSprintClosed}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrStore        = &Error{Kind: KindStore}
)

func unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func forbidden(msg string) error    { return &Error{Kind: KindForbidden, Msg: msg} }
func notFound(msg string) error     { return &Error{Kind: KindNotFound, Msg: msg} }
func invalid(msg string) error      { return &Error{Kind: KindValidation, Msg: msg} }
func conflict(msg string) error     { return &Error{Kind: KindConflict, Msg: msg} }

func storeFailure(op string, err error) error {
	return &Error{Kind: KindStore, Msg: op, Err: err}
}

// KindOf reports the kind of err, treating foreign errors as store failures.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStore
}
