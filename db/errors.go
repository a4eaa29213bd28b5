package db

import "errors"

// ErrorKind classifies repository failures so the HTTP layer can map
// them to a status code without string matching.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindInvalidState ErrorKind = "invalid_state"
	KindConflict     ErrorKind = "conflict"
	KindNotFound     ErrorKind = "not_found"
)

type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func validation(msg string) *Error   { return &Error{Kind: KindValidation, Msg: msg} }
func invalidState(msg string) *Error { return &Error{Kind: KindInvalidState, Msg: msg} }
func conflict(msg string) *Error     { return &Error{Kind: KindConflict, Msg: msg} }
func notFound(msg string) *Error     { return &Error{Kind: KindNotFound, Msg: msg} }

// ValidationError builds a validation-kind error for callers outside
// this package.
func ValidationError(msg string) error { return validation(msg) }

// KindOf returns the error's kind, or "" when the error is not ours.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
