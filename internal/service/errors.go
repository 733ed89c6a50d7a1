package service

import (
	"errors"
	"strings"
)

// Kind classifies a business outcome so the transport can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindUnauthenticated
	KindConflict
)

// Client-facing messages. Existing clients branch on this text.
const (
	MsgMovieNotFound          = "Movie not found"
	MsgCommentNotFound        = "Comment not found"
	MsgUserNotFound           = "User not found"
	MsgActionForbidden        = "Action Forbidden"
	MsgUnauthorizedUpdate     = "Unauthorized to update this comment"
	MsgUnauthorizedDelete     = "Unauthorized to delete this comment"
	MsgAuthRequired           = "Failed. No Token"
	MsgCommentRequired        = "Comment text is required"
	MsgInvalidEmail           = "Invalid email format"
	MsgPasswordTooShort       = "Password must be at least 8 characters"
	MsgMobileInvalid          = "Mobile number is invalid"
	MsgEmailExists            = "Email Already Exists"
	MsgIncorrectPassword      = "Incorrect password"
	MsgConcurrentModification = "Movie was modified concurrently, retry"
)

type Error struct {
	Kind    Kind
	Message string
	// Fields lists the offending input fields for validation errors.
	Fields []string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind and message, so sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

var (
	ErrMovieNotFound      = &Error{Kind: KindNotFound, Message: MsgMovieNotFound}
	ErrCommentNotFound    = &Error{Kind: KindNotFound, Message: MsgCommentNotFound}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: MsgUserNotFound}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: MsgActionForbidden}
	ErrUnauthorizedUpdate = &Error{Kind: KindForbidden, Message: MsgUnauthorizedUpdate}
	ErrUnauthorizedDelete = &Error{Kind: KindForbidden, Message: MsgUnauthorizedDelete}
	ErrAuthRequired       = &Error{Kind: KindUnauthenticated, Message: MsgAuthRequired}
	ErrIncorrectPassword  = &Error{Kind: KindUnauthenticated, Message: MsgIncorrectPassword}
	ErrEmailExists        = &Error{Kind: KindConflict, Message: MsgEmailExists}
	ErrConcurrentUpdate   = &Error{Kind: KindConflict, Message: MsgConcurrentModification}
)

func validationError(fields []string, messages []string) *Error {
	return &Error{Kind: KindValidation, Message: strings.Join(messages, ", "), Fields: fields}
}

// KindOf returns the kind of err, KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
