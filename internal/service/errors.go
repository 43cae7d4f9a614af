package service

import (
	"errors"
	"fmt"
)

// Kind classifies a failure independently of transport.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a classified failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind and message, so wrapped sentinels
// compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation builds a KindValidation error.
func Validation(message string) *Error {
	return newError(KindValidation, message)
}

// KindOf reports the kind of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrUserNotFound           = newError(KindNotFound, "User not found")
	ErrUserExists             = newError(KindConflict, "User already exists with this email.")
	ErrAlreadyVerified        = newError(KindValidation, "Email is already verified")
	ErrInvalidOTP             = newError(KindValidation, "Invalid OTP or email")
	ErrOTPExpired             = newError(KindValidation, "OTP expired")
	ErrEmailNotVerified       = newError(KindForbidden, "Email not verified")
	ErrResetNotAllowed        = newError(KindNotFound, "User not found or email not verified")
	ErrInvalidCredentials     = newError(KindUnauthorized, "Invalid credentials")
	ErrInvalidResetToken      = newError(KindValidation, "Invalid or expired token")
	ErrResetEmailMismatch     = newError(KindForbidden, "Invalid token")
	ErrNoTransactionsToExport = newError(KindNotFound, "No transactions found to export")
	ErrMailNotConfigured      = newError(KindInternal, "Mail test recipient is not configured")
)
