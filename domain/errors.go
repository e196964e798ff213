package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrProfileNotFound      = NewError(ErrCodeNotFound, "profile not found")
	ErrTeamNotFound         = NewError(ErrCodeNotFound, "team not found")
	ErrMembershipNotFound   = NewError(ErrCodeNotFound, "membership not found")
	ErrGoalNotFound         = NewError(ErrCodeNotFound, "goal not found")
	ErrCategoryNotFound     = NewError(ErrCodeNotFound, "category not found")
	ErrPersonalGoalNotFound = NewError(ErrCodeNotFound, "personal goal not found")
	ErrTaskNotFound         = NewError(ErrCodeNotFound, "task not found")
	ErrNoteNotFound         = NewError(ErrCodeNotFound, "note not found")
	ErrReportNotFound       = NewError(ErrCodeNotFound, "report not found")
	ErrInvitationNotFound   = NewError(ErrCodeNotFound, "invitation not found")
	ErrSessionNotFound      = NewError(ErrCodeNotFound, "session not found")
	ErrEmailTaken           = NewError(ErrCodeConflict, "an account with this email already exists")
	ErrNotTeamMember        = NewError(ErrCodeForbidden, "not a member of this team")
	ErrNotTeamLeader        = NewError(ErrCodeForbidden, "leader role required")
	ErrUnauthorized         = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
