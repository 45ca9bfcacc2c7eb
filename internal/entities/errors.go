// Package entities contains core business entities and errors.
package entities

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated signals a request without a valid session.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden is the umbrella for authorization failures.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is the umbrella for uniqueness and integrity rule violations.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is the umbrella for missing entities.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials signals an unknown email or a password mismatch.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = wrap(ErrNotFound, "user not found")
	// ErrTeamNotFound signals missing team.
	ErrTeamNotFound = wrap(ErrNotFound, "team not found")
	// ErrTaskNotFound signals missing task.
	ErrTaskNotFound = wrap(ErrNotFound, "task not found")
	// ErrNotificationNotFound signals a missing notification or one owned by someone else.
	ErrNotificationNotFound = wrap(ErrNotFound, "notification not found")
	// ErrMemberNotFound signals the target user holds no membership in the team.
	ErrMemberNotFound = wrap(ErrNotFound, "user is not a member of this team")

	// ErrNotTeamMember signals the caller holds no membership in the team.
	ErrNotTeamMember = wrap(ErrForbidden, "not a team member")
	// ErrInsufficientPermissions signals the caller lacks admin role or ownership.
	ErrInsufficientPermissions = wrap(ErrForbidden, "insufficient permissions")
	// ErrTaskAccessDenied signals the caller may not touch the task.
	ErrTaskAccessDenied = wrap(ErrForbidden, "not authorized for this task")
	// ErrUserTasksDenied signals the caller shares no team with the requested user.
	ErrUserTasksDenied = wrap(ErrForbidden, "not authorized to view tasks for this user")
	// ErrProfileDenied signals an attempt to edit someone else's profile.
	ErrProfileDenied = wrap(ErrForbidden, "cannot update other user's profile")

	// ErrUserExists signals a registration with an email already in use.
	ErrUserExists = wrap(ErrConflict, "user already exists")
	// ErrEmailTaken signals an email already bound to another user.
	ErrEmailTaken = wrap(ErrConflict, "email already taken")
	// ErrAlreadyMember signals a duplicate membership.
	ErrAlreadyMember = wrap(ErrConflict, "user is already a member of this team")
	// ErrLastAdmin signals removal or demotion of the only admin.
	ErrLastAdmin = wrap(ErrConflict, "cannot remove the last admin from the team")
	// ErrCreatorRemoval signals an attempt to remove the team creator.
	ErrCreatorRemoval = wrap(ErrConflict, "cannot remove the team creator")

	// ErrWrongPassword signals a mismatching current password on change.
	ErrWrongPassword = wrap(ErrInvalidCredentials, "current password is incorrect")
	// ErrAssigneeNotMember signals an assignee outside the task's team.
	ErrAssigneeNotMember = wrap(ErrInvalidArgument, "assigned user is not a member of this team")
)

type kindError struct {
	kind error
	msg  string
}

func wrap(kind error, msg string) error { return &kindError{kind: kind, msg: msg} }

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Message returns the text of the innermost sentinel in err's chain, dropping
// any context added by wrapping. Errors without a sentinel keep their own text.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return err.Error()
}

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level details and matches ErrInvalidArgument.
type ValidationError struct {
	Details []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Details: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }
