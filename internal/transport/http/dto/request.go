// Package dto holds the JSON shapes exchanged over HTTP.
package dto

import (
	"encoding/json"
	"time"
)

// Nullable records whether a JSON key was present and whether it was null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only invoked for keys present in the payload.
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// RegisterRequest is the sign-up body.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// LoginRequest is the sign-in body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=100"`
}

// PasswordChangeRequest is the password change body.
type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword" validate:"required,min=1,max=100"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=100"`
}

// ProfileUpdateRequest lists the editable profile fields. Unknown keys are dropped.
type ProfileUpdateRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=2,max=100"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	Bio           *string          `json:"bio" validate:"omitempty,max=500"`
	Timezone      *string          `json:"timezone" validate:"omitempty,max=50"`
	Language      *string          `json:"language" validate:"omitempty,max=10"`
	Theme         *string          `json:"theme" validate:"omitempty,max=20"`
	Notifications map[string]any   `json:"notifications"`
	Privacy       map[string]any   `json:"privacy"`
	Location      *string          `json:"location" validate:"omitempty,max=100"`
	JobTitle      *string          `json:"job_title" validate:"omitempty,max=100"`
	Company       *string          `json:"company" validate:"omitempty,max=100"`
	Website       *string          `json:"website" validate:"omitempty,url,max=200"`
	Phone         *string          `json:"phone" validate:"omitempty,max=20"`
	AvatarURL     Nullable[string] `json:"avatar_url"`
}

// TeamRequest is the team create and update body.
type TeamRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// AddMemberRequest is the add-member body. UserID accepts a number or a numeric string.
type AddMemberRequest struct {
	UserID any    `json:"userId"`
	Role   string `json:"role"`
}

// UpdateRoleRequest is the role change body.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// TaskCreateRequest is the task creation body.
type TaskCreateRequest struct {
	Title       string           `json:"title" validate:"required,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Status      string           `json:"status" validate:"omitempty,oneof=todo in_progress in_review completed"`
	Priority    string           `json:"priority" validate:"omitempty,oneof=low medium high"`
	TeamID      int64            `json:"team_id" validate:"required,gt=0"`
	AssignedTo  any              `json:"assigned_to"`
	DueDate     Nullable[string] `json:"due_date"`
}

// TaskUpdateRequest is the task update body. team_id is not accepted.
type TaskUpdateRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Status      *string          `json:"status" validate:"omitempty,oneof=todo in_progress in_review completed"`
	Priority    *string          `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  Nullable[any]    `json:"assigned_to"`
	DueDate     Nullable[string] `json:"due_date"`
}

// TaskQuery carries the task listing query string.
type TaskQuery struct {
	Team     int64  `query:"team" validate:"omitempty,gt=0"`
	Assignee int64  `query:"assignee" validate:"omitempty,gt=0"`
	UserID   int64  `query:"userId" validate:"omitempty,gt=0"`
	Status   string `query:"status" validate:"omitempty,oneof=todo in_progress in_review completed"`
	Priority string `query:"priority" validate:"omitempty,oneof=low medium high"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

// NotificationQuery carries the notification listing query string.
type NotificationQuery struct {
	Filter string `query:"filter" validate:"omitempty,oneof=all unread read"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

// dueDateLayouts are the accepted ISO 8601 forms for due dates.
var dueDateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDueDate parses an ISO 8601 date or date-time.
func ParseDueDate(s string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
