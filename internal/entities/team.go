// Package entities contains core business entities.
package entities

import (
	"fmt"
	"time"
)

// Role enumerates membership roles.
type Role string

const (
	// RoleAdmin manages team composition and may delete any team task.
	RoleAdmin Role = "admin"
	// RoleMember is a regular participant.
	RoleMember Role = "member"
)

// ParseRole validates a role coming from the transport layer.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleMember:
		return Role(s), nil
	}
	return "", &ValidationError{Details: []FieldError{{Field: "role", Message: "Role must be either admin or member"}}}
}

// Team groups users and owns their tasks.
type Team struct {
	ID          int64
	Name        string
	Description *string
	CreatorID   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamWithRole is a team as seen by one of its members.
type TeamWithRole struct {
	Team
	Role Role
}

// Membership links a user to a team.
type Membership struct {
	ID       int64
	UserID   int64
	TeamID   int64
	Role     Role
	JoinedAt time.Time
}

// IsAdmin reports whether the membership carries the admin role.
func (m *Membership) IsAdmin() bool {
	return m != nil && m.Role == RoleAdmin
}

// TeamMember is a member row joined with user data.
type TeamMember struct {
	UserID    int64
	Name      string
	Email     string
	AvatarURL *string
	Role      Role
	JoinedAt  time.Time
}

// TeamInput carries create/update fields for a team.
type TeamInput struct {
	Name        string
	Description *string
}

// Validate checks team field bounds.
func (t TeamInput) Validate() error {
	if t.Name == "" || len(t.Name) > 100 {
		return NewValidationError("name", fmt.Sprintf("name length must be between 1 and 100, got %d", len(t.Name)))
	}
	if t.Description != nil && len(*t.Description) > 500 {
		return NewValidationError("description", "description must be at most 500 characters")
	}
	return nil
}
