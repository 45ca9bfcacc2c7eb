// Package entities contains core business entities.
package entities

import "time"

// User is a registered account. PasswordHash never leaves the service.
type User struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string
	AvatarURL     *string
	Bio           *string
	Timezone      string
	Language      string
	Theme         string
	Notifications map[string]any
	Privacy       map[string]any
	Location      *string
	JobTitle      *string
	Company       *string
	Website       *string
	Phone         *string
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserBrief is the public projection used in user listings.
type UserBrief struct {
	ID        int64
	Name      string
	Email     string
	AvatarURL *string
	CreatedAt time.Time
}

// Registration is the raw sign-up input.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// NewUser holds registration input after hashing.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
}

// ProfilePatch lists the whitelisted profile fields; nil means untouched.
type ProfilePatch struct {
	Name          *string
	Email         *string
	Bio           *string
	Timezone      *string
	Language      *string
	Theme         *string
	Notifications map[string]any
	Privacy       map[string]any
	Location      *string
	JobTitle      *string
	Company       *string
	Website       *string
	Phone         *string
	// AvatarURL distinguishes "absent" from an explicit null.
	AvatarURL Optional[string]
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Bio == nil && p.Timezone == nil &&
		p.Language == nil && p.Theme == nil && p.Notifications == nil && p.Privacy == nil &&
		p.Location == nil && p.JobTitle == nil && p.Company == nil && p.Website == nil &&
		p.Phone == nil && !p.AvatarURL.Set
}

// Optional is a tri-state value: absent, explicit null, or a value.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: &v} }

// Null returns a set Optional holding an explicit null.
func Null[T any]() Optional[T] { return Optional[T]{Set: true} }
