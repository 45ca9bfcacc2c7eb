// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"
	"time"

	"team-task-manager/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// UserInterface exposes user-related operations.
type UserInterface interface {
	CreateUser(ctx context.Context, u entities.NewUser) (*entities.User, error)
	GetUserByID(ctx context.Context, id int64) (*entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	UpdateProfile(ctx context.Context, id int64, patch entities.ProfilePatch) (*entities.User, error)
	UpdatePassword(ctx context.Context, id int64, digest string) error
	TouchLastLogin(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, query string) ([]entities.UserBrief, error)
}

// TeamInterface exposes team-related operations.
type TeamInterface interface {
	CreateTeam(ctx context.Context, creatorID int64, in entities.TeamInput) (*entities.Team, error)
	GetTeam(ctx context.Context, id int64) (*entities.Team, error)
	ListTeamsForUser(ctx context.Context, userID int64) ([]entities.TeamWithRole, error)
	UpdateTeam(ctx context.Context, id int64, in entities.TeamInput) (*entities.Team, error)
	DeleteTeam(ctx context.Context, id int64) error
}

// MembershipInterface exposes membership operations. Guards run under row locks
// inside the mutating transaction; adminCount is the team's current admin count.
type MembershipInterface interface {
	// GetMembership returns nil without error when the user is not a member.
	GetMembership(ctx context.Context, teamID, userID int64) (*entities.Membership, error)
	ListMembers(ctx context.Context, teamID int64) ([]entities.TeamMember, error)
	AddMember(ctx context.Context, teamID, userID int64, role entities.Role) (*entities.Membership, error)
	RemoveMember(ctx context.Context, teamID, userID int64, guard func(team entities.Team, target entities.Membership, adminCount int) error) error
	UpdateMemberRole(ctx context.Context, teamID, userID int64, role entities.Role, guard func(target entities.Membership, adminCount int) error) (*entities.Membership, error)
	SharesTeam(ctx context.Context, userA, userB int64) (bool, error)
}

// TaskInterface exposes task operations. Effects run inside the writing transaction.
type TaskInterface interface {
	CreateTask(ctx context.Context, in entities.NewTask, effects func(created entities.Task) []entities.NotificationDraft) (*entities.Task, error)
	GetTask(ctx context.Context, id int64) (*entities.Task, error)
	ListTasks(ctx context.Context, viewerID int64, filter entities.TaskFilter) ([]entities.Task, error)
	UpdateTask(ctx context.Context, id int64, patch entities.TaskPatch, effects func(before, after entities.Task) []entities.NotificationDraft) (*entities.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	TaskStats(ctx context.Context, viewerID int64) (entities.TaskStats, error)
}

// NotificationInterface exposes recipient-scoped notification operations.
type NotificationInterface interface {
	ListNotifications(ctx context.Context, userID int64, q entities.NotificationQuery) ([]entities.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

// SessionStore persists opaque session payloads. Its method set matches fiber.Storage.
type SessionStore interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
	Reset() error
	Close() error
}

// SessionInterface hands out the session store backed by the repository.
type SessionInterface interface {
	Sessions() SessionStore
}
