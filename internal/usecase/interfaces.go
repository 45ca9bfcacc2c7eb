package usecase

import (
	"context"

	"team-task-manager/internal/entities"
)

// AuthUsecaseInterface abstracts registration, login and self-service account operations.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, in entities.Registration) (*entities.User, error)
	Login(ctx context.Context, email, password string) (*entities.User, error)
	CurrentUser(ctx context.Context, userID int64) (*entities.User, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
	UpdateProfile(ctx context.Context, userID int64, patch entities.ProfilePatch) (*entities.User, error)
}

// UserUsecaseInterface abstracts user directory operations.
type UserUsecaseInterface interface {
	Users(ctx context.Context, query string) ([]entities.UserBrief, error)
	User(ctx context.Context, id int64) (*entities.User, error)
	UpdateUser(ctx context.Context, callerID, targetID int64, patch entities.ProfilePatch) (*entities.User, error)
	UserTasks(ctx context.Context, callerID, targetID int64, filter entities.TaskFilter) ([]entities.Task, error)
}

// TeamUsecaseInterface abstracts team and membership operations.
type TeamUsecaseInterface interface {
	CreateTeam(ctx context.Context, callerID int64, in entities.TeamInput) (*entities.Team, error)
	Teams(ctx context.Context, callerID int64) ([]entities.TeamWithRole, error)
	Team(ctx context.Context, callerID, teamID int64) (*entities.Team, error)
	UpdateTeam(ctx context.Context, callerID, teamID int64, in entities.TeamInput) (*entities.Team, error)
	DeleteTeam(ctx context.Context, callerID, teamID int64) error
	Members(ctx context.Context, callerID, teamID int64) ([]entities.TeamMember, error)
	AddMember(ctx context.Context, callerID, teamID, userID int64, role entities.Role) (*entities.Membership, error)
	RemoveMember(ctx context.Context, callerID, teamID, userID int64) error
	UpdateMemberRole(ctx context.Context, callerID, teamID, userID int64, role entities.Role) (*entities.Membership, error)
}

// TaskUsecaseInterface abstracts task operations.
type TaskUsecaseInterface interface {
	CreateTask(ctx context.Context, callerID int64, in entities.NewTask) (*entities.Task, error)
	Tasks(ctx context.Context, callerID int64, filter entities.TaskFilter) ([]entities.Task, error)
	Task(ctx context.Context, callerID, taskID int64) (*entities.Task, error)
	UpdateTask(ctx context.Context, actor entities.User, taskID int64, patch entities.TaskPatch) (*entities.Task, error)
	DeleteTask(ctx context.Context, callerID, taskID int64) error
	TaskStats(ctx context.Context, callerID int64) (entities.TaskStats, error)
}

// NotificationUsecaseInterface abstracts recipient-scoped notification operations.
type NotificationUsecaseInterface interface {
	Notifications(ctx context.Context, userID int64, q entities.NotificationQuery) ([]entities.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}
