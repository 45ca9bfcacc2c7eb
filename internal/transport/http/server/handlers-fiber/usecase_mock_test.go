package handlers_fiber

import (
	"context"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/usecase"

	"github.com/stretchr/testify/mock"
)

type ucMock struct{ mock.Mock }

var _ usecase.InterfaceUsecase = (*ucMock)(nil)

func userResult(args mock.Arguments) (*entities.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *ucMock) Register(ctx context.Context, in entities.Registration) (*entities.User, error) {
	return userResult(m.Called(ctx, in))
}

func (m *ucMock) Login(ctx context.Context, email, password string) (*entities.User, error) {
	return userResult(m.Called(ctx, email, password))
}

func (m *ucMock) CurrentUser(ctx context.Context, userID int64) (*entities.User, error) {
	return userResult(m.Called(ctx, userID))
}

func (m *ucMock) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	return m.Called(ctx, userID, current, next).Error(0)
}

func (m *ucMock) UpdateProfile(ctx context.Context, userID int64, patch entities.ProfilePatch) (*entities.User, error) {
	return userResult(m.Called(ctx, userID, patch))
}

func (m *ucMock) Users(ctx context.Context, query string) ([]entities.UserBrief, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.UserBrief), args.Error(1)
}

func (m *ucMock) User(ctx context.Context, id int64) (*entities.User, error) {
	return userResult(m.Called(ctx, id))
}

func (m *ucMock) UpdateUser(ctx context.Context, callerID, targetID int64, patch entities.ProfilePatch) (*entities.User, error) {
	return userResult(m.Called(ctx, callerID, targetID, patch))
}

func (m *ucMock) UserTasks(ctx context.Context, callerID, targetID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	args := m.Called(ctx, callerID, targetID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Task), args.Error(1)
}

func (m *ucMock) CreateTeam(ctx context.Context, callerID int64, in entities.TeamInput) (*entities.Team, error) {
	args := m.Called(ctx, callerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *ucMock) Teams(ctx context.Context, callerID int64) ([]entities.TeamWithRole, error) {
	args := m.Called(ctx, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.TeamWithRole), args.Error(1)
}

func (m *ucMock) Team(ctx context.Context, callerID, teamID int64) (*entities.Team, error) {
	args := m.Called(ctx, callerID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *ucMock) UpdateTeam(ctx context.Context, callerID, teamID int64, in entities.TeamInput) (*entities.Team, error) {
	args := m.Called(ctx, callerID, teamID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *ucMock) DeleteTeam(ctx context.Context, callerID, teamID int64) error {
	return m.Called(ctx, callerID, teamID).Error(0)
}

func (m *ucMock) Members(ctx context.Context, callerID, teamID int64) ([]entities.TeamMember, error) {
	args := m.Called(ctx, callerID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.TeamMember), args.Error(1)
}

func (m *ucMock) AddMember(ctx context.Context, callerID, teamID, userID int64, role entities.Role) (*entities.Membership, error) {
	args := m.Called(ctx, callerID, teamID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Membership), args.Error(1)
}

func (m *ucMock) RemoveMember(ctx context.Context, callerID, teamID, userID int64) error {
	return m.Called(ctx, callerID, teamID, userID).Error(0)
}

func (m *ucMock) UpdateMemberRole(ctx context.Context, callerID, teamID, userID int64, role entities.Role) (*entities.Membership, error) {
	args := m.Called(ctx, callerID, teamID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Membership), args.Error(1)
}

func (m *ucMock) CreateTask(ctx context.Context, callerID int64, in entities.NewTask) (*entities.Task, error) {
	args := m.Called(ctx, callerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}

func (m *ucMock) Tasks(ctx context.Context, callerID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	args := m.Called(ctx, callerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Task), args.Error(1)
}

func (m *ucMock) Task(ctx context.Context, callerID, taskID int64) (*entities.Task, error) {
	args := m.Called(ctx, callerID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}

func (m *ucMock) UpdateTask(ctx context.Context, actor entities.User, taskID int64, patch entities.TaskPatch) (*entities.Task, error) {
	args := m.Called(ctx, actor, taskID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}

func (m *ucMock) DeleteTask(ctx context.Context, callerID, taskID int64) error {
	return m.Called(ctx, callerID, taskID).Error(0)
}

func (m *ucMock) TaskStats(ctx context.Context, callerID int64) (entities.TaskStats, error) {
	args := m.Called(ctx, callerID)
	return args.Get(0).(entities.TaskStats), args.Error(1)
}

func (m *ucMock) Notifications(ctx context.Context, userID int64, q entities.NotificationQuery) ([]entities.Notification, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Notification), args.Error(1)
}

func (m *ucMock) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *ucMock) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ucMock) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
