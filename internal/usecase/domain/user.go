package domain

import (
	"context"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/policy"
)

// Users lists users matching query by name or email.
func (u *Usecase) Users(ctx context.Context, query string) ([]entities.UserBrief, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	return u.repo.ListUsers(ctx, query)
}

// User returns a single user.
func (u *Usecase) User(ctx context.Context, id int64) (*entities.User, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	return u.repo.GetUserByID(ctx, id)
}

// UpdateUser updates targetID's profile; callers may only edit themselves.
func (u *Usecase) UpdateUser(ctx context.Context, callerID, targetID int64, patch entities.ProfilePatch) (*entities.User, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if !policy.CanUpdateProfile(callerID, targetID) {
		return nil, entities.ErrProfileDenied
	}
	return u.updateProfile(ctx, targetID, patch)
}

// UserTasks lists the tasks assigned to targetID that the caller can see.
func (u *Usecase) UserTasks(ctx context.Context, callerID, targetID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if _, err := u.repo.GetUserByID(ctx, targetID); err != nil {
		return nil, err
	}
	filter.RequestedUserID = &targetID
	return u.tasks(ctx, callerID, filter)
}
