package domain

import (
	"context"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/policy"
)

// CreateTask creates a task in one of the caller's teams and notifies a foreign assignee.
func (u *Usecase) CreateTask(ctx context.Context, callerID int64, in entities.NewTask) (*entities.Task, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if in.Title == "" {
		return nil, entities.NewValidationError("title", "title is required")
	}
	in.CreatedBy = callerID

	m, err := u.repo.GetMembership(ctx, in.TeamID, callerID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateTask(m) {
		return nil, entities.ErrNotTeamMember
	}

	if in.AssignedTo == nil {
		in.AssignedTo = &callerID
	}
	if err := u.checkAssignee(ctx, in.TeamID, in.AssignedTo, &callerID); err != nil {
		return nil, err
	}

	task, err := u.repo.CreateTask(ctx, in, policy.AssignmentNotifications)
	if err != nil {
		u.log.Errorw("failed to create task", "team_id", in.TeamID, "err", err)
		return nil, err
	}
	return task, nil
}

// Tasks lists the tasks visible to the caller.
func (u *Usecase) Tasks(ctx context.Context, callerID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	return u.tasks(ctx, callerID, filter)
}

func (u *Usecase) tasks(ctx context.Context, callerID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	if filter.RequestedUserID != nil && *filter.RequestedUserID != callerID {
		shares, err := u.repo.SharesTeam(ctx, callerID, *filter.RequestedUserID)
		if err != nil {
			return nil, err
		}
		if !policy.CanViewUserTasks(callerID, *filter.RequestedUserID, shares) {
			return nil, entities.ErrUserTasksDenied
		}
	}
	return u.repo.ListTasks(ctx, callerID, filter)
}

// Task returns a task the caller may read.
func (u *Usecase) Task(ctx context.Context, callerID, taskID int64) (*entities.Task, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	task, m, err := u.loadTask(ctx, callerID, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadTask(callerID, *task, m) {
		return nil, entities.ErrTaskAccessDenied
	}
	return task, nil
}

// UpdateTask applies patch and emits reassignment and completion notifications.
func (u *Usecase) UpdateTask(ctx context.Context, actor entities.User, taskID int64, patch entities.TaskPatch) (*entities.Task, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if patch.Empty() {
		return nil, entities.NewValidationError("body", "at least one field must be provided")
	}

	task, m, err := u.loadTask(ctx, actor.ID, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateTask(actor.ID, *task, m) {
		return nil, entities.ErrTaskAccessDenied
	}
	if patch.AssignedTo.Set {
		if err := u.checkAssignee(ctx, task.TeamID, patch.AssignedTo.Value, task.AssignedTo); err != nil {
			return nil, err
		}
	}

	updated, err := u.repo.UpdateTask(ctx, taskID, patch, func(before, after entities.Task) []entities.NotificationDraft {
		return policy.UpdateNotifications(before, after, actor.Name)
	})
	if err != nil {
		u.log.Errorw("failed to update task", "task_id", taskID, "err", err)
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a task; creator or team admin only.
func (u *Usecase) DeleteTask(ctx context.Context, callerID, taskID int64) error {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	task, m, err := u.loadTask(ctx, callerID, taskID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteTask(callerID, *task, m) {
		return entities.ErrTaskAccessDenied
	}
	return u.repo.DeleteTask(ctx, taskID)
}

// TaskStats aggregates the tasks visible to the caller.
func (u *Usecase) TaskStats(ctx context.Context, callerID int64) (entities.TaskStats, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	return u.repo.TaskStats(ctx, callerID)
}

// loadTask fetches a task and the caller's membership in its team.
func (u *Usecase) loadTask(ctx context.Context, callerID, taskID int64) (*entities.Task, *entities.Membership, error) {
	task, err := u.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	m, err := u.repo.GetMembership(ctx, task.TeamID, callerID)
	if err != nil {
		return nil, nil, err
	}
	return task, m, nil
}

func (u *Usecase) checkAssignee(ctx context.Context, teamID int64, assignee, exempt *int64) error {
	if !policy.AssigneeNeedsCheck(assignee, exempt) {
		return nil
	}
	m, err := u.repo.GetMembership(ctx, teamID, *assignee)
	if err != nil {
		return err
	}
	return policy.ValidateAssignee(assignee, exempt, m)
}
