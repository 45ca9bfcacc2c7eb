// Package policy holds the authorization and integrity rules for teams, memberships
// and tasks. Every function is pure: callers load the rows, policy decides.
//
// A nil *entities.Membership always means "the user holds no membership in the team".
package policy

import (
	"fmt"

	"team-task-manager/internal/entities"
)

// CanReadTeam allows any member to read a team and its member list.
func CanReadTeam(m *entities.Membership) bool {
	return m != nil
}

// CanUpdateTeam allows admins to rename or describe a team.
func CanUpdateTeam(m *entities.Membership) bool {
	return m.IsAdmin()
}

// CanDeleteTeam allows only the creator to delete a team.
func CanDeleteTeam(userID int64, team entities.Team) bool {
	return team.CreatorID == userID
}

// CanManageMembers allows admins to add, remove and re-role members.
func CanManageMembers(m *entities.Membership) bool {
	return m.IsAdmin()
}

// GuardMemberRemoval rejects removing the sole admin or the creator, in that order.
// adminCount is the number of admin memberships the team holds right now.
func GuardMemberRemoval(team entities.Team, target entities.Membership, adminCount int) error {
	if target.Role == entities.RoleAdmin && adminCount <= 1 {
		return entities.ErrLastAdmin
	}
	if target.UserID == team.CreatorID {
		return entities.ErrCreatorRemoval
	}
	return nil
}

// GuardRoleChange rejects demoting the sole admin.
func GuardRoleChange(target entities.Membership, newRole entities.Role, adminCount int) error {
	if target.Role == entities.RoleAdmin && newRole != entities.RoleAdmin && adminCount <= 1 {
		return entities.ErrLastAdmin
	}
	return nil
}

// CanCreateTask allows members to create tasks in their team.
func CanCreateTask(m *entities.Membership) bool {
	return m != nil
}

// CanReadTask allows team members and the current assignee.
func CanReadTask(userID int64, task entities.Task, m *entities.Membership) bool {
	return m != nil || task.IsAssignedTo(userID)
}

// CanUpdateTask follows the read rule.
func CanUpdateTask(userID int64, task entities.Task, m *entities.Membership) bool {
	return CanReadTask(userID, task, m)
}

// CanDeleteTask allows the task creator and team admins.
func CanDeleteTask(userID int64, task entities.Task, m *entities.Membership) bool {
	return task.CreatedBy == userID || m.IsAdmin()
}

// CanViewUserTasks allows looking at one's own tasks or those of a teammate.
func CanViewUserTasks(callerID, requestedID int64, sharesTeam bool) bool {
	return callerID == requestedID || sharesTeam
}

// CanUpdateProfile allows users to edit only themselves.
func CanUpdateProfile(callerID, targetID int64) bool {
	return callerID == targetID
}

// AssigneeNeedsCheck reports whether assignee must be verified as a team member:
// it is set and differs from exempt (the creator on create, the previous assignee on update).
func AssigneeNeedsCheck(assignee, exempt *int64) bool {
	if assignee == nil {
		return false
	}
	return exempt == nil || *exempt != *assignee
}

// ValidateAssignee checks that an assignee needing verification belongs to the team.
// assigneeMembership is the assignee's membership, nil when absent.
func ValidateAssignee(assignee, exempt *int64, assigneeMembership *entities.Membership) error {
	if !AssigneeNeedsCheck(assignee, exempt) {
		return nil
	}
	if assigneeMembership == nil {
		return entities.ErrAssigneeNotMember
	}
	return nil
}

// AssignmentNotifications returns the drafts emitted when a task is created.
func AssignmentNotifications(task entities.Task) []entities.NotificationDraft {
	if task.AssignedTo == nil || *task.AssignedTo == task.CreatedBy {
		return nil
	}
	return []entities.NotificationDraft{
		taskDraft(task, *task.AssignedTo, entities.NotificationTaskAssignment,
			"New task assigned",
			fmt.Sprintf("You have been assigned to %q", task.Title)),
	}
}

// UpdateNotifications returns the drafts emitted when before becomes after.
// actorName is shown in the completion message.
func UpdateNotifications(before, after entities.Task, actorName string) []entities.NotificationDraft {
	var drafts []entities.NotificationDraft

	if after.AssignedTo != nil && !before.IsAssignedTo(*after.AssignedTo) {
		drafts = append(drafts, taskDraft(after, *after.AssignedTo, entities.NotificationTaskReassignment,
			"Task reassigned to you",
			fmt.Sprintf("%q has been reassigned to you", after.Title)))
	}

	if after.Status == entities.StatusCompleted && before.Status != entities.StatusCompleted &&
		!after.IsAssignedTo(after.CreatedBy) {
		drafts = append(drafts, taskDraft(after, after.CreatedBy, entities.NotificationTaskCompletion,
			"Task completed",
			fmt.Sprintf("%q has been completed by %s", after.Title, actorName)))
	}

	return drafts
}

func taskDraft(task entities.Task, recipient int64, typ entities.NotificationType, title, desc string) entities.NotificationDraft {
	relatedType := entities.RelatedTask
	d := entities.NotificationDraft{
		UserID:      recipient,
		Title:       title,
		Description: desc,
		Type:        typ,
		RelatedType: &relatedType,
	}
	if task.ID != 0 {
		id := task.ID
		d.RelatedID = &id
	}
	return d
}
