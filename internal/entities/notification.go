// Package entities contains core business entities.
package entities

import "time"

// NotificationType enumerates notification kinds.
type NotificationType string

const (
	NotificationTaskAssignment   NotificationType = "task_assignment"
	NotificationTaskReassignment NotificationType = "task_reassignment"
	NotificationTaskCompletion   NotificationType = "task_completion"
	NotificationTeamInvite       NotificationType = "team_invite"
	NotificationDeadlineReminder NotificationType = "deadline_reminder"
	NotificationCommentAdded     NotificationType = "comment_added"
)

// RelatedTask is the related_type value for task notifications.
const RelatedTask = "task"

// Notification is a message addressed to a single user.
type Notification struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	Type        NotificationType
	RelatedID   *int64
	RelatedType *string
	Read        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NotificationDraft is a notification about to be emitted. A nil RelatedID on a task
// draft is filled with the task id by the store.
type NotificationDraft struct {
	UserID      int64
	Title       string
	Description string
	Type        NotificationType
	RelatedID   *int64
	RelatedType *string
}

// NotificationFilter selects notifications by read state.
type NotificationFilter string

const (
	FilterAll    NotificationFilter = "all"
	FilterUnread NotificationFilter = "unread"
	FilterRead   NotificationFilter = "read"
)

// ParseNotificationFilter validates a filter; empty means all.
func ParseNotificationFilter(s string) (NotificationFilter, error) {
	switch NotificationFilter(s) {
	case "":
		return FilterAll, nil
	case FilterAll, FilterUnread, FilterRead:
		return NotificationFilter(s), nil
	}
	return "", NewValidationError("filter", "filter must be one of [all, unread, read]")
}

// NotificationQuery pages a user's notifications.
type NotificationQuery struct {
	Filter NotificationFilter
	Limit  int
	Offset int
}
