package domain

import (
	"context"

	"team-task-manager/internal/entities"
)

// Notifications lists the user's notifications.
func (u *Usecase) Notifications(ctx context.Context, userID int64, q entities.NotificationQuery) ([]entities.Notification, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if q.Filter == "" {
		q.Filter = entities.FilterAll
	}
	return u.repo.ListNotifications(ctx, userID, q)
}

// MarkNotificationRead marks a notification owned by the user as read.
func (u *Usecase) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	return u.repo.MarkNotificationRead(ctx, userID, id)
}

// MarkAllNotificationsRead marks every unread notification of the user.
func (u *Usecase) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	n, err := u.repo.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	u.log.Infow("notifications marked read", "user_id", userID, "count", n)
	return n, nil
}

// UnreadCount returns the user's unread notification count.
func (u *Usecase) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	return u.repo.UnreadCount(ctx, userID)
}
