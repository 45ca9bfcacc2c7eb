package postgres

import (
	"context"
	"fmt"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	notificationColumns     = `id, user_id, title, description, type, related_id, related_type, read, created_at, updated_at`
	insertNotificationQuery = `
INSERT INTO notifications(user_id, title, description, type, related_id, related_type)
VALUES ($1, $2, $3, $4, $5, $6)`
	markReadQuery    = `UPDATE notifications SET read=TRUE, updated_at=NOW() WHERE id=$1 AND user_id=$2`
	markAllReadQuery = `UPDATE notifications SET read=TRUE, updated_at=NOW() WHERE user_id=$1 AND read=FALSE`
	unreadCountQuery = `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND read=FALSE`
)

// insertNotifications stores drafts; task drafts without a related id get taskID.
func insertNotifications(ctx context.Context, tx pgx.Tx, taskID int64, drafts []entities.NotificationDraft) error {
	if len(drafts) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, d := range drafts {
		relatedID := d.RelatedID
		if relatedID == nil && d.RelatedType != nil && *d.RelatedType == entities.RelatedTask {
			relatedID = &taskID
		}
		batch.Queue(insertNotificationQuery, d.UserID, d.Title, d.Description, d.Type, relatedID, d.RelatedType)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	return nil
}

// ListNotifications returns the user's notifications, newest first.
func (p *Postgres) ListNotifications(ctx context.Context, userID int64, q entities.NotificationQuery) ([]entities.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id=$1`
	switch q.Filter {
	case entities.FilterUnread:
		query += ` AND read=FALSE`
	case entities.FilterRead:
		query += ` AND read=TRUE`
	}

	limit := q.Limit
	if limit <= 0 {
		limit = entities.DefaultPageLimit
	}
	if limit > entities.MaxPageLimit {
		limit = entities.MaxPageLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	rows, err := p.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Notification, 0)
	for rows.Next() {
		var n entities.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Type, &n.RelatedID, &n.RelatedType,
			&n.Read, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

// MarkNotificationRead marks one of the user's notifications as read. Marking an
// already read notification succeeds.
func (p *Postgres) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	tag, err := p.db.Exec(ctx, markReadQuery, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotificationNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification of the user as read.
func (p *Postgres) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := p.db.Exec(ctx, markAllReadQuery, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	p.log.Infow("notifications marked read", "user_id", userID, "count", tag.RowsAffected())
	return tag.RowsAffected(), nil
}

// UnreadCount returns the number of unread notifications.
func (p *Postgres) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := p.db.QueryRow(ctx, unreadCountQuery, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return n, nil
}
