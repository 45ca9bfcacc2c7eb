package handlers_fiber

import (
	"team-task-manager/internal/entities"
	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// Notifications lists the caller's notifications, newest first.
func (h *Handler) Notifications(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var q dto.NotificationQuery
	if err := parseQuery(c, &q); err != nil {
		return h.writeError(c, err)
	}
	filter, err := entities.ParseNotificationFilter(q.Filter)
	if err != nil {
		return h.writeError(c, err)
	}

	list, err := h.uc.Notifications(c.UserContext(), caller.ID, entities.NotificationQuery{
		Filter: filter,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": mapper.ToNotifications(list)})
}

// UnreadCount returns the caller's unread notification count.
func (h *Handler) UnreadCount(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	count, err := h.uc.UnreadCount(c.UserContext(), caller.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	if err := h.uc.MarkNotificationRead(c.UserContext(), caller.ID, id); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks every unread notification of the caller as read.
func (h *Handler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	if _, err := h.uc.MarkAllNotificationsRead(c.UserContext(), caller.ID); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}
