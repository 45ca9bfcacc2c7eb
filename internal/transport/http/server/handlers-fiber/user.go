package handlers_fiber

import (
	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// Users searches the user directory by name or email.
func (h *Handler) Users(c *fiber.Ctx) error {
	users, err := h.uc.Users(c.UserContext(), c.Query("search"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"users": mapper.ToUserBriefs(users)})
}

// User returns one user's public profile.
func (h *Handler) User(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	user, err := h.uc.User(c.UserContext(), userID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"user": mapper.ToUser(*user)})
}

// UserTasks lists the tasks of a user who shares a team with the caller.
func (h *Handler) UserTasks(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	userID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	filter, err := taskFilter(c)
	if err != nil {
		return h.writeError(c, err)
	}

	tasks, err := h.uc.UserTasks(c.UserContext(), caller.ID, userID, filter)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"tasks": mapper.ToTasks(tasks)})
}

// UpdateUser edits a profile; callers may only edit themselves.
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	userID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	var req dto.ProfileUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return h.writeError(c, err)
	}

	user, err := h.uc.UpdateUser(c.UserContext(), caller.ID, userID, mapper.FromProfileUpdate(req))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":    mapper.ToUser(*user),
		"message": "Profile updated successfully",
	})
}
