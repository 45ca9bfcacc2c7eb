package handlers_fiber

import (
	"net/http"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// Register creates an account and signs it in.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return h.writeError(c, err)
	}

	user, err := h.uc.Register(c.UserContext(), entities.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	if err := h.sessions.Login(c, user.ID); err != nil {
		return h.writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"user":    mapper.ToUser(*user),
		"message": "User registered successfully",
		"success": true,
	})
}

// Login verifies credentials and binds the session to the user.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return h.writeError(c, err)
	}

	user, err := h.uc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.writeError(c, err)
	}
	if err := h.sessions.Login(c, user.ID); err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":    mapper.ToUser(*user),
		"message": "Login successful",
		"success": true,
	})
}

// Logout destroys the session; it succeeds without one too.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logout successful", "success": true})
}

// Me returns the signed-in user.
func (h *Handler) Me(c *fiber.Ctx) error {
	userID, ok := h.sessions.UserID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Not authenticated", Success: new(bool)})
	}
	user, err := h.uc.CurrentUser(c.UserContext(), userID)
	if err != nil {
		if status, _ := errorStatus(err); status == http.StatusUnauthorized {
			return c.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Not authenticated", Success: new(bool)})
		}
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"user": mapper.ToUser(*user), "success": true})
}

// UpdateProfile edits the caller's own profile.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}

	var req dto.ProfileUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return h.writeError(c, err)
	}

	user, err := h.uc.UpdateProfile(c.UserContext(), caller.ID, mapper.FromProfileUpdate(req))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":    mapper.ToUser(*user),
		"message": "Profile updated successfully",
		"success": true,
	})
}

// ChangePassword replaces the caller's password after checking the current one.
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}

	var req dto.PasswordChangeRequest
	if err := parseBody(c, &req); err != nil {
		return h.writeError(c, err)
	}

	if err := h.uc.ChangePassword(c.UserContext(), caller.ID, req.OldPassword, req.NewPassword); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
