package handlers_fiber

import (
	"net/http"
	"strconv"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// Teams lists the caller's teams.
func (h *Handler) Teams(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	teams, err := h.uc.Teams(c.UserContext(), caller.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"teams": mapper.ToTeams(teams)})
}

// CreateTeam creates a team owned by the caller.
func (h *Handler) CreateTeam(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var req dto.TeamRequest
	if err := parseBody(c, &req); err != nil {
		return h.writeError(c, err)
	}

	team, err := h.uc.CreateTeam(c.UserContext(), caller.ID, mapper.FromTeamRequest(req))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"team":    mapper.ToTeam(*team),
		"message": "Team created successfully",
	})
}

// Team returns one team to its members.
func (h *Handler) Team(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	teamID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	team, err := h.uc.Team(c.UserContext(), caller.ID, teamID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"team": mapper.ToTeam(*team)})
}

// UpdateTeam edits name and description.
func (h *Handler) UpdateTeam(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	teamID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	var req dto.TeamRequest
	if err := parseBody(c, &req); err != nil {
		return h.writeError(c, err)
	}

	team, err := h.uc.UpdateTeam(c.UserContext(), caller.ID, teamID, mapper.FromTeamRequest(req))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"team":    mapper.ToTeam(*team),
		"message": "Team updated successfully",
	})
}

// DeleteTeam removes a team with everything it owns.
func (h *Handler) DeleteTeam(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	teamID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	if err := h.uc.DeleteTeam(c.UserContext(), caller.ID, teamID); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Team deleted successfully"})
}

// Members lists a team's members.
func (h *Handler) Members(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	teamID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	members, err := h.uc.Members(c.UserContext(), caller.ID, teamID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"members": mapper.ToMembers(members)})
}

// AddMember adds a user to a team. Role defaults to member.
func (h *Handler) AddMember(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	teamID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	var req dto.AddMemberRequest
	if err := parseBody(c, &req); err != nil {
		return h.writeError(c, err)
	}

	userID, ok := memberUserID(req.UserID)
	if !ok {
		return badRequest(c, "Valid user ID is required")
	}
	if req.Role == "" {
		req.Role = string(entities.RoleMember)
	}
	role, err := entities.ParseRole(req.Role)
	if err != nil {
		return h.writeError(c, err)
	}

	m, err := h.uc.AddMember(c.UserContext(), caller.ID, teamID, userID, role)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"membership": mapper.ToMembership(*m),
		"message":    "Member added successfully",
	})
}

// RemoveMember removes a user from a team.
func (h *Handler) RemoveMember(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	teamID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return badRequest(c, "Valid user ID is required")
	}

	if err := h.uc.RemoveMember(c.UserContext(), caller.ID, teamID, userID); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Member removed successfully"})
}

// UpdateMemberRole changes a member's role.
func (h *Handler) UpdateMemberRole(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	teamID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return badRequest(c, "Valid user ID is required")
	}
	var req dto.UpdateRoleRequest
	if err := parseBody(c, &req); err != nil {
		return h.writeError(c, err)
	}
	role, err := entities.ParseRole(req.Role)
	if err != nil {
		return h.writeError(c, err)
	}

	m, err := h.uc.UpdateMemberRole(c.UserContext(), caller.ID, teamID, userID, role)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"membership": mapper.ToMembership(*m),
		"message":    "Member role updated successfully",
	})
}

// memberUserID accepts a positive JSON number or numeric string.
func memberUserID(raw any) (int64, bool) {
	switch v := raw.(type) {
	case float64:
		if v >= 1 && v == float64(int64(v)) {
			return int64(v), true
		}
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}
