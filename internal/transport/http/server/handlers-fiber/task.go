package handlers_fiber

import (
	"net/http"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// Tasks lists the tasks visible to the caller.
func (h *Handler) Tasks(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	filter, err := taskFilter(c)
	if err != nil {
		return h.writeError(c, err)
	}

	tasks, err := h.uc.Tasks(c.UserContext(), caller.ID, filter)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"tasks": mapper.ToTasks(tasks)})
}

// CreateTask creates a task in one of the caller's teams.
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var req dto.TaskCreateRequest
	if err := parseBody(c, &req); err != nil {
		return h.writeError(c, err)
	}
	in, err := mapper.FromTaskCreate(req)
	if err != nil {
		return h.writeError(c, err)
	}

	task, err := h.uc.CreateTask(c.UserContext(), caller.ID, in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"task":    mapper.ToTask(*task),
		"message": "Task created successfully",
	})
}

// Task returns a task the caller may read.
func (h *Handler) Task(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	taskID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}

	task, err := h.uc.Task(c.UserContext(), caller.ID, taskID)
	if err != nil {
		return h.taskError(c, err, "view")
	}
	return c.JSON(fiber.Map{"task": mapper.ToTask(*task)})
}

// UpdateTask applies a partial update.
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	taskID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	var req dto.TaskUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return h.writeError(c, err)
	}
	patch, err := mapper.FromTaskUpdate(req)
	if err != nil {
		return h.writeError(c, err)
	}

	task, err := h.uc.UpdateTask(c.UserContext(), *caller, taskID, patch)
	if err != nil {
		return h.taskError(c, err, "update")
	}
	return c.JSON(fiber.Map{
		"task":    mapper.ToTask(*task),
		"message": "Task updated successfully",
	})
}

// DeleteTask removes a task.
func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	taskID, err := paramID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}

	if err := h.uc.DeleteTask(c.UserContext(), caller.ID, taskID); err != nil {
		return h.taskError(c, err, "delete")
	}
	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}

// TaskStats aggregates the caller's visible tasks.
func (h *Handler) TaskStats(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return h.writeError(c, err)
	}
	stats, err := h.uc.TaskStats(c.UserContext(), caller.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(mapper.ToTaskStats(stats))
}

// taskFilter reads the listing query string.
func taskFilter(c *fiber.Ctx) (entities.TaskFilter, error) {
	var q dto.TaskQuery
	if err := parseQuery(c, &q); err != nil {
		return entities.TaskFilter{}, err
	}

	filter := entities.TaskFilter{Limit: q.Limit, Offset: q.Offset}
	if q.Team > 0 {
		filter.TeamID = &q.Team
	}
	if q.Assignee > 0 {
		filter.AssigneeID = &q.Assignee
	}
	if q.UserID > 0 {
		filter.RequestedUserID = &q.UserID
	}
	if q.Status != "" {
		st, err := entities.ParseTaskStatus(q.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &st
	}
	if q.Priority != "" {
		pr, err := entities.ParseTaskPriority(q.Priority)
		if err != nil {
			return filter, err
		}
		filter.Priority = &pr
	}
	return filter, nil
}
