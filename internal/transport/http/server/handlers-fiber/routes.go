package handlers_fiber

import (
	"errors"
	"time"

	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under /api together with the liveness routes.
// Legacy paths (/all, /add, /get/:id, ...) and REST paths resolve to the same handlers.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.root)
	app.Get("/health", h.health)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api := app.Group("/api")
	auth := h.sessions.RequireAuth()

	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)
	authGroup.Post("/logout", h.Logout)
	authGroup.Get("/me", h.Me)
	authGroup.Put("/profile", auth, h.UpdateProfile)
	authGroup.Put("/password", auth, h.ChangePassword)

	teams := api.Group("/teams", auth)
	teams.Get("/all", h.Teams)
	teams.Post("/add", h.CreateTeam)
	teams.Get("/get/:id", h.Team)
	teams.Put("/update/:id", h.UpdateTeam)
	teams.Delete("/delete/:id", h.DeleteTeam)
	teams.Get("/:id/members", h.Members)
	teams.Post("/:id/members", h.AddMember)
	teams.Delete("/:id/members/:userId", h.RemoveMember)
	teams.Put("/:id/members/:userId", h.UpdateMemberRole)
	teams.Get("/", h.Teams)
	teams.Post("/", h.CreateTeam)
	teams.Get("/:id", h.Team)
	teams.Put("/:id", h.UpdateTeam)
	teams.Delete("/:id", h.DeleteTeam)

	tasks := api.Group("/tasks", auth)
	tasks.Get("/all", h.Tasks)
	tasks.Post("/add", h.CreateTask)
	tasks.Get("/get/:id", h.Task)
	tasks.Put("/update/:id", h.UpdateTask)
	tasks.Delete("/delete/:id", h.DeleteTask)
	tasks.Get("/stats", h.TaskStats)
	tasks.Get("/", h.Tasks)
	tasks.Post("/", h.CreateTask)
	tasks.Get("/:id", h.Task)
	tasks.Put("/:id", h.UpdateTask)
	tasks.Delete("/:id", h.DeleteTask)

	users := api.Group("/users", auth)
	users.Get("/all", h.Users)
	users.Get("/get/:id", h.User)
	users.Get("/get/:id/tasks", h.UserTasks)
	users.Put("/update/:id", h.UpdateUser)
	users.Get("/", h.Users)
	users.Get("/:id", h.User)
	users.Get("/:id/tasks", h.UserTasks)
	users.Put("/:id", h.UpdateUser)

	notifications := api.Group("/notifications", auth)
	notifications.Get("/", h.Notifications)
	notifications.Get("/count", h.UnreadCount)
	notifications.Put("/read-all", h.MarkAllNotificationsRead)
	notifications.Put("/read/:id", h.MarkNotificationRead)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Route not found"})
	})
}

func (h *Handler) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "Server started",
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"success":   true,
	})
}

func (h *Handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ErrorHandler renders errors escaping the handlers, such as fiber's own
// body limit and routing errors, in the API's error shape.
func (h *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg := fe.Message
		if fe.Code >= fiber.StatusInternalServerError && h.production {
			msg = "Internal server error"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: msg})
	}
	return h.writeError(c, err)
}
