package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/transport/http/dto"
	"team-task-manager/internal/transport/http/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// errorStatus maps a domain error to its HTTP status and client message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrUnauthenticated):
		return http.StatusUnauthorized, "Not authenticated"

	case errors.Is(err, entities.ErrAssigneeNotMember):
		return http.StatusBadRequest, "Assigned user is not a member of this team"
	case errors.Is(err, entities.ErrInvalidArgument):
		return http.StatusBadRequest, capitalize(entities.Message(err))

	case errors.Is(err, entities.ErrWrongPassword):
		return http.StatusBadRequest, "Current password is incorrect"
	case errors.Is(err, entities.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid email or password"

	case errors.Is(err, entities.ErrLastAdmin):
		return http.StatusBadRequest, "Cannot remove the last admin from the team. Make another member an admin first."
	case errors.Is(err, entities.ErrCreatorRemoval):
		return http.StatusBadRequest, "Cannot remove the team creator"
	case errors.Is(err, entities.ErrAlreadyMember):
		return http.StatusBadRequest, "User is already a member of this team"
	case errors.Is(err, entities.ErrUserExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, entities.ErrEmailTaken):
		return http.StatusBadRequest, "Email already taken"
	case errors.Is(err, entities.ErrConflict):
		return http.StatusBadRequest, capitalize(entities.Message(err))

	case errors.Is(err, entities.ErrNotTeamMember):
		return http.StatusForbidden, "Not a team member"
	case errors.Is(err, entities.ErrInsufficientPermissions):
		return http.StatusForbidden, "Insufficient permissions"
	case errors.Is(err, entities.ErrUserTasksDenied):
		return http.StatusForbidden, "Not authorized to view tasks for this user"
	case errors.Is(err, entities.ErrProfileDenied):
		return http.StatusForbidden, "Cannot update other user's profile"
	case errors.Is(err, entities.ErrForbidden):
		return http.StatusForbidden, capitalize(entities.Message(err))

	case errors.Is(err, entities.ErrMemberNotFound):
		return http.StatusNotFound, "User is not a member of this team"
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound, capitalize(entities.Message(err))
	}
	return http.StatusInternalServerError, err.Error()
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	var verr *entities.ValidationError
	if errors.As(err, &verr) {
		details := make([]dto.FieldError, 0, len(verr.Details))
		for _, d := range verr.Details {
			details = append(details, dto.FieldError{Field: d.Field, Message: d.Message})
		}
		return c.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Validation error", Details: details})
	}

	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Errorw("request failed", "path", c.Path(), "err", err)
		if h.production {
			msg = "Internal server error"
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}

// taskError rewrites the generic task access error with the verb of the operation.
func (h *Handler) taskError(c *fiber.Ctx, err error, verb string) error {
	if errors.Is(err, entities.ErrTaskAccessDenied) {
		return c.Status(http.StatusForbidden).JSON(dto.ErrorResponse{Error: "Not authorized to " + verb + " this task"})
	}
	return h.writeError(c, err)
}

// parseBody decodes the JSON body into dst and validates its tags.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return entities.NewValidationError("body", "invalid JSON body")
	}
	return validateStruct(dst)
}

// parseQuery decodes the query string into dst and validates its tags.
func parseQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return entities.NewValidationError("query", "invalid query parameters")
	}
	return validateStruct(dst)
}

func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", entities.ErrInvalidArgument, err)
	}
	out := &entities.ValidationError{}
	for _, fe := range verrs {
		out.Details = append(out.Details, entities.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "email":
		return fmt.Sprintf("%q must be a valid email", fe.Field())
	case "url":
		return fmt.Sprintf("%q must be a valid uri", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be at least %s characters long", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%q must be a positive number", fe.Field())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%q is invalid", fe.Field())
}

// paramID parses a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, entities.NewValidationError(name, "Valid "+name+" is required")
	}
	return id, nil
}

// currentUser returns the authenticated user attached by the session middleware.
func currentUser(c *fiber.Ctx) (*entities.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, entities.ErrUnauthenticated
	}
	return user, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg})
}
