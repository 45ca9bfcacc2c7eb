package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/transport/http/dto"

	"github.com/stretchr/testify/require"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{entities.ErrUnauthenticated, http.StatusUnauthorized, "Not authenticated"},
		{entities.ErrAssigneeNotMember, http.StatusBadRequest, "Assigned user is not a member of this team"},
		{entities.ErrLastAdmin, http.StatusBadRequest, "Cannot remove the last admin from the team. Make another member an admin first."},
		{entities.ErrCreatorRemoval, http.StatusBadRequest, "Cannot remove the team creator"},
		{entities.ErrAlreadyMember, http.StatusBadRequest, "User is already a member of this team"},
		{entities.ErrUserExists, http.StatusBadRequest, "User already exists"},
		{entities.ErrEmailTaken, http.StatusBadRequest, "Email already taken"},
		{entities.ErrInvalidCredentials, http.StatusBadRequest, "Invalid email or password"},
		{entities.ErrWrongPassword, http.StatusBadRequest, "Current password is incorrect"},
		{entities.ErrNotTeamMember, http.StatusForbidden, "Not a team member"},
		{entities.ErrInsufficientPermissions, http.StatusForbidden, "Insufficient permissions"},
		{entities.ErrUserTasksDenied, http.StatusForbidden, "Not authorized to view tasks for this user"},
		{entities.ErrProfileDenied, http.StatusForbidden, "Cannot update other user's profile"},
		{entities.ErrMemberNotFound, http.StatusNotFound, "User is not a member of this team"},
		{entities.ErrTaskNotFound, http.StatusNotFound, "Task not found"},
		{entities.ErrNotificationNotFound, http.StatusNotFound, "Notification not found"},
		{fmt.Errorf("load team: %w", entities.ErrTeamNotFound), http.StatusNotFound, "Team not found"},
		{fmt.Errorf("guard: %w", entities.ErrTaskAccessDenied), http.StatusForbidden, "Not authorized for this task"},
		{fmt.Errorf("parse: %w", fmt.Errorf("%w: bad limit", entities.ErrInvalidArgument)), http.StatusBadRequest, "Parse: invalid argument: bad limit"},
		{errors.New("boom"), http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		status, msg := errorStatus(tt.err)
		require.Equal(t, tt.status, status, tt.err.Error())
		require.Equal(t, tt.msg, msg)
	}
}

func TestValidateStruct(t *testing.T) {
	err := validateStruct(&dto.RegisterRequest{Name: "A", Email: "not-an-email", Password: "123"})

	var verr *entities.ValidationError
	require.ErrorAs(t, err, &verr)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	require.Len(t, verr.Details, 3)

	fields := map[string]string{}
	for _, d := range verr.Details {
		fields[d.Field] = d.Message
	}
	require.Equal(t, `"name" length must be at least 2 characters long`, fields["name"])
	require.Equal(t, `"email" must be a valid email`, fields["email"])
	require.Equal(t, `"password" length must be at least 6 characters long`, fields["password"])

	require.NoError(t, validateStruct(&dto.RegisterRequest{Name: "Al", Email: "al@x.io", Password: "secret"}))
}

func TestValidateQuery(t *testing.T) {
	err := validateStruct(&dto.TaskQuery{Status: "done", Limit: 500})

	var verr *entities.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Details, 2)
	require.Equal(t, "status", verr.Details[0].Field)
	require.Equal(t, `"status" must be one of [todo, in_progress, in_review, completed]`, verr.Details[0].Message)
	require.Equal(t, "limit", verr.Details[1].Field)
}

func TestMemberUserID(t *testing.T) {
	id, ok := memberUserID(float64(7))
	require.True(t, ok)
	require.Equal(t, int64(7), id)

	id, ok = memberUserID("12")
	require.True(t, ok)
	require.Equal(t, int64(12), id)

	for _, raw := range []any{nil, float64(0), float64(1.5), "abc", "-3", true} {
		_, ok := memberUserID(raw)
		require.False(t, ok, "%v", raw)
	}
}
