package handlers_fiber

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"team-task-manager/config"
	"team-task-manager/internal/entities"
	"team-task-manager/internal/transport/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cookieName = "sid"

var alice = &entities.User{ID: 1, Name: "Alice", Email: "alice@example.com", PasswordHash: "digest"}

type testServer struct {
	app *fiber.App
	uc  *ucMock
}

func newTestServer(t *testing.T, production bool) *testServer {
	t.Helper()

	log := zap.NewNop().Sugar()
	uc := &ucMock{}
	sessions := middleware.NewSessions(log, config.SessionConfig{CookieName: cookieName, Expiration: time.Hour}, nil, uc)
	h := NewHandler(log, uc, sessions, production)

	app := fiber.New(fiber.Config{ErrorHandler: h.ErrorHandler})
	h.RegisterRoutes(app)
	return &testServer{app: app, uc: uc}
}

func (s *testServer) do(t *testing.T, method, path, body, cookie string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie})
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

// login signs alice in and returns her session cookie.
func (s *testServer) login(t *testing.T) string {
	t.Helper()

	s.uc.On("Login", mock.Anything, alice.Email, "secret").Return(alice, nil).Once()
	s.uc.On("CurrentUser", mock.Anything, alice.ID).Return(alice, nil).Maybe()

	resp, body := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Login successful", body["message"])
	require.Equal(t, true, body["success"])

	for _, ck := range resp.Cookies() {
		if ck.Name == cookieName {
			require.NotEmpty(t, ck.Value)
			require.True(t, ck.HttpOnly)
			return ck.Value
		}
	}
	t.Fatal("session cookie not set")
	return ""
}

func TestRegisterStartsSession(t *testing.T) {
	s := newTestServer(t, false)
	s.uc.On("Register", mock.Anything, entities.Registration{Name: "Alice", Email: "alice@example.com", Password: "secret"}).
		Return(alice, nil).Once()
	s.uc.On("CurrentUser", mock.Anything, alice.ID).Return(alice, nil)

	resp, body := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"secret"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "User registered successfully", body["message"])

	user := body["user"].(map[string]any)
	require.Equal(t, "alice@example.com", user["email"])
	require.NotContains(t, user, "password_hash")
	require.NotContains(t, user, "PasswordHash")

	var cookie string
	for _, ck := range resp.Cookies() {
		if ck.Name == cookieName {
			cookie = ck.Value
		}
	}
	require.NotEmpty(t, cookie)

	resp, body = s.do(t, http.MethodGet, "/api/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Alice", body["user"].(map[string]any)["name"])
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"A","email":"nope","password":"1"}`, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Validation error", body["error"])
	require.Len(t, body["details"], 3)
	s.uc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegisterDuplicate(t *testing.T) {
	s := newTestServer(t, false)
	s.uc.On("Register", mock.Anything, mock.Anything).Return(nil, entities.ErrUserExists).Once()

	resp, body := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"secret"}`, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "User already exists", body["error"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestServer(t, false)
	s.uc.On("Login", mock.Anything, "alice@example.com", "wrong").Return(nil, entities.ErrInvalidCredentials).Once()

	resp, body := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"wrong"}`, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid email or password", body["error"])
	require.Empty(t, resp.Cookies())
}

func TestMeWithoutSession(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, http.MethodGet, "/api/auth/me", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Not authenticated", body["error"])
	require.Equal(t, false, body["success"])
}

func TestLogout(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, http.MethodPost, "/api/auth/logout", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "logout without a session")
	require.Equal(t, "Logout successful", body["message"])

	cookie := s.login(t)
	resp, _ = s.do(t, http.MethodPost, "/api/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/teams", "", cookie)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "session destroyed")
}

func TestDanglingSession(t *testing.T) {
	s := newTestServer(t, false)
	s.uc.On("Login", mock.Anything, alice.Email, "secret").Return(alice, nil).Once()
	s.uc.On("CurrentUser", mock.Anything, alice.ID).Return(nil, entities.ErrUnauthenticated)

	resp, _ := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := resp.Cookies()[0].Value

	resp, body := s.do(t, http.MethodGet, "/api/tasks", "", cookie)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Not authenticated", body["error"])
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, false)

	for _, path := range []string{"/api/teams/all", "/api/tasks", "/api/tasks/stats", "/api/users", "/api/notifications/count"} {
		resp, body := s.do(t, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		require.Equal(t, "Not authenticated", body["error"])
	}
}

func TestTeamRoutes(t *testing.T) {
	s := newTestServer(t, false)
	cookie := s.login(t)

	team := &entities.Team{ID: 10, Name: "Eng", CreatorID: alice.ID}
	s.uc.On("CreateTeam", mock.Anything, alice.ID, entities.TeamInput{Name: "Eng"}).Return(team, nil).Once()
	s.uc.On("Teams", mock.Anything, alice.ID).Return([]entities.TeamWithRole{{Team: *team, Role: entities.RoleAdmin}}, nil).Twice()
	s.uc.On("Team", mock.Anything, alice.ID, int64(11)).Return(nil, entities.ErrNotTeamMember).Once()

	resp, body := s.do(t, http.MethodPost, "/api/teams/add", `{"name":"Eng"}`, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "Team created successfully", body["message"])

	for _, path := range []string{"/api/teams/all", "/api/teams"} {
		resp, body = s.do(t, http.MethodGet, path, "", cookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		teams := body["teams"].([]any)
		require.Len(t, teams, 1)
		require.Equal(t, "admin", teams[0].(map[string]any)["role"])
	}

	resp, body = s.do(t, http.MethodGet, "/api/teams/get/11", "", cookie)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Not a team member", body["error"])

	resp, body = s.do(t, http.MethodPost, "/api/teams/add", `{"name":""}`, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Validation error", body["error"])
}

func TestMemberRoutes(t *testing.T) {
	s := newTestServer(t, false)
	cookie := s.login(t)

	s.uc.On("AddMember", mock.Anything, alice.ID, int64(10), int64(2), entities.RoleMember).
		Return(&entities.Membership{ID: 5, UserID: 2, TeamID: 10, Role: entities.RoleMember}, nil).Once()
	s.uc.On("RemoveMember", mock.Anything, alice.ID, int64(10), alice.ID).Return(entities.ErrLastAdmin).Once()
	s.uc.On("UpdateMemberRole", mock.Anything, alice.ID, int64(10), int64(3), entities.RoleAdmin).
		Return(nil, entities.ErrMemberNotFound).Once()

	resp, body := s.do(t, http.MethodPost, "/api/teams/10/members", `{"userId":"2"}`, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "member", body["membership"].(map[string]any)["role"])

	resp, body = s.do(t, http.MethodPost, "/api/teams/10/members", `{"userId":"abc"}`, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Valid user ID is required", body["error"])

	resp, body = s.do(t, http.MethodPost, "/api/teams/10/members", `{"userId":2,"role":"owner"}`, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Validation error", body["error"])
	details := body["details"].([]any)
	require.Len(t, details, 1)
	require.Equal(t, "role", details[0].(map[string]any)["field"])
	require.Equal(t, "Role must be either admin or member", details[0].(map[string]any)["message"])

	resp, body = s.do(t, http.MethodPut, "/api/teams/10/members/3", `{"role":"owner"}`, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Validation error", body["error"])
	require.Len(t, body["details"], 1)

	resp, body = s.do(t, http.MethodDelete, "/api/teams/10/members/1", "", cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Cannot remove the last admin from the team. Make another member an admin first.", body["error"])

	resp, body = s.do(t, http.MethodPut, "/api/teams/10/members/3", `{"role":"admin"}`, cookie)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "User is not a member of this team", body["error"])
}

func TestCreateTaskMapsInput(t *testing.T) {
	s := newTestServer(t, false)
	cookie := s.login(t)

	created := &entities.Task{ID: 7, Title: "Ship", TeamID: 10, CreatedBy: alice.ID, Status: entities.StatusTodo, Priority: entities.PriorityHigh}
	s.uc.On("CreateTask", mock.Anything, alice.ID, mock.MatchedBy(func(in entities.NewTask) bool {
		return in.Title == "Ship" && in.TeamID == 10 && in.Priority == entities.PriorityHigh &&
			in.Status == entities.StatusTodo && in.AssignedTo != nil && *in.AssignedTo == 2 &&
			in.DueDate != nil && in.DueDate.Format("2006-01-02") == "2026-12-01"
	})).Return(created, nil).Once()

	resp, body := s.do(t, http.MethodPost, "/api/tasks/add",
		`{"title":"Ship","team_id":10,"priority":"high","assigned_to":"2","due_date":"2026-12-01"}`, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "Task created successfully", body["message"])
	require.Equal(t, float64(7), body["task"].(map[string]any)["id"])

	resp, body = s.do(t, http.MethodPost, "/api/tasks", `{"title":"Ship","team_id":10,"status":"done"}`, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Validation error", body["error"])

	s.uc.On("CreateTask", mock.Anything, alice.ID, mock.Anything).Return(nil, entities.ErrAssigneeNotMember).Once()
	resp, body = s.do(t, http.MethodPost, "/api/tasks", `{"title":"Ship","team_id":10,"assigned_to":99}`, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Assigned user is not a member of this team", body["error"])
}

func TestUpdateTaskExplicitNullUnassigns(t *testing.T) {
	s := newTestServer(t, false)
	cookie := s.login(t)

	s.uc.On("UpdateTask", mock.Anything, mock.Anything, int64(7), mock.MatchedBy(func(p entities.TaskPatch) bool {
		return p.AssignedTo.Set && p.AssignedTo.Value == nil && !p.DueDate.Set && p.Title == nil
	})).Return(&entities.Task{ID: 7, Title: "Ship"}, nil).Once()

	resp, body := s.do(t, http.MethodPut, "/api/tasks/update/7", `{"assigned_to":null}`, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Task updated successfully", body["message"])
	require.Nil(t, body["task"].(map[string]any)["assigned_to"])
}

func TestTaskAccessMessages(t *testing.T) {
	s := newTestServer(t, false)
	cookie := s.login(t)

	s.uc.On("Task", mock.Anything, alice.ID, int64(5)).Return(nil, entities.ErrTaskAccessDenied).Once()
	s.uc.On("UpdateTask", mock.Anything, mock.Anything, int64(5), mock.Anything).Return(nil, entities.ErrTaskAccessDenied).Once()
	s.uc.On("DeleteTask", mock.Anything, alice.ID, int64(5)).Return(entities.ErrTaskAccessDenied).Once()
	s.uc.On("Task", mock.Anything, alice.ID, int64(6)).Return(nil, entities.ErrTaskNotFound).Once()

	resp, body := s.do(t, http.MethodGet, "/api/tasks/get/5", "", cookie)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Not authorized to view this task", body["error"])

	resp, body = s.do(t, http.MethodPut, "/api/tasks/5", `{"title":"x"}`, cookie)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Not authorized to update this task", body["error"])

	resp, body = s.do(t, http.MethodDelete, "/api/tasks/delete/5", "", cookie)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Not authorized to delete this task", body["error"])

	resp, body = s.do(t, http.MethodGet, "/api/tasks/6", "", cookie)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Task not found", body["error"])

	resp, body = s.do(t, http.MethodGet, "/api/tasks/abc", "", cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Validation error", body["error"])
}

func TestTaskListingAndStats(t *testing.T) {
	s := newTestServer(t, false)
	cookie := s.login(t)

	s.uc.On("Tasks", mock.Anything, alice.ID, mock.MatchedBy(func(f entities.TaskFilter) bool {
		return f.TeamID != nil && *f.TeamID == 10 && f.Status != nil && *f.Status == entities.StatusTodo &&
			f.AssigneeID == nil && f.Limit == 5
	})).Return([]entities.Task{{ID: 1}, {ID: 2}}, nil).Once()
	s.uc.On("TaskStats", mock.Anything, alice.ID).Return(entities.TaskStats{
		ByStatus: map[entities.TaskStatus]int64{
			entities.StatusTodo: 2, entities.StatusInProgress: 0, entities.StatusInReview: 0, entities.StatusCompleted: 1,
		},
		Total:   3,
		Overdue: 1,
	}, nil).Once()

	resp, body := s.do(t, http.MethodGet, "/api/tasks/all?team=10&status=todo&limit=5", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["tasks"], 2)

	resp, body = s.do(t, http.MethodGet, "/api/tasks/stats", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode, "stats is not shadowed by /:id")
	require.Equal(t, float64(3), body["total"])
	require.Equal(t, float64(1), body["overdue"])
	require.Equal(t, float64(2), body["stats"].(map[string]any)["todo"])

	resp, body = s.do(t, http.MethodGet, "/api/tasks?priority=urgent", "", cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Validation error", body["error"])
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t, false)
	cookie := s.login(t)

	s.uc.On("Users", mock.Anything, "ali").Return([]entities.UserBrief{{ID: 1, Name: "Alice"}}, nil).Once()
	s.uc.On("UserTasks", mock.Anything, alice.ID, int64(3), mock.Anything).Return(nil, entities.ErrUserTasksDenied).Once()
	s.uc.On("UpdateUser", mock.Anything, alice.ID, int64(2), mock.Anything).Return(nil, entities.ErrProfileDenied).Once()
	s.uc.On("User", mock.Anything, int64(42)).Return(nil, entities.ErrUserNotFound).Once()

	resp, body := s.do(t, http.MethodGet, "/api/users/all?search=ali", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["users"], 1)

	resp, body = s.do(t, http.MethodGet, "/api/users/get/3/tasks", "", cookie)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Not authorized to view tasks for this user", body["error"])

	resp, body = s.do(t, http.MethodPut, "/api/users/update/2", `{"bio":"hi"}`, cookie)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Cannot update other user's profile", body["error"])

	resp, body = s.do(t, http.MethodGet, "/api/users/42", "", cookie)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "User not found", body["error"])
}

func TestAccountRoutes(t *testing.T) {
	s := newTestServer(t, false)
	cookie := s.login(t)

	s.uc.On("ChangePassword", mock.Anything, alice.ID, "old", "newsecret").Return(entities.ErrWrongPassword).Once()
	s.uc.On("UpdateProfile", mock.Anything, alice.ID, mock.MatchedBy(func(p entities.ProfilePatch) bool {
		return p.AvatarURL.Set && p.AvatarURL.Value == nil && p.Bio != nil && *p.Bio == "hello"
	})).Return(alice, nil).Once()

	resp, body := s.do(t, http.MethodPut, "/api/auth/password", `{"oldPassword":"old","newPassword":"newsecret"}`, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Current password is incorrect", body["error"])

	resp, body = s.do(t, http.MethodPut, "/api/auth/profile", `{"bio":"hello","avatar_url":null,"password_hash":"x"}`, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Profile updated successfully", body["message"])
}

func TestNotificationRoutes(t *testing.T) {
	s := newTestServer(t, false)
	cookie := s.login(t)

	s.uc.On("UnreadCount", mock.Anything, alice.ID).Return(int64(4), nil).Once()
	s.uc.On("Notifications", mock.Anything, alice.ID, entities.NotificationQuery{Filter: entities.FilterUnread}).
		Return([]entities.Notification{{ID: 1, UserID: alice.ID, Type: entities.NotificationTaskAssignment}}, nil).Once()
	s.uc.On("MarkNotificationRead", mock.Anything, alice.ID, int64(9)).Return(entities.ErrNotificationNotFound).Once()
	s.uc.On("MarkAllNotificationsRead", mock.Anything, alice.ID).Return(int64(4), nil).Once()

	resp, body := s.do(t, http.MethodGet, "/api/notifications/count", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(4), body["count"])

	resp, body = s.do(t, http.MethodGet, "/api/notifications?filter=unread", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["notifications"], 1)

	resp, body = s.do(t, http.MethodPut, "/api/notifications/read/9", "", cookie)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Notification not found", body["error"])

	resp, body = s.do(t, http.MethodPut, "/api/notifications/read-all", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "All notifications marked as read", body["message"])

	resp, _ = s.do(t, http.MethodGet, "/api/notifications?filter=archived", "", cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInternalErrorsHiddenInProduction(t *testing.T) {
	for _, production := range []bool{false, true} {
		s := newTestServer(t, production)
		cookie := s.login(t)
		s.uc.On("Teams", mock.Anything, alice.ID).Return(nil, errors.New("pool exhausted")).Once()

		resp, body := s.do(t, http.MethodGet, "/api/teams", "", cookie)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		if production {
			require.Equal(t, "Internal server error", body["error"])
		} else {
			require.Equal(t, "pool exhausted", body["error"])
		}
	}
}

func TestLivenessAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "OK", body["status"])

	resp, _ = s.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/nope", "", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Route not found", body["error"])
}
