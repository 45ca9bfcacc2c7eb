// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"time"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/transport/http/dto"
)

// ToUser maps a user without its password digest.
func ToUser(u entities.User) dto.User {
	notifications := u.Notifications
	if notifications == nil {
		notifications = map[string]any{}
	}
	privacy := u.Privacy
	if privacy == nil {
		privacy = map[string]any{}
	}
	return dto.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		AvatarURL:     u.AvatarURL,
		Bio:           u.Bio,
		Timezone:      u.Timezone,
		Language:      u.Language,
		Theme:         u.Theme,
		Notifications: notifications,
		Privacy:       privacy,
		Location:      u.Location,
		JobTitle:      u.JobTitle,
		Company:       u.Company,
		Website:       u.Website,
		Phone:         u.Phone,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// ToUserBriefs maps a user listing.
func ToUserBriefs(users []entities.UserBrief) []dto.UserBrief {
	out := make([]dto.UserBrief, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserBrief{ID: u.ID, Name: u.Name, Email: u.Email, AvatarURL: u.AvatarURL, CreatedAt: u.CreatedAt})
	}
	return out
}

// ToTeam maps a team.
func ToTeam(t entities.Team) dto.Team {
	return dto.Team{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatorID:   t.CreatorID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTeams maps the caller's teams together with the caller's role.
func ToTeams(teams []entities.TeamWithRole) []dto.Team {
	out := make([]dto.Team, 0, len(teams))
	for _, t := range teams {
		item := ToTeam(t.Team)
		item.Role = string(t.Role)
		out = append(out, item)
	}
	return out
}

// ToMembers maps team members.
func ToMembers(members []entities.TeamMember) []dto.TeamMember {
	out := make([]dto.TeamMember, 0, len(members))
	for _, m := range members {
		out = append(out, dto.TeamMember{
			ID:        m.UserID,
			Name:      m.Name,
			Email:     m.Email,
			AvatarURL: m.AvatarURL,
			Role:      string(m.Role),
			JoinedAt:  m.JoinedAt,
		})
	}
	return out
}

// ToMembership maps a membership row.
func ToMembership(m entities.Membership) dto.Membership {
	return dto.Membership{ID: m.ID, UserID: m.UserID, TeamID: m.TeamID, Role: string(m.Role), JoinedAt: m.JoinedAt}
}

// ToTask maps a task.
func ToTask(t entities.Task) dto.Task {
	return dto.Task{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		DueDate:        t.DueDate,
		TeamID:         t.TeamID,
		TeamName:       t.TeamName,
		AssignedTo:     t.AssignedTo,
		AssignedToID:   t.AssignedTo,
		AssignedToName: t.AssignedToName,
		CreatedBy:      t.CreatedBy,
		CreatedByName:  t.CreatedByName,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// ToTasks maps a task listing.
func ToTasks(tasks []entities.Task) []dto.Task {
	out := make([]dto.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTask(t))
	}
	return out
}

// ToTaskStats maps aggregated counts; every status is present.
func ToTaskStats(s entities.TaskStats) dto.TaskStats {
	byStatus := make(map[string]int64, len(entities.TaskStatuses))
	for _, st := range entities.TaskStatuses {
		byStatus[string(st)] = s.ByStatus[st]
	}
	return dto.TaskStats{Stats: byStatus, Total: s.Total, Overdue: s.Overdue}
}

// ToNotifications maps a notification listing.
func ToNotifications(list []entities.Notification) []dto.Notification {
	out := make([]dto.Notification, 0, len(list))
	for _, n := range list {
		out = append(out, dto.Notification{
			ID:          n.ID,
			UserID:      n.UserID,
			Title:       n.Title,
			Description: n.Description,
			Type:        string(n.Type),
			RelatedID:   n.RelatedID,
			RelatedType: n.RelatedType,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
			UpdatedAt:   n.UpdatedAt,
		})
	}
	return out
}

// FromProfileUpdate maps the whitelisted profile fields.
func FromProfileUpdate(req dto.ProfileUpdateRequest) entities.ProfilePatch {
	return entities.ProfilePatch{
		Name:          req.Name,
		Email:         req.Email,
		Bio:           req.Bio,
		Timezone:      req.Timezone,
		Language:      req.Language,
		Theme:         req.Theme,
		Notifications: req.Notifications,
		Privacy:       req.Privacy,
		Location:      req.Location,
		JobTitle:      req.JobTitle,
		Company:       req.Company,
		Website:       req.Website,
		Phone:         req.Phone,
		AvatarURL:     entities.Optional[string]{Set: req.AvatarURL.Set, Value: req.AvatarURL.Value},
	}
}

// FromTeamRequest maps a team body.
func FromTeamRequest(req dto.TeamRequest) entities.TeamInput {
	return entities.TeamInput{Name: req.Name, Description: req.Description}
}

// FromTaskCreate maps a validated task creation body.
func FromTaskCreate(req dto.TaskCreateRequest) (entities.NewTask, error) {
	in := entities.NewTask{
		Title:       req.Title,
		Description: req.Description,
		TeamID:      req.TeamID,
		Status:      entities.StatusTodo,
		Priority:    entities.PriorityMedium,
	}
	if req.Status != "" {
		st, err := entities.ParseTaskStatus(req.Status)
		if err != nil {
			return in, err
		}
		in.Status = st
	}
	if req.Priority != "" {
		pr, err := entities.ParseTaskPriority(req.Priority)
		if err != nil {
			return in, err
		}
		in.Priority = pr
	}

	assignee, err := entities.ParseAssignee(req.AssignedTo)
	if err != nil {
		return in, err
	}
	in.AssignedTo = assignee.Value

	due, err := dueDate(req.DueDate)
	if err != nil {
		return in, err
	}
	in.DueDate = due.Value
	return in, nil
}

// FromTaskUpdate maps a validated task update body.
func FromTaskUpdate(req dto.TaskUpdateRequest) (entities.TaskPatch, error) {
	patch := entities.TaskPatch{Title: req.Title, Description: req.Description}
	if req.Status != nil {
		st, err := entities.ParseTaskStatus(*req.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &st
	}
	if req.Priority != nil {
		pr, err := entities.ParseTaskPriority(*req.Priority)
		if err != nil {
			return patch, err
		}
		patch.Priority = &pr
	}
	if req.AssignedTo.Set {
		var raw any
		if req.AssignedTo.Value != nil {
			raw = *req.AssignedTo.Value
		}
		assignee, err := entities.ParseAssignee(raw)
		if err != nil {
			return patch, err
		}
		patch.AssignedTo = assignee
	}

	due, err := dueDate(req.DueDate)
	if err != nil {
		return patch, err
	}
	patch.DueDate = due
	return patch, nil
}

func dueDate(raw dto.Nullable[string]) (entities.Optional[time.Time], error) {
	if !raw.Set {
		return entities.Optional[time.Time]{}, nil
	}
	if raw.Value == nil || *raw.Value == "" {
		return entities.Null[time.Time](), nil
	}
	t, ok := dto.ParseDueDate(*raw.Value)
	if !ok {
		return entities.Optional[time.Time]{}, entities.NewValidationError("due_date", "due_date must be a valid ISO 8601 date")
	}
	return entities.Some(t), nil
}
