// Package entities contains core business entities.
package entities

import (
	"strconv"
	"time"
)

// TaskStatus enumerates task lifecycle states.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusInReview   TaskStatus = "in_review"
	StatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists all statuses in workflow order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusInReview, StatusCompleted}

// ParseTaskStatus validates a status value.
func ParseTaskStatus(s string) (TaskStatus, error) {
	for _, st := range TaskStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", NewValidationError("status", "status must be one of [todo, in_progress, in_review, completed]")
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ParseTaskPriority validates a priority value.
func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(s), nil
	}
	return "", NewValidationError("priority", "priority must be one of [low, medium, high]")
}

// Task is a unit of work owned by a team.
type Task struct {
	ID             int64
	Title          string
	Description    *string
	Status         TaskStatus
	Priority       TaskPriority
	TeamID         int64
	TeamName       string
	AssignedTo     *int64
	AssignedToName *string
	CreatedBy      int64
	CreatedByName  string
	DueDate        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAssignedTo reports whether userID is the current assignee.
func (t Task) IsAssignedTo(userID int64) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// NewTask carries creation input; AssignedTo nil means "assign to creator".
type NewTask struct {
	Title       string
	Description *string
	TeamID      int64
	AssignedTo  *int64
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	CreatedBy   int64
}

// TaskPatch lists mutable task fields. TeamID is deliberately absent.
type TaskPatch struct {
	Title       *string
	Description *string
	AssignedTo  Optional[int64]
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     Optional[time.Time]
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && !p.AssignedTo.Set &&
		p.Status == nil && p.Priority == nil && !p.DueDate.Set
}

// Apply returns a copy of t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.AssignedTo.Set {
		t.AssignedTo = p.AssignedTo.Value
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Value
	}
	return t
}

// ParseAssignee normalizes the loose assigned_to input: a JSON number, a numeric
// string, null, "", "null" or "undefined".
func ParseAssignee(raw any) (Optional[int64], error) {
	invalid := NewValidationError("assigned_to", "assigned_to must be a positive integer or null")
	switch v := raw.(type) {
	case nil:
		return Null[int64](), nil
	case float64:
		if v < 1 || v != float64(int64(v)) {
			return Optional[int64]{}, invalid
		}
		return Some(int64(v)), nil
	case int64:
		if v < 1 {
			return Optional[int64]{}, invalid
		}
		return Some(v), nil
	case string:
		switch v {
		case "", "null", "undefined":
			return Null[int64](), nil
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 1 {
			return Optional[int64]{}, invalid
		}
		return Some(id), nil
	}
	return Optional[int64]{}, invalid
}

// TaskFilter narrows task listings. Nil fields are not applied.
type TaskFilter struct {
	TeamID          *int64
	AssigneeID      *int64
	RequestedUserID *int64
	Status          *TaskStatus
	Priority        *TaskPriority
	Limit           int
	Offset          int
}

const (
	// DefaultPageLimit is applied when a listing has no limit.
	DefaultPageLimit = 20
	// MaxPageLimit caps listing page size.
	MaxPageLimit = 100
)

// TaskStats aggregates the tasks visible to a user.
type TaskStats struct {
	ByStatus map[TaskStatus]int64
	Total    int64
	Overdue  int64
}
