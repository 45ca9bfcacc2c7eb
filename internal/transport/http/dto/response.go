package dto

import "time"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
	Success *bool        `json:"success,omitempty"`
}

// FieldError describes a rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// User is the public user shape; the password digest is never serialized.
type User struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	AvatarURL     *string        `json:"avatar_url"`
	Bio           *string        `json:"bio"`
	Timezone      string         `json:"timezone"`
	Language      string         `json:"language"`
	Theme         string         `json:"theme"`
	Notifications map[string]any `json:"notifications"`
	Privacy       map[string]any `json:"privacy"`
	Location      *string        `json:"location"`
	JobTitle      *string        `json:"job_title"`
	Company       *string        `json:"company"`
	Website       *string        `json:"website"`
	Phone         *string        `json:"phone"`
	LastLoginAt   *time.Time     `json:"last_login_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// UserBrief is the user listing shape.
type UserBrief struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Team is the team shape. Role is set when listing the caller's teams.
type Team struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatorID   int64     `json:"creator_id"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TeamMember is a member row.
type TeamMember struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Membership is a membership row.
type Membership struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	TeamID   int64     `json:"team_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Task is the task shape. assigned_to_id mirrors assigned_to for older clients.
type Task struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date"`
	TeamID         int64      `json:"team_id"`
	TeamName       string     `json:"team_name"`
	AssignedTo     *int64     `json:"assigned_to"`
	AssignedToID   *int64     `json:"assigned_to_id"`
	AssignedToName *string    `json:"assigned_to_name"`
	CreatedBy      int64      `json:"created_by"`
	CreatedByName  string     `json:"created_by_name"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TaskStats is the stats body.
type TaskStats struct {
	Stats   map[string]int64 `json:"stats"`
	Total   int64            `json:"total"`
	Overdue int64            `json:"overdue"`
}

// Notification is the notification shape.
type Notification struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Type        string    `json:"type"`
	RelatedID   *int64    `json:"related_id"`
	RelatedType *string   `json:"related_type"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
