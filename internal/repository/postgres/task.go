package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	selectTaskBase = `
SELECT t.id, t.title, t.description, t.status, t.priority, t.team_id, tm.name,
       t.assigned_to, au.name, t.created_by, cu.name, t.due_date, t.created_at, t.updated_at
FROM tasks t
JOIN teams tm ON tm.id = t.team_id
JOIN users cu ON cu.id = t.created_by
LEFT JOIN users au ON au.id = t.assigned_to`
	selectTaskQuery     = selectTaskBase + ` WHERE t.id=$1`
	selectTaskForUpdate = selectTaskBase + ` WHERE t.id=$1 FOR UPDATE OF t`
	insertTaskQuery     = `
INSERT INTO tasks(title, description, status, priority, team_id, assigned_to, created_by, due_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	updateTaskQuery = `
UPDATE tasks
SET title=$2, description=$3, status=$4, priority=$5, assigned_to=$6, due_date=$7, updated_at=NOW()
WHERE id=$1`
	deleteTaskQuery = `DELETE FROM tasks WHERE id=$1`

	// visibleTaskPredicate matches tasks in the viewer's teams or assigned to the viewer.
	visibleTaskPredicate = `(EXISTS(SELECT 1 FROM memberships vm WHERE vm.team_id = t.team_id AND vm.user_id = $1) OR t.assigned_to = $1)`
)

func scanTask(row pgx.Row) (*entities.Task, error) {
	var t entities.Task
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.TeamID, &t.TeamName,
		&t.AssignedTo, &t.AssignedToName, &t.CreatedBy, &t.CreatedByName, &t.DueDate, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func getTask(ctx context.Context, q querier, query string, id int64) (*entities.Task, error) {
	task, err := scanTask(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// CreateTask inserts a task and the notifications produced by effects atomically.
func (p *Postgres) CreateTask(ctx context.Context, in entities.NewTask, effects func(created entities.Task) []entities.NotificationDraft) (*entities.Task, error) {
	assignee := in.AssignedTo
	if assignee == nil {
		assignee = &in.CreatedBy
	}
	status, priority := in.Status, in.Priority
	if status == "" {
		status = entities.StatusTodo
	}
	if priority == "" {
		priority = entities.PriorityMedium
	}

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	if err := tx.QueryRow(ctx, insertTaskQuery,
		in.Title, in.Description, status, priority, in.TeamID, assignee, in.CreatedBy, in.DueDate,
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created, err := getTask(ctx, tx, selectTaskQuery, id)
	if err != nil {
		return nil, err
	}

	var drafts []entities.NotificationDraft
	if effects != nil {
		drafts = effects(*created)
	}
	if err := insertNotifications(ctx, tx, created.ID, drafts); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("task created", "task_id", created.ID, "team_id", created.TeamID, "notifications", len(drafts))
	return created, nil
}

// GetTask returns a task with team and user names.
func (p *Postgres) GetTask(ctx context.Context, id int64) (*entities.Task, error) {
	return getTask(ctx, p.db, selectTaskQuery, id)
}

// ListTasks returns tasks visible to viewerID narrowed by filter, newest first.
func (p *Postgres) ListTasks(ctx context.Context, viewerID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	query, args := buildTaskListQuery(viewerID, filter)

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]entities.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func buildTaskListQuery(viewerID int64, filter entities.TaskFilter) (string, []any) {
	args := []any{viewerID}
	where := []string{visibleTaskPredicate}
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.TeamID != nil {
		add("t.team_id = ?", *filter.TeamID)
	}
	if filter.RequestedUserID != nil {
		add("t.assigned_to = ?", *filter.RequestedUserID)
	}
	if filter.AssigneeID != nil {
		add("t.assigned_to = ?", *filter.AssigneeID)
	}
	if filter.Status != nil {
		add("t.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		add("t.priority = ?", *filter.Priority)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = entities.DefaultPageLimit
	}
	if limit > entities.MaxPageLimit {
		limit = entities.MaxPageLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := selectTaskBase + "\nWHERE " + strings.Join(where, " AND ") +
		"\nORDER BY t.created_at DESC, t.id DESC" +
		"\nLIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))
	return query, args
}

// UpdateTask applies patch under a row lock and stores the notifications produced
// by effects in the same transaction.
func (p *Postgres) UpdateTask(ctx context.Context, id int64, patch entities.TaskPatch, effects func(before, after entities.Task) []entities.NotificationDraft) (*entities.Task, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	before, err := getTask(ctx, tx, selectTaskForUpdate, id)
	if err != nil {
		return nil, err
	}

	next := patch.Apply(*before)
	if _, err := tx.Exec(ctx, updateTaskQuery,
		id, next.Title, next.Description, next.Status, next.Priority, next.AssignedTo, next.DueDate,
	); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	after, err := getTask(ctx, tx, selectTaskQuery, id)
	if err != nil {
		return nil, err
	}

	var drafts []entities.NotificationDraft
	if effects != nil {
		drafts = effects(*before, *after)
	}
	if err := insertNotifications(ctx, tx, id, drafts); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("task updated", "task_id", id, "status", after.Status, "notifications", len(drafts))
	return after, nil
}

// DeleteTask removes a task.
func (p *Postgres) DeleteTask(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrTaskNotFound
	}
	p.log.Infow("task deleted", "task_id", id)
	return nil
}
