package postgres

import (
	"context"
	"errors"
	"fmt"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	teamColumns     = `id, name, description, creator_id, created_at, updated_at`
	insertTeamQuery = `INSERT INTO teams(name, description, creator_id) VALUES ($1, $2, $3) RETURNING ` + teamColumns
	selectTeamQuery = `SELECT ` + teamColumns + ` FROM teams WHERE id=$1`
	updateTeamQuery = `UPDATE teams SET name=$2, description=$3, updated_at=NOW() WHERE id=$1 RETURNING ` + teamColumns
	listTeamsQuery  = `
SELECT t.id, t.name, t.description, t.creator_id, t.created_at, t.updated_at, m.role
FROM teams t
JOIN memberships m ON m.team_id = t.id
WHERE m.user_id = $1
ORDER BY t.created_at DESC, t.id DESC`
	insertCreatorMembership = `INSERT INTO memberships(user_id, team_id, role) VALUES ($1, $2, 'admin')`
	lockTeamQuery           = `SELECT id FROM teams WHERE id=$1 FOR UPDATE`
	deleteTeamTasks         = `DELETE FROM tasks WHERE team_id=$1`
	deleteTeamMemberships   = `DELETE FROM memberships WHERE team_id=$1`
	deleteTeamQuery         = `DELETE FROM teams WHERE id=$1`
)

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var t entities.Team
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatorID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTeam inserts a team and makes its creator the first admin.
func (p *Postgres) CreateTeam(ctx context.Context, creatorID int64, in entities.TeamInput) (*entities.Team, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	team, err := scanTeam(tx.QueryRow(ctx, insertTeamQuery, in.Name, in.Description, creatorID))
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	if _, err := tx.Exec(ctx, insertCreatorMembership, creatorID, team.ID); err != nil {
		return nil, fmt.Errorf("insert creator membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("team created", "team_id", team.ID, "creator_id", creatorID)
	return team, nil
}

// GetTeam fetches a team by id.
func (p *Postgres) GetTeam(ctx context.Context, id int64) (*entities.Team, error) {
	return getTeam(ctx, p.db, id)
}

func getTeam(ctx context.Context, q querier, id int64) (*entities.Team, error) {
	team, err := scanTeam(q.QueryRow(ctx, selectTeamQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

// ListTeamsForUser returns the teams userID belongs to along with the caller's role.
func (p *Postgres) ListTeamsForUser(ctx context.Context, userID int64) ([]entities.TeamWithRole, error) {
	rows, err := p.db.Query(ctx, listTeamsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]entities.TeamWithRole, 0)
	for rows.Next() {
		var t entities.TeamWithRole
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatorID, &t.CreatedAt, &t.UpdatedAt, &t.Role); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}
	return teams, nil
}

// UpdateTeam replaces name and description.
func (p *Postgres) UpdateTeam(ctx context.Context, id int64, in entities.TeamInput) (*entities.Team, error) {
	team, err := scanTeam(p.db.QueryRow(ctx, updateTeamQuery, id, in.Name, in.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("update team: %w", err)
	}
	return team, nil
}

// DeleteTeam removes the team with its tasks and memberships in one transaction.
func (p *Postgres) DeleteTeam(ctx context.Context, id int64) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked int64
	if err := tx.QueryRow(ctx, lockTeamQuery, id).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.ErrTeamNotFound
		}
		return fmt.Errorf("lock team: %w", err)
	}

	tasks, err := tx.Exec(ctx, deleteTeamTasks, id)
	if err != nil {
		return fmt.Errorf("delete team tasks: %w", err)
	}
	members, err := tx.Exec(ctx, deleteTeamMemberships, id)
	if err != nil {
		return fmt.Errorf("delete team memberships: %w", err)
	}
	if _, err := tx.Exec(ctx, deleteTeamQuery, id); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	p.log.Infow("team deleted", "team_id", id, "tasks", tasks.RowsAffected(), "memberships", members.RowsAffected())
	return nil
}
