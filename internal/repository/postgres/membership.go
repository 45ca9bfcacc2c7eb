package postgres

import (
	"context"
	"errors"
	"fmt"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	membershipColumns     = `id, user_id, team_id, role, joined_at`
	selectMembershipQuery = `SELECT ` + membershipColumns + ` FROM memberships WHERE team_id=$1 AND user_id=$2`
	insertMembershipQuery = `INSERT INTO memberships(user_id, team_id, role) VALUES ($1, $2, $3) RETURNING ` + membershipColumns
	listMembersQuery      = `
SELECT u.id, u.name, u.email, u.avatar_url, m.role, m.joined_at
FROM memberships m
JOIN users u ON u.id = m.user_id
WHERE m.team_id = $1
ORDER BY m.joined_at, m.id`
	lockTeamMembershipsQuery = `SELECT ` + membershipColumns + ` FROM memberships WHERE team_id=$1 ORDER BY id FOR UPDATE`
	deleteMembershipQuery    = `DELETE FROM memberships WHERE id=$1`
	updateMembershipRole     = `UPDATE memberships SET role=$2 WHERE id=$1 RETURNING ` + membershipColumns
	sharesTeamQuery          = `
SELECT EXISTS(
    SELECT 1 FROM memberships a
    JOIN memberships b ON b.team_id = a.team_id
    WHERE a.user_id = $1 AND b.user_id = $2
)`
)

const membershipUserTeamKey = "memberships_user_team_key"

func scanMembership(row pgx.Row) (*entities.Membership, error) {
	var m entities.Membership
	if err := row.Scan(&m.ID, &m.UserID, &m.TeamID, &m.Role, &m.JoinedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMembership returns the membership of userID in teamID, or nil when absent.
func (p *Postgres) GetMembership(ctx context.Context, teamID, userID int64) (*entities.Membership, error) {
	return getMembership(ctx, p.db, teamID, userID)
}

func getMembership(ctx context.Context, q querier, teamID, userID int64) (*entities.Membership, error) {
	m, err := scanMembership(q.QueryRow(ctx, selectMembershipQuery, teamID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

// ListMembers returns team members joined with their user data.
func (p *Postgres) ListMembers(ctx context.Context, teamID int64) ([]entities.TeamMember, error) {
	rows, err := p.db.Query(ctx, listMembersQuery, teamID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]entities.TeamMember, 0)
	for rows.Next() {
		var m entities.TeamMember
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.AvatarURL, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// AddMember inserts a membership; the unique key rejects duplicates.
func (p *Postgres) AddMember(ctx context.Context, teamID, userID int64, role entities.Role) (*entities.Membership, error) {
	m, err := scanMembership(p.db.QueryRow(ctx, insertMembershipQuery, userID, teamID, role))
	if err != nil {
		if isUniqueViolation(err, membershipUserTeamKey) {
			return nil, entities.ErrAlreadyMember
		}
		return nil, fmt.Errorf("insert membership: %w", err)
	}
	p.log.Infow("member added", "team_id", teamID, "user_id", userID, "role", role)
	return m, nil
}

// lockMemberships locks every membership row of the team and returns the target
// membership together with the admin count observed under the lock.
func lockMemberships(ctx context.Context, tx pgx.Tx, teamID, userID int64) (*entities.Membership, int, error) {
	rows, err := tx.Query(ctx, lockTeamMembershipsQuery, teamID)
	if err != nil {
		return nil, 0, fmt.Errorf("lock memberships: %w", err)
	}
	defer rows.Close()

	var (
		target *entities.Membership
		admins int
	)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan membership: %w", err)
		}
		if m.IsAdmin() {
			admins++
		}
		if m.UserID == userID {
			target = m
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate memberships: %w", err)
	}
	if target == nil {
		return nil, admins, entities.ErrMemberNotFound
	}
	return target, admins, nil
}

// RemoveMember deletes a membership after guard approves it under row locks.
func (p *Postgres) RemoveMember(ctx context.Context, teamID, userID int64, guard func(team entities.Team, target entities.Membership, adminCount int) error) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	team, err := getTeam(ctx, tx, teamID)
	if err != nil {
		return err
	}
	target, admins, err := lockMemberships(ctx, tx, teamID, userID)
	if err != nil {
		return err
	}
	if guard != nil {
		if err := guard(*team, *target, admins); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, deleteMembershipQuery, target.ID); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	p.log.Infow("member removed", "team_id", teamID, "user_id", userID)
	return nil
}

// UpdateMemberRole changes a member's role after guard approves it under row locks.
func (p *Postgres) UpdateMemberRole(ctx context.Context, teamID, userID int64, role entities.Role, guard func(target entities.Membership, adminCount int) error) (*entities.Membership, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := getTeam(ctx, tx, teamID); err != nil {
		return nil, err
	}
	target, admins, err := lockMemberships(ctx, tx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if guard != nil {
		if err := guard(*target, admins); err != nil {
			return nil, err
		}
	}

	updated, err := scanMembership(tx.QueryRow(ctx, updateMembershipRole, target.ID, role))
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("member role updated", "team_id", teamID, "user_id", userID, "role", role)
	return updated, nil
}

// SharesTeam reports whether two users have at least one team in common.
func (p *Postgres) SharesTeam(ctx context.Context, userA, userB int64) (bool, error) {
	var shares bool
	if err := p.db.QueryRow(ctx, sharesTeamQuery, userA, userB).Scan(&shares); err != nil {
		return false, fmt.Errorf("shares team: %w", err)
	}
	return shares, nil
}
