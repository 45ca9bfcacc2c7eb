// Package domain contains application Usecases orchestrating the domain rules.
package domain

import (
	"context"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/policy"
)

// CreateTeam creates a team with the caller as its first admin.
func (u *Usecase) CreateTeam(ctx context.Context, callerID int64, in entities.TeamInput) (*entities.Team, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if err := in.Validate(); err != nil {
		u.log.Errorw("failed to create team: invalid input", "err", err)
		return nil, err
	}
	return u.repo.CreateTeam(ctx, callerID, in)
}

// Teams lists the caller's teams with the caller's role in each.
func (u *Usecase) Teams(ctx context.Context, callerID int64) ([]entities.TeamWithRole, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	return u.repo.ListTeamsForUser(ctx, callerID)
}

// Team returns a team the caller belongs to.
func (u *Usecase) Team(ctx context.Context, callerID, teamID int64) (*entities.Team, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	m, err := u.repo.GetMembership(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadTeam(m) {
		return nil, entities.ErrNotTeamMember
	}
	return u.repo.GetTeam(ctx, teamID)
}

// UpdateTeam renames or re-describes a team; admins only.
func (u *Usecase) UpdateTeam(ctx context.Context, callerID, teamID int64, in entities.TeamInput) (*entities.Team, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	m, err := u.repo.GetMembership(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateTeam(m) {
		return nil, entities.ErrInsufficientPermissions
	}
	return u.repo.UpdateTeam(ctx, teamID, in)
}

// DeleteTeam removes a team with its tasks and memberships; creator only.
func (u *Usecase) DeleteTeam(ctx context.Context, callerID, teamID int64) error {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	team, err := u.repo.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteTeam(callerID, *team) {
		return entities.ErrInsufficientPermissions
	}
	if err := u.repo.DeleteTeam(ctx, teamID); err != nil {
		u.log.Errorw("failed to delete team", "team_id", teamID, "err", err)
		return err
	}
	return nil
}

// Members lists the members of a team the caller belongs to.
func (u *Usecase) Members(ctx context.Context, callerID, teamID int64) ([]entities.TeamMember, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	m, err := u.repo.GetMembership(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadTeam(m) {
		return nil, entities.ErrNotTeamMember
	}
	return u.repo.ListMembers(ctx, teamID)
}

// AddMember adds an existing user to the team; admins only.
func (u *Usecase) AddMember(ctx context.Context, callerID, teamID, userID int64, role entities.Role) (*entities.Membership, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if _, err := entities.ParseRole(string(role)); err != nil {
		return nil, err
	}
	if err := u.requireAdmin(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	if _, err := u.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := u.repo.GetMembership(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, entities.ErrAlreadyMember
	}
	return u.repo.AddMember(ctx, teamID, userID, role)
}

// RemoveMember removes a member; admins only, never the sole admin nor the creator.
func (u *Usecase) RemoveMember(ctx context.Context, callerID, teamID, userID int64) error {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if err := u.requireAdmin(ctx, teamID, callerID); err != nil {
		return err
	}
	return u.repo.RemoveMember(ctx, teamID, userID, policy.GuardMemberRemoval)
}

// UpdateMemberRole switches a member between admin and member; admins only.
func (u *Usecase) UpdateMemberRole(ctx context.Context, callerID, teamID, userID int64, role entities.Role) (*entities.Membership, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if _, err := entities.ParseRole(string(role)); err != nil {
		return nil, err
	}
	if err := u.requireAdmin(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return u.repo.UpdateMemberRole(ctx, teamID, userID, role, func(target entities.Membership, adminCount int) error {
		return policy.GuardRoleChange(target, role, adminCount)
	})
}

func (u *Usecase) requireAdmin(ctx context.Context, teamID, callerID int64) error {
	m, err := u.repo.GetMembership(ctx, teamID, callerID)
	if err != nil {
		return err
	}
	if !policy.CanManageMembers(m) {
		return entities.ErrInsufficientPermissions
	}
	return nil
}
