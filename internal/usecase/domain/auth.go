package domain

import (
	"context"
	"errors"
	"fmt"

	"team-task-manager/internal/entities"
)

// Register creates an account with a hashed password.
func (u *Usecase) Register(ctx context.Context, in entities.Registration) (*entities.User, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", entities.ErrInvalidArgument)
	}

	existing, err := u.repo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, entities.ErrUserExists
	case err != nil && !errors.Is(err, entities.ErrUserNotFound):
		return nil, err
	}

	digest, err := u.hasher.Hash(in.Password)
	if err != nil {
		u.log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := u.repo.CreateUser(ctx, entities.NewUser{Name: in.Name, Email: in.Email, PasswordHash: digest})
	if err != nil {
		if errors.Is(err, entities.ErrEmailTaken) {
			return nil, entities.ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (u *Usecase) Login(ctx context.Context, email, password string) (*entities.User, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	user, err := u.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, entities.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := u.hasher.Compare(password, user.PasswordHash)
	if err != nil {
		u.log.Warnw("password compare failed", "user_id", user.ID, "err", err)
		return nil, entities.ErrInvalidCredentials
	}
	if !ok {
		return nil, entities.ErrInvalidCredentials
	}

	if err := u.repo.TouchLastLogin(ctx, user.ID); err != nil {
		u.log.Warnw("failed to record last login", "user_id", user.ID, "err", err)
	}
	return user, nil
}

// CurrentUser resolves the session's user. A dangling session is unauthenticated.
func (u *Usecase) CurrentUser(ctx context.Context, userID int64) (*entities.User, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if userID <= 0 {
		return nil, entities.ErrUnauthenticated
	}
	user, err := u.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, entities.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (u *Usecase) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	if next == "" {
		return entities.NewValidationError("newPassword", "newPassword is required")
	}

	user, err := u.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := u.hasher.Compare(current, user.PasswordHash)
	if err != nil || !ok {
		return entities.ErrWrongPassword
	}

	digest, err := u.hasher.Hash(next)
	if err != nil {
		u.log.Errorw("failed to hash password", "err", err)
		return err
	}
	return u.repo.UpdatePassword(ctx, userID, digest)
}

// UpdateProfile applies whitelisted profile fields to the caller's own account.
func (u *Usecase) UpdateProfile(ctx context.Context, userID int64, patch entities.ProfilePatch) (*entities.User, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	return u.updateProfile(ctx, userID, patch)
}

func (u *Usecase) updateProfile(ctx context.Context, userID int64, patch entities.ProfilePatch) (*entities.User, error) {
	if patch.Empty() {
		return nil, entities.NewValidationError("body", "at least one field must be provided")
	}
	if patch.Email != nil {
		taken, err := u.repo.EmailTaken(ctx, *patch.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, entities.ErrEmailTaken
		}
	}
	return u.repo.UpdateProfile(ctx, userID, patch)
}
