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
	userColumns = `id, name, email, password, avatar_url, bio, timezone, language, theme,
notifications, privacy, location, job_title, company, website, phone, last_login_at, created_at, updated_at`

	insertUserQuery = `INSERT INTO users(name, email, password) VALUES ($1, $2, $3) RETURNING ` + userColumns
	selectUserByID  = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	selectUserEmail = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	emailTakenQuery = `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1 AND id <> $2)`
	updatePassword  = `UPDATE users SET password=$2, updated_at=NOW() WHERE id=$1`
	touchLastLogin  = `UPDATE users SET last_login_at=NOW() WHERE id=$1`
	listUsersQuery  = `
SELECT id, name, email, avatar_url, created_at
FROM users
WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
ORDER BY name, id
LIMIT 50`
)

const usersEmailKey = "users_email_key"

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.AvatarURL, &u.Bio, &u.Timezone, &u.Language, &u.Theme,
		&u.Notifications, &u.Privacy, &u.Location, &u.JobTitle, &u.Company, &u.Website, &u.Phone,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user with an already hashed password.
func (p *Postgres) CreateUser(ctx context.Context, in entities.NewUser) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, insertUserQuery, in.Name, in.Email, in.PasswordHash))
	if err != nil {
		if isUniqueViolation(err, usersEmailKey) {
			return nil, entities.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	p.log.Infow("user created", "user_id", u.ID)
	return u, nil
}

// GetUserByID returns a user by id.
func (p *Postgres) GetUserByID(ctx context.Context, id int64) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, selectUserByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a user by exact email.
func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, selectUserEmail, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// EmailTaken reports whether email belongs to a user other than exceptID.
func (p *Postgres) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var taken bool
	if err := p.db.QueryRow(ctx, emailTakenQuery, email, exceptID).Scan(&taken); err != nil {
		return false, fmt.Errorf("email lookup: %w", err)
	}
	return taken, nil
}

// UpdateProfile applies whitelisted profile fields and returns the fresh row.
func (p *Postgres) UpdateProfile(ctx context.Context, id int64, patch entities.ProfilePatch) (*entities.User, error) {
	if patch.Empty() {
		return p.GetUserByID(ctx, id)
	}

	sets, args := buildProfileSet(patch)
	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(sets, ", ") + ", updated_at=NOW() WHERE id=$" +
		strconv.Itoa(len(args)) + " RETURNING " + userColumns

	u, err := scanUser(p.db.QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, entities.ErrUserNotFound
		case isUniqueViolation(err, usersEmailKey):
			return nil, entities.ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	p.log.Infow("profile updated", "user_id", id, "fields", len(sets))
	return u, nil
}

func buildProfileSet(patch entities.ProfilePatch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+"=$"+strconv.Itoa(len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.AvatarURL.Set {
		add("avatar_url", patch.AvatarURL.Value)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}
	if patch.Timezone != nil {
		add("timezone", *patch.Timezone)
	}
	if patch.Language != nil {
		add("language", *patch.Language)
	}
	if patch.Theme != nil {
		add("theme", *patch.Theme)
	}
	if patch.Notifications != nil {
		add("notifications", patch.Notifications)
	}
	if patch.Privacy != nil {
		add("privacy", patch.Privacy)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.JobTitle != nil {
		add("job_title", *patch.JobTitle)
	}
	if patch.Company != nil {
		add("company", *patch.Company)
	}
	if patch.Website != nil {
		add("website", *patch.Website)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	return sets, args
}

// UpdatePassword stores a new password digest.
func (p *Postgres) UpdatePassword(ctx context.Context, id int64, digest string) error {
	tag, err := p.db.Exec(ctx, updatePassword, id, digest)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}

// TouchLastLogin records a successful login.
func (p *Postgres) TouchLastLogin(ctx context.Context, id int64) error {
	if _, err := p.db.Exec(ctx, touchLastLogin, id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// ListUsers returns public user projections matching query by name or email.
func (p *Postgres) ListUsers(ctx context.Context, query string) ([]entities.UserBrief, error) {
	rows, err := p.db.Query(ctx, listUsersQuery, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]entities.UserBrief, 0)
	for rows.Next() {
		var u entities.UserBrief
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
