// Package repository provides factory for repositories.
package repository

import (
	"context"
	"fmt"

	"team-task-manager/config"
	"team-task-manager/internal/repository/postgres"

	"go.uber.org/zap"
)

// Repository aggregates all persistence interfaces.
type Repository interface {
	LifecycleInterface
	UserInterface
	TeamInterface
	MembershipInterface
	TaskInterface
	NotificationInterface
	SessionInterface
}

// New constructs repository backend by name.
func New(ctx context.Context, name string, log *zap.SugaredLogger, cfg *config.Config) (Repository, error) {
	switch name {
	case "postgres":
		return &postgresRepository{Postgres: postgres.New(ctx, log, cfg)}, nil
	default:
		return nil, fmt.Errorf("unknown repo backend: %s", name)
	}
}

type postgresRepository struct {
	*postgres.Postgres
}

func (r *postgresRepository) Sessions() SessionStore {
	return r.Postgres.Sessions()
}
