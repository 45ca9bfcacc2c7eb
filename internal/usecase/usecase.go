// Package usecase exposes the application services consumed by the transport layer.
package usecase

import (
	"context"
	"time"

	"team-task-manager/internal/auth"
	"team-task-manager/internal/repository"
	"team-task-manager/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	AuthUsecaseInterface
	UserUsecaseInterface
	TeamUsecaseInterface
	TaskUsecaseInterface
	NotificationUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	hasher auth.PasswordHasher,
	timeout time.Duration,
) InterfaceUsecase {
	return domain.New(log, ctx, repo, hasher, timeout)
}
