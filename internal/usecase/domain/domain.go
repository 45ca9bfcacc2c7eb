package domain

import (
	"context"
	"time"

	"team-task-manager/internal/auth"
	"team-task-manager/internal/repository"

	"go.uber.org/zap"
)

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	repo    repository.Repository
	hasher  auth.PasswordHasher
	timeout time.Duration
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	hasher auth.PasswordHasher,
	timeout time.Duration,
) *Usecase {
	return &Usecase{
		ctx:     ctx,
		log:     log.Named("usecase"),
		repo:    repo,
		hasher:  hasher,
		timeout: timeout,
	}
}

// withTimeout bounds ctx by the configured timeout. A nil ctx falls back to the
// service context; a non-positive timeout only adds cancellation.
func (u *Usecase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = u.ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if u.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.timeout)
}
