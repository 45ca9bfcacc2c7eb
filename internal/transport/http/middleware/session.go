package middleware

import (
	"context"
	"errors"
	"time"

	"team-task-manager/config"
	"team-task-manager/internal/entities"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionUserKey = "user_id"
	localsUserKey  = "user"
)

// UserResolver loads the account bound to a session.
type UserResolver interface {
	CurrentUser(ctx context.Context, userID int64) (*entities.User, error)
}

// Sessions binds user identities to cookie sessions kept in storage.
type Sessions struct {
	log   *zap.SugaredLogger
	store *session.Store
	users UserResolver
}

// NewSessions builds the cookie session store over storage.
func NewSessions(log *zap.SugaredLogger, cfg config.SessionConfig, storage fiber.Storage, users UserResolver) *Sessions {
	expiration := cfg.Expiration
	if expiration <= 0 {
		expiration = sessionTTL
	}
	store := session.New(session.Config{
		Expiration:     expiration,
		Storage:        storage,
		KeyLookup:      "cookie:" + cfg.CookieName,
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
	})
	return &Sessions{log: log.Named("sessions"), store: store, users: users}
}

// Login starts a fresh session bound to userID.
func (s *Sessions) Login(c *fiber.Ctx, userID int64) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserKey, userID)
	return sess.Save()
}

// Logout destroys the current session. Without a session it is a no-op.
func (s *Sessions) Logout(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	if sess.Fresh() {
		return nil
	}
	return sess.Destroy()
}

// UserID returns the user bound to the request's session.
func (s *Sessions) UserID(c *fiber.Ctx) (int64, bool) {
	sess, err := s.store.Get(c)
	if err != nil {
		s.log.Warnw("session lookup failed", "err", err)
		return 0, false
	}
	id, ok := sess.Get(sessionUserKey).(int64)
	return id, ok && id > 0
}

// RequireAuth rejects requests without a session bound to an existing user and
// exposes the user through CurrentUser.
func (s *Sessions) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := s.UserID(c)
		if !ok {
			return unauthenticated(c)
		}
		user, err := s.users.CurrentUser(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, entities.ErrUnauthenticated) {
				return unauthenticated(c)
			}
			s.log.Errorw("failed to resolve session user", "user_id", userID, "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
		}
		c.Locals(localsUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by RequireAuth.
func CurrentUser(c *fiber.Ctx) (*entities.User, bool) {
	user, ok := c.Locals(localsUserKey).(*entities.User)
	return user, ok && user != nil
}

// WithUser attaches user to the request, as RequireAuth does.
func WithUser(c *fiber.Ctx, user *entities.User) {
	c.Locals(localsUserKey, user)
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Not authenticated"})
}

// sessionTTL is the cookie lifetime applied when none is configured.
const sessionTTL = 30 * 24 * time.Hour
