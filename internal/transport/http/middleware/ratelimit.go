package middleware

import (
	"strconv"
	"time"

	"team-task-manager/internal/ratelimit"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

// RedisRateLimit limits requests per client IP with a window shared through Redis.
// A Redis failure lets the request through.
func RedisRateLimit(log *zap.SugaredLogger, rl *ratelimit.RateLimiter, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := rl.Allow(c.UserContext(), "ip:"+c.IP(), limit, window)
		if err != nil {
			log.Warnw("rate limit check failed", "err", err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.FormatInt(int64(time.Until(res.ResetAt).Seconds())+1, 10))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Error: rateLimitMessage})
		}
		return c.Next()
	}
}

// MemoryRateLimit limits requests per client IP inside this process.
func MemoryRateLimit(limit int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Error: rateLimitMessage})
		},
	})
}
