package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"jobboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when Redis cannot be reached.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed answers 503.
	FailClosed
)

var errNoRateStore = errors.New("rate limit store not configured")

// rateWindow is the state of one fixed window counter after a hit.
type rateWindow struct {
	count int64
	reset time.Duration
}

func rateLimitBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development":
		return true
	}
	return false
}

// hit increments the fixed window counter for resource/id and reports the
// new count with the time left in the window.
func hit(ctx context.Context, rdb *redis.Client, resource, id string, window time.Duration) (rateWindow, error) {
	if rdb == nil {
		return rateWindow{}, errNoRateStore
	}
	key := "rl:" + resource + ":" + id

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return rateWindow{}, err
	}
	reset := ttl.Val()
	if reset <= 0 {
		reset = window
	}
	return rateWindow{count: incr.Val(), reset: reset}, nil
}

// CheckRateLimit reports whether another request for resource/id fits in
// the window. It always allows when APP_ENV is empty, test or development.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rateLimitBypassed() {
		return true, nil
	}
	w, err := hit(ctx, rdb, resource, id, window)
	if err != nil {
		return false, err
	}
	return w.count <= int64(limit), nil
}

// RateLimit limits a route to limit requests per window, failing open.
// Callers are keyed by user ID once authenticated, by IP otherwise.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit FailPolicy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rateLimitBypassed() {
			return c.Next()
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}
		caller := "ip:" + c.IP()
		if uid := UserIDFrom(c); uid != 0 {
			caller = fmt.Sprintf("user:%d", uid)
		}

		w, err := hit(c.UserContext(), rdb, resource, caller, window)
		if err != nil {
			if policy == FailOpen {
				return c.Next()
			}
			Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
				slog.String("resource", resource), slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusServiceUnavailable,
				models.NewError(models.CodeInternal, "Rate limit unavailable"))
		}

		remaining := int64(limit) - w.count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if w.count > int64(limit) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(w.reset.Round(time.Second)/time.Second)))
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewError(models.CodeRateLimited, "Too many requests, please try again later"))
		}
		return c.Next()
	}
}
