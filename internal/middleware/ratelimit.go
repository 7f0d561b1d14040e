package middleware

import (
	"sync"

	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxLimiters bounds the per-key table; it is cleared when full.
const maxLimiters = 10000

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	logger   logger.ZapLogger
}

func NewRateLimiter(perSecond float64, burst int, log logger.ZapLogger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		logger:   log,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		if len(rl.limiters) >= maxLimiters {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Handler throttles by client IP and hands refused requests to onLimit.
func (rl *RateLimiter) Handler(onLimit fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := utils.CopyString(c.IP())
		if rl.Allow(key) {
			return c.Next()
		}

		rl.logger.Warn("rate limit exceeded",
			zap.String("ip", key),
			zap.String("method", utils.CopyString(c.Method())),
			zap.String("path", utils.CopyString(c.Path())))
		c.Status(fiber.StatusTooManyRequests)
		return onLimit(c)
	}
}
