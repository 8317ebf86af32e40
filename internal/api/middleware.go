package api

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"

const localRequestID = "request_id"

// RequestLogger assigns a request id and logs every request once it completes
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(localRequestID, rid)

		start := time.Now()
		err := c.Next()
		if err != nil {
			// Run the error handler now so the logged status is the one sent
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Info("http request",
			zap.String("request_id", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return nil
	}
}

// IPRateLimiter hands out one token bucket per client key
type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit // requests per second
	b   int        // burst
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

// GetLimiter returns the limiter for key, creating it on first use
func (i *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[key]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[key] = limiter
	}
	return limiter
}

// RateLimitByIP rejects requests once a client exceeds r requests per second
func RateLimitByIP(r rate.Limit, b int) fiber.Handler {
	limiter := NewIPRateLimiter(r, b)
	return func(c *fiber.Ctx) error {
		if !limiter.GetLimiter(c.IP()).Allow() {
			return ErrTooManyRequests
		}
		return c.Next()
	}
}
