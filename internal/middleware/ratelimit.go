package middleware

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	// IdleTimeout is how long a client's limiter is kept after its last
	// request. Defaults to ten minutes.
	IdleTimeout time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter limits HTTP requests globally and per client IP.
type RateLimiter struct {
	config RateLimitConfig

	globalLimiter  *rate.Limiter
	clientLimiters sync.Map
	lastSweep      atomic.Int64

	now func() time.Time
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 600
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}

	rl := &RateLimiter{
		config: cfg,
		// the global bucket admits ten clients' worth of traffic
		globalLimiter: rate.NewLimiter(
			rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute*10)),
			cfg.Burst*10,
		),
		now: time.Now,
	}
	rl.lastSweep.Store(rl.now().UnixNano())
	return rl
}

func (rl *RateLimiter) clientLimiter(ip string, now time.Time) *rate.Limiter {
	entry, ok := rl.clientLimiters.Load(ip)
	if !ok {
		entry, _ = rl.clientLimiters.LoadOrStore(ip, &clientLimiter{
			limiter: rate.NewLimiter(
				rate.Every(time.Minute/time.Duration(rl.config.RequestsPerMinute)),
				rl.config.Burst,
			),
		})
	}
	client := entry.(*clientLimiter)
	client.lastSeen.Store(now.UnixNano())
	return client.limiter
}

// sweep drops limiters idle for longer than IdleTimeout. At most one sweep
// runs per IdleTimeout.
func (rl *RateLimiter) sweep(now time.Time) {
	last := rl.lastSweep.Load()
	if now.UnixNano()-last < int64(rl.config.IdleTimeout) {
		return
	}
	if !rl.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-rl.config.IdleTimeout).UnixNano()
	rl.clientLimiters.Range(func(key, value any) bool {
		if value.(*clientLimiter).lastSeen.Load() < cutoff {
			rl.clientLimiters.Delete(key)
		}
		return true
	})
}

// Clients is the number of client limiters currently held.
func (rl *RateLimiter) Clients() int {
	n := 0
	rl.clientLimiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := rl.now()
		rl.sweep(now)

		if !rl.globalLimiter.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Global rate limit exceeded",
			})
		}

		if !rl.clientLimiter(c.IP(), now).Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Client rate limit exceeded",
			})
		}

		return c.Next()
	}
}
