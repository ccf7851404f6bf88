package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiter yang tidak dipakai selama limiterIdle dibuang saat sweep
const limiterIdle = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

func newLimiterStore(every time.Duration, burst int, idle time.Duration) *limiterStore {
	return &limiterStore{
		limiters:  make(map[string]*limiterEntry),
		every:     rate.Every(every),
		burst:     burst,
		idle:      idle,
		lastSweep: time.Now(),
	}
}

func (s *limiterStore) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= s.idle {
		s.sweep(now)
	}

	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.every, s.burst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep dipanggil dengan mu terkunci
func (s *limiterStore) sweep(now time.Time) {
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) >= s.idle {
			delete(s.limiters, key)
		}
	}
	s.lastSweep = now
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimit batasi request per user Telegram (fallback ke IP).
// Harus dipasang setelah TelegramAuth supaya tg_user_id sudah ada.
func RateLimit(every time.Duration, burst int) fiber.Handler {
	store := newLimiterStore(every, burst, limiterIdle)

	return func(c *fiber.Ctx) error {
		key := c.IP()
		if id, ok := c.Locals("tg_user_id").(int64); ok {
			key = "tg:" + strconv.FormatInt(id, 10)
		}

		if !store.get(key, time.Now()).Allow() {
			zap.L().Warn("rate limit exceeded", zap.String("key", key), zap.String("path", c.Path()))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Слишком много запросов, попробуйте позже",
			})
		}

		return c.Next()
	}
}
