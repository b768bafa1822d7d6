package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/tajious/visitdesk/internal/session"
)

// RateLimitStore counts hits per key within a fixed window.
type RateLimitStore interface {
	// Hit records one hit and returns the count so far and the time left in
	// the window.
	Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return 1, window, nil
	}
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		// Counter lost its expiry; restart the window.
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = window
	}
	return int(count), ttl, nil
}

type MemoryStore struct {
	mu    sync.Mutex
	store map[string]*RateLimitEntry
	now   func() time.Time
}

type RateLimitEntry struct {
	Count     int
	ExpiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		store: make(map[string]*RateLimitEntry),
		now:   time.Now,
	}
}

func (s *MemoryStore) Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, entry := range s.store {
		if !now.Before(entry.ExpiresAt) {
			delete(s.store, k)
		}
	}

	entry, exists := s.store[key]
	if !exists {
		entry = &RateLimitEntry{ExpiresAt: now.Add(window)}
		s.store[key] = entry
	}
	entry.Count++
	return entry.Count, entry.ExpiresAt.Sub(now), nil
}

type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

// RateLimiter throttles requests per client IP and, when the request carries
// a session token, per session.
type RateLimiter struct {
	store  RateLimitStore
	config RateLimitConfig
}

func NewRateLimiter(store RateLimitStore, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		store:  store,
		config: config,
	}
}

func (r *RateLimiter) RateLimit(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !r.config.Enabled || r.config.Limit <= 0 {
			return c.Next()
		}

		keys := []string{"rate_limit:" + scope + ":ip:" + c.IP()}
		if token := tokenOf(c); token != "" {
			sum := sha256.Sum256([]byte(token))
			keys = append(keys, "rate_limit:"+scope+":session:"+hex.EncodeToString(sum[:8]))
		}

		remaining := r.config.Limit
		for _, key := range keys {
			count, retry, err := r.store.Hit(c.UserContext(), key, r.config.Window)
			if err != nil {
				log.Printf("rate limit: store unavailable, allowing request: %v", err)
				return c.Next()
			}
			if count > r.config.Limit {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retry.Round(time.Second).Seconds())))
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many attempts. Please wait a moment and try again.",
				})
			}
			if left := r.config.Limit - count; left < remaining {
				remaining = left
			}
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(r.config.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		return c.Next()
	}
}

func tokenOf(c *fiber.Ctx) string {
	if token := c.Cookies(session.TokenKey); token != "" {
		return token
	}
	if token, ok := c.Locals(localsToken).(string); ok {
		return token
	}
	return ""
}
