package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tajious/visitdesk/internal/models"
)

// IdentityCache remembers resolved sessions per token so the identity is
// fetched once per token. Get returns nil, nil on a miss.
type IdentityCache interface {
	Get(ctx context.Context, token string) (*models.Session, error)
	Set(ctx context.Context, token string, sess *models.Session, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, token string) (*models.Session, error) {
	data, err := c.client.Get(ctx, cacheKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *RedisCache) Set(ctx context.Context, token string, sess *models.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(token), data, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, cacheKey(token)).Err()
}

type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
}

type cacheEntry struct {
	session   models.Session
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: make(map[string]*cacheEntry),
	}
}

func (c *MemoryCache) Get(ctx context.Context, token string) (*models.Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[cacheKey(token)]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	sess := entry.session
	return &sess, nil
}

func (c *MemoryCache) Set(ctx context.Context, token string, sess *models.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, k)
		}
	}

	c.store[cacheKey(token)] = &cacheEntry{
		session:   *sess,
		expiresAt: now.Add(ttl),
	}
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, cacheKey(token))
	return nil
}
