package redis

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client for small TTL'd response caching. A nil *Cache
// is valid and means caching is disabled, so callers need no availability
// checks.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis. Returns nil (caching disabled) when the server
// is unreachable; the game server must run without Redis.
func NewCache(addr, password string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[REDIS] Could not connect to %s: %v, response caching disabled", addr, err)
		client.Close()
		return nil
	}

	log.Println("[REDIS] Connected successfully")
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key string, value string, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("[REDIS] Set %q failed: %v", key, err)
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
