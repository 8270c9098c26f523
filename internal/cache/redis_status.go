package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/config"
)

// redisStatusCache implements StatusCache on Redis.
type redisStatusCache struct {
	client *redis.Client
	prefix string
}

// NewRedisStatusCache connects to Redis and returns a StatusCache.
func NewRedisStatusCache(cfg config.RedisConfig) (StatusCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "chat:status"
	}

	return &redisStatusCache{client: client, prefix: prefix}, nil
}

func (c *redisStatusCache) key(userID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, userID)
}

func (c *redisStatusCache) SetOnline(ctx context.Context, userID string, online bool) error {
	val := "0"
	if online {
		val = "1"
	}
	return c.client.Set(ctx, c.key(userID), val, 0).Err()
}

func (c *redisStatusCache) IsOnline(ctx context.Context, userID string) (bool, error) {
	val, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, ErrCacheMiss
		}
		return false, fmt.Errorf("failed to read status from redis: %w", err)
	}
	return val == "1", nil
}

func (c *redisStatusCache) Close() error {
	return c.client.Close()
}
