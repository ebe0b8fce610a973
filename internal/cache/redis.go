package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/winklab/wink-backend/internal/config"
)

// counterTTL bounds staleness of cached unread counters; reads refresh it.
const counterTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes the Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// KeyForUnreadCount generates the key for a user's unread-notification count.
func (c *RedisCache) KeyForUnreadCount(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

// IncrUnreadCount bumps the cached unread counter after a notification is
// created. Missing keys are left missing: the next read repopulates from
// the store, so a cold cache can never undercount.
func (c *RedisCache) IncrUnreadCount(ctx context.Context, userID string) error {
	key := c.KeyForUnreadCount(userID)
	exists, err := c.Client.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return err
	}
	if err := c.Client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, counterTTL).Err()
}

// InvalidateUnreadCount drops the cached counter after a mark-read mutation;
// the next read falls back to the store.
func (c *RedisCache) InvalidateUnreadCount(ctx context.Context, userID string) error {
	return c.Client.Del(ctx, c.KeyForUnreadCount(userID)).Err()
}

// GetUnreadCount reads the cached counter. The second return reports whether
// the key was present; on a hit the TTL is refreshed since the user is active.
func (c *RedisCache) GetUnreadCount(ctx context.Context, userID string) (int64, bool, error) {
	key := c.KeyForUnreadCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	_ = c.Client.Expire(ctx, key, counterTTL).Err()
	return n, true, nil
}

// SetUnreadCount stores a counter fetched from the DB with a fresh TTL.
func (c *RedisCache) SetUnreadCount(ctx context.Context, userID string, count int64) error {
	return c.Client.Set(ctx, c.KeyForUnreadCount(userID), count, counterTTL).Err()
}
