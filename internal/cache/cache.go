package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trunov/thumbd/internal/config"
)

// Cache keeps positive "thumbnail already generated" markers so repeat
// passes over the same job can skip the storage HEAD round-trip. Only
// facts that cannot go stale are cached: a marker is written strictly
// after the thumbnail upload succeeded.
type Cache struct {
	Redis     redis.UniversalClient
	Namespace string
	TTL       int // seconds
}

func NewCache(namespace string, ttl int, redisCl redis.UniversalClient) *Cache {
	return &Cache{
		Namespace: namespace,
		TTL:       ttl,
		Redis:     redisCl,
	}
}

// IsDone reports whether a marker exists for key. Any redis failure is
// treated as a miss; the caller falls back to the object store.
func (c *Cache) IsDone(ctx context.Context, key string) bool {
	v, err := c.Redis.Get(ctx, c.Namespace+":"+key).Result()
	return err == nil && v == "1"
}

// MarkDone records that the thumbnail under key is durably stored.
func (c *Cache) MarkDone(ctx context.Context, key string) {
	_ = c.Redis.Set(ctx, c.Namespace+":"+key, "1", time.Duration(c.TTL)*time.Second).Err()
}

// Delete key from Redis
func (c *Cache) Remove(ctx context.Context, key string) error {
	return c.Redis.Del(ctx, c.Namespace+":"+key).Err()
}

// NewClient dials the configured nodes in order and returns the first
// one that answers a ping.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	var stickyErr = errors.New("no nodes defined")

	for _, node := range cfg.Nodes {
		cl := redis.NewClient(&redis.Options{
			Addr:         node.Addr(),
			Password:     cfg.Password,
			DB:           cfg.DatabaseID,
			DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		})

		if err := cl.Ping(ctx).Err(); err != nil {
			stickyErr = fmt.Errorf("error pinging redis server: %w", err)
			_ = cl.Close()
			continue
		}

		return cl, nil
	}

	return nil, stickyErr
}
