package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"helpdesk/internal/shared/logger"
)

const (
	viewKeyPrefix        = "helpdesk:view:"
	viewGenerationPrefix = "helpdesk:view:gen:"
)

// ViewCache stores rendered view data per page path. Invalidating a path
// drops every variant cached under it.
//
// Get returns the entry key for the generation current at lookup time; Set
// writes under that key, so data read before an invalidation is never
// stored as current. An empty key disables the Set.
type ViewCache interface {
	Get(ctx context.Context, path, variant string) (data []byte, key string, ok bool)
	Set(ctx context.Context, key string, data []byte)
	Invalidate(ctx context.Context, paths ...string)
}

// RedisViewCache namespaces entries by a per-path generation counter;
// invalidation bumps the counter and old entries age out by TTL.
type RedisViewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisViewCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisViewCache {
	return &RedisViewCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get reports a miss on any redis failure; the caller then reads the database.
func (c *RedisViewCache) Get(ctx context.Context, path, variant string) ([]byte, string, bool) {
	key, err := c.entryKey(ctx, path, variant)
	if err != nil {
		c.logger.Warnw("view cache generation lookup failed", "path", path, "error", err)
		return nil, "", false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("view cache get failed", "path", path, "error", err)
		}
		return nil, key, false
	}
	return data, key, true
}

func (c *RedisViewCache) Set(ctx context.Context, key string, data []byte) {
	if key == "" {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warnw("view cache set failed", "key", key, "error", err)
	}
}

func (c *RedisViewCache) Invalidate(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}

	pipe := c.client.TxPipeline()
	for _, path := range paths {
		pipe.Incr(ctx, viewGenerationPrefix+path)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Errorw("view cache invalidation failed", "paths", paths, "error", err)
		return
	}

	c.logger.Debugw("view cache invalidated", "paths", paths)
}

func (c *RedisViewCache) entryKey(ctx context.Context, path, variant string) (string, error) {
	gen, err := c.client.Get(ctx, viewGenerationPrefix+path).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s%s:%d:%s", viewKeyPrefix, path, gen, variant), nil
}

// NoopViewCache is used when redis is disabled. Every read misses.
type NoopViewCache struct{}

func (NoopViewCache) Get(context.Context, string, string) ([]byte, string, bool) { return nil, "", false }
func (NoopViewCache) Set(context.Context, string, []byte)                        {}
func (NoopViewCache) Invalidate(context.Context, ...string)                      {}
