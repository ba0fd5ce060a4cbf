// Package freqcache caches unigram frequency lookups in Redis.
package freqcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Lookup is the frequency source the cache sits in front of.
type Lookup interface {
	Score(ctx context.Context, wordForm string) (int64, bool, error)
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a Redis client and pings it.
func Connect(ctx context.Context, opts Options) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return rdb, nil
}

// Cache wraps a Lookup. Counts, including zero for unknown forms, are stored
// under prefix+wordForm with a TTL. A failing Redis never fails a lookup;
// the inner source is asked instead.
type Cache struct {
	rdb    *goredis.Client
	inner  Lookup
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

// New creates a cache over inner.
func New(rdb *goredis.Client, inner Lookup, ttl time.Duration, prefix string, logger *slog.Logger) *Cache {
	return &Cache{
		rdb:    rdb,
		inner:  inner,
		ttl:    ttl,
		prefix: prefix,
		log:    logger.With("adapter", "freqcache"),
	}
}

// Score returns the count of wordForm from Redis, falling back to the inner
// lookup on a miss.
func (c *Cache) Score(ctx context.Context, wordForm string) (int64, bool, error) {
	key := c.prefix + wordForm

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if count, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			return count, count > 0, nil
		}
		c.log.WarnContext(ctx, "corrupt cache entry", slog.String("key", key), slog.String("value", raw))
	case errors.Is(err, goredis.Nil):
	case ctx.Err() != nil:
		return 0, false, ctx.Err()
	default:
		c.log.WarnContext(ctx, "cache get failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	count, found, err := c.inner.Score(ctx, wordForm)
	if err != nil {
		return 0, false, err
	}
	if !found {
		count = 0
	}

	if err := c.rdb.Set(ctx, key, count, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return count, found, nil
}
