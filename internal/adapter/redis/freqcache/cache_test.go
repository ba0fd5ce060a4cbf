package freqcache_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mideind/IcelandicEval/internal/adapter/redis/freqcache"
	"github.com/mideind/IcelandicEval/internal/domain"
)

var (
	once      sync.Once
	sharedURL string
	initErr   error
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupRedis starts a shared Redis container once per test run.
func setupRedis(t *testing.T) *goredis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("redis tests skipped in -short mode")
	}

	once.Do(func() {
		sharedURL, initErr = startRedis()
	})
	require.NoError(t, initErr)

	rdb, err := freqcache.Connect(context.Background(), freqcache.Options{Addr: sharedURL})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func startRedis() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}
	return fmt.Sprintf("%s:%s", host, port.Port()), nil
}

type countingLookup struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
	calls  int
}

func (l *countingLookup) Score(_ context.Context, word string) (int64, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return 0, false, l.err
	}
	c, ok := l.counts[word]
	return c, ok && c > 0, nil
}

func uniquePrefix(t *testing.T) string {
	return fmt.Sprintf("test:%s:%d:", t.Name(), time.Now().UnixNano())
}

func TestCache_HitAfterMiss(t *testing.T) {
	t.Parallel()
	rdb := setupRedis(t)
	inner := &countingLookup{counts: map[string]int64{"stóll": 40}}
	cache := freqcache.New(rdb, inner, time.Minute, uniquePrefix(t), newTestLogger())
	ctx := context.Background()

	for range 3 {
		count, found, err := cache.Score(ctx, "stóll")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(40), count)
	}
	assert.Equal(t, 1, inner.calls, "inner lookup should run once")
}

func TestCache_CachesUnknownForms(t *testing.T) {
	t.Parallel()
	rdb := setupRedis(t)
	inner := &countingLookup{counts: map[string]int64{}}
	cache := freqcache.New(rdb, inner, time.Minute, uniquePrefix(t), newTestLogger())
	ctx := context.Background()

	for range 2 {
		count, found, err := cache.Score(ctx, "xyzzy")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Zero(t, count)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCache_InnerErrorNotCached(t *testing.T) {
	t.Parallel()
	rdb := setupRedis(t)
	inner := &countingLookup{err: domain.ErrLookupUnavailable}
	prefix := uniquePrefix(t)
	cache := freqcache.New(rdb, inner, time.Minute, prefix, newTestLogger())
	ctx := context.Background()

	_, _, err := cache.Score(ctx, "borð")
	require.ErrorIs(t, err, domain.ErrLookupUnavailable)

	_, err = rdb.Get(ctx, prefix+"borð").Result()
	assert.True(t, errors.Is(err, goredis.Nil), "failed lookups must not be cached")
}

func TestCache_TTLApplied(t *testing.T) {
	t.Parallel()
	rdb := setupRedis(t)
	inner := &countingLookup{counts: map[string]int64{"borð": 5}}
	prefix := uniquePrefix(t)
	cache := freqcache.New(rdb, inner, time.Hour, prefix, newTestLogger())
	ctx := context.Background()

	_, _, err := cache.Score(ctx, "borð")
	require.NoError(t, err)

	ttl, err := rdb.TTL(ctx, prefix+"borð").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestCache_RedisDownFallsThrough(t *testing.T) {
	t.Parallel()

	// Nothing listens on port 1; every Redis call fails fast.
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	inner := &countingLookup{counts: map[string]int64{"kona": 12}}
	cache := freqcache.New(rdb, inner, time.Minute, "test:", newTestLogger())

	count, found, err := cache.Score(context.Background(), "kona")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(12), count)
	assert.Equal(t, 1, inner.calls)
}
