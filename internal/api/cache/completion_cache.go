package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CompletionCache caches derived course completion percentages. It is a pure
// read-through cache: a miss or any redis failure falls back to the database.
type CompletionCache interface {
	Get(ctx context.Context, studentID string, courseID int64) (float64, bool)
	Set(ctx context.Context, studentID string, courseID int64, percentage float64)
	Invalidate(ctx context.Context, studentID string, courseID int64)
}

type redisCompletionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCompletionCache connects to redis and verifies the connection.
func NewRedisCompletionCache(redisURL, password string, ttl time.Duration) (CompletionCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCompletionCache{client: rdb, ttl: ttl}, nil
}

func completionKey(studentID string, courseID int64) string {
	return fmt.Sprintf("completion:student:%s:course:%d", studentID, courseID)
}

func (c *redisCompletionCache) Get(ctx context.Context, studentID string, courseID int64) (float64, bool) {
	val, err := c.client.Get(ctx, completionKey(studentID, courseID)).Result()
	if err != nil {
		// redis.Nil on miss; anything else degrades to a database read
		return 0, false
	}
	pct, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}

func (c *redisCompletionCache) Set(ctx context.Context, studentID string, courseID int64, percentage float64) {
	// Best-effort; errors are ignored, the database stays authoritative.
	c.client.Set(ctx, completionKey(studentID, courseID), strconv.FormatFloat(percentage, 'f', 2, 64), c.ttl)
}

func (c *redisCompletionCache) Invalidate(ctx context.Context, studentID string, courseID int64) {
	c.client.Del(ctx, completionKey(studentID, courseID))
}

// NoopCompletionCache is used when redis is not configured and in tests.
type NoopCompletionCache struct{}

func (NoopCompletionCache) Get(ctx context.Context, studentID string, courseID int64) (float64, bool) {
	return 0, false
}
func (NoopCompletionCache) Set(ctx context.Context, studentID string, courseID int64, percentage float64) {
}
func (NoopCompletionCache) Invalidate(ctx context.Context, studentID string, courseID int64) {}
