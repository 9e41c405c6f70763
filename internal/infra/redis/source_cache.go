package redis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"terminal-quiz/internal/content"
)

// CachedSource is a read-through Redis cache in front of another content.Source.
// Raw documents are stored as: HSET quiz:source:{key} format {format} data {bytes}
// Redis failures are logged and fall back to the wrapped source.
type CachedSource struct {
	client *redis.Client
	next   content.Source
	ttl    time.Duration
	logger *zap.Logger
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCachedSource(client *redis.Client, next content.Source, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Resolve is delegated; only reads are cached.
func (c *CachedSource) Resolve(ctx context.Context, ref content.Ref) (content.Location, error) {
	return c.next.Resolve(ctx, ref)
}

func (c *CachedSource) Read(ctx context.Context, loc content.Location) ([]byte, error) {
	key := c.key(loc.Key)

	if data, ok := c.cached(ctx, key); ok {
		return data, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if data, ok := c.cached(flightCtx, key); ok {
			return data, nil
		}

		data, err := c.next.Read(flightCtx, loc)
		if err != nil {
			return nil, err
		}

		pipe := c.client.Pipeline()
		pipe.HSet(flightCtx, key, "format", string(loc.Format), "data", data)
		if ttl := c.ttlWithJitter(); ttl > 0 {
			pipe.Expire(flightCtx, key, ttl)
		}
		if _, err := pipe.Exec(flightCtx); err != nil {
			c.logger.Warn("redis cache write failed", zap.String("key", key), zap.Error(err))
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *CachedSource) cached(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.HGet(ctx, key, "data").Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("redis cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, true
}

func (c *CachedSource) key(sourceKey string) string {
	return "quiz:source:" + sourceKey
}

func (c *CachedSource) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
