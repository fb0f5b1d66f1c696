package search

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Aum2411/Task-4-Raag/internal/log"
	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/go-redis/redis/v8"
)

const (
	cacheTTL     = 10 * time.Minute
	cacheTimeout = 2 * time.Second
)

// cacheBackend is the slice of the redis client the cache needs, so tests
// can substitute an in-memory fake.
type cacheBackend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisBackend struct {
	rdb *redis.Client
}

func (b redisBackend) Get(ctx context.Context, key string) (string, error) {
	return b.rdb.Get(ctx, key).Result()
}

func (b redisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return b.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedSearcher caches search responses in Redis. Cache failures fall
// through to the live search; a nil client disables caching entirely.
type CachedSearcher struct {
	inner   Searcher
	backend cacheBackend
}

func NewCachedSearcher(inner Searcher, rdb *redis.Client) *CachedSearcher {
	c := &CachedSearcher{inner: inner}
	if rdb != nil {
		c.backend = redisBackend{rdb: rdb}
	}
	return c
}

func (c *CachedSearcher) Search(ctx context.Context, query string, num int) (*models.WebSearch, error) {
	if c.backend == nil {
		return c.inner.Search(ctx, query, num)
	}

	key := cacheKey(query, num)
	cctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()
	if data, err := c.backend.Get(cctx, key); err == nil {
		var cached models.WebSearch
		if err := json.Unmarshal([]byte(data), &cached); err == nil {
			log.GetLogger().Debugf("Search cache hit for %q", query)
			return &cached, nil
		}
	}

	result, err := c.inner.Search(ctx, query, num)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		sctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
		defer cancel()
		if err := c.backend.Set(sctx, key, string(data), cacheTTL); err != nil {
			log.GetLogger().Debugf("Search cache write failed: %v", err)
		}
	}
	return result, nil
}

func cacheKey(query string, num int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%d", query, num)))
	return fmt.Sprintf("serper:%x", sum)
}
