package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const listCacheKeyPrefix = "collection:"

// CachedDocuments caches whole-collection listings in Redis. Every create,
// update and delete drops the collection's cached listing, whether or not
// the underlying call succeeded.
type CachedDocuments struct {
	next   DocumentStore
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewCachedDocuments(next DocumentStore, client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *CachedDocuments {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CachedDocuments{next: next, redis: client, ttl: ttl, logger: logger}
}

func listCacheKey(collection string) string {
	return listCacheKeyPrefix + collection
}

func (c *CachedDocuments) List(ctx context.Context, collection string) ([]Document, error) {
	key := listCacheKey(collection)

	cached, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var docs []Document
		if err := json.Unmarshal([]byte(cached), &docs); err == nil {
			return docs, nil
		}
		c.logger.Warnw("discarding undecodable cached listing", "collection", collection)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warnw("list cache read failed", "collection", collection, "error", err)
	}

	docs, err := c.next.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	if body, err := json.Marshal(docs); err == nil {
		if err := c.redis.Set(ctx, key, string(body), c.ttl).Err(); err != nil {
			c.logger.Warnw("list cache write failed", "collection", collection, "error", err)
		}
	}
	return docs, nil
}

func (c *CachedDocuments) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	defer c.invalidate(ctx, collection)
	return c.next.Create(ctx, collection, fields)
}

func (c *CachedDocuments) Update(ctx context.Context, collection, id string, fields Fields) error {
	defer c.invalidate(ctx, collection)
	return c.next.Update(ctx, collection, id, fields)
}

func (c *CachedDocuments) Delete(ctx context.Context, collection, id string) error {
	defer c.invalidate(ctx, collection)
	return c.next.Delete(ctx, collection, id)
}

func (c *CachedDocuments) invalidate(ctx context.Context, collection string) {
	if err := c.redis.Del(ctx, listCacheKey(collection)).Err(); err != nil {
		c.logger.Warnw("list cache invalidation failed", "collection", collection, "error", err)
	}
}
