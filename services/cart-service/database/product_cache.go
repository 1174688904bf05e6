package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopswift/commerce-backend/services/cart-service/models"
	"github.com/shopswift/commerce-backend/services/common/logger"
	"go.uber.org/zap"
)

const ProductSummaryCachePrefix = "product:summary:"

// SummaryCache stores product summaries by canonical ref.
type SummaryCache interface {
	GetMany(ctx context.Context, refs []models.Ref) (map[models.Ref]*models.ProductSummary, error)
	SetMany(ctx context.Context, summaries []*models.ProductSummary) error
}

// SummarySource is the authoritative product lookup.
type SummarySource interface {
	FindSummaries(ctx context.Context, refs []models.Ref) (map[models.Ref]*models.ProductSummary, error)
}

// RedisProductCache keeps JSON summaries in Redis with a fixed TTL.
type RedisProductCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{redis: client, ttl: ttl}
}

func summaryKey(ref models.Ref) string {
	return ProductSummaryCachePrefix + ref.Canonical().String()
}

func (c *RedisProductCache) GetMany(ctx context.Context, refs []models.Ref) (map[models.Ref]*models.ProductSummary, error) {
	out := make(map[models.Ref]*models.ProductSummary, len(refs))
	if len(refs) == 0 {
		return out, nil
	}

	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = summaryKey(ref)
	}

	vals, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var summary models.ProductSummary
		if err := json.Unmarshal([]byte(s), &summary); err != nil {
			logger.Warn(ctx, "dropping unreadable cached product summary", zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		out[refs[i]] = &summary
	}
	return out, nil
}

func (c *RedisProductCache) SetMany(ctx context.Context, summaries []*models.ProductSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	pipe := c.redis.Pipeline()
	for _, s := range summaries {
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		pipe.Set(ctx, summaryKey(s.ID), data, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// CachedProductReader is a read-through cache in front of the product
// collection. Cache failures degrade to a direct read.
type CachedProductReader struct {
	cache  SummaryCache
	source SummarySource
}

func NewCachedProductReader(cache SummaryCache, source SummarySource) *CachedProductReader {
	return &CachedProductReader{cache: cache, source: source}
}

func (r *CachedProductReader) FindSummaries(ctx context.Context, refs []models.Ref) (map[models.Ref]*models.ProductSummary, error) {
	found, err := r.cache.GetMany(ctx, refs)
	if err != nil {
		logger.Warn(ctx, "product cache read failed", zap.Error(err))
		found = make(map[models.Ref]*models.ProductSummary, len(refs))
	}

	var missing []models.Ref
	for _, ref := range refs {
		if _, ok := found[ref]; !ok {
			missing = append(missing, ref)
		}
	}
	if len(missing) == 0 {
		return found, nil
	}

	fresh, err := r.source.FindSummaries(ctx, missing)
	if err != nil {
		return nil, err
	}

	toCache := make([]*models.ProductSummary, 0, len(fresh))
	for ref, s := range fresh {
		found[ref] = s
		toCache = append(toCache, s)
	}
	if err := r.cache.SetMany(ctx, toCache); err != nil {
		logger.Warn(ctx, "product cache write failed", zap.Error(err))
	}
	return found, nil
}
