package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/marketplace/internal/domain"
)

const productKeyPrefix = "marketplace:product:"

// ProductCache is a read-through Redis cache for single-product lookups.
// Cache failures are logged and treated as misses; the database remains
// the source of truth.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProductCache creates a product cache with the given TTL.
func NewProductCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProductCache {
	return &ProductCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached product or (nil, false) on a miss.
func (c *ProductCache) Get(ctx context.Context, id string) (*domain.Product, bool) {
	data, err := c.client.Get(ctx, productKeyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "product cache read failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.WarnContext(ctx, "product cache entry corrupt, dropping",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		c.Invalidate(ctx, id)
		return nil, false
	}

	return &p, true
}

// Set stores the product under its id with the configured TTL.
func (c *ProductCache) Set(ctx context.Context, p *domain.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		c.logger.WarnContext(ctx, "product cache marshal failed",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, productKeyPrefix+p.ID, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "product cache write failed",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}
}

// Invalidate removes the cached product after a mutation.
func (c *ProductCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, productKeyPrefix+id).Err(); err != nil {
		c.logger.WarnContext(ctx, "product cache invalidation failed",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}
}
