package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

const cycleCacheKeyPrefix = "billing-cycle:"

// redisCycleCache implements the adapter.CycleCache interface backed by Redis.
type redisCycleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCycleCache creates a new Redis-backed cycle cache instance.
func NewRedisCycleCache(client *redis.Client, ttl time.Duration) adapter.CycleCache {
	return &redisCycleCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cached cycle inference for the vendor. A cache miss is
// reported as (nil, false, nil).
func (c *redisCycleCache) Get(ctx context.Context, vendorID uuid.UUID) (*entity.CycleInference, bool, error) {
	payload, err := c.client.Get(ctx, cycleCacheKey(vendorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cycle cache: %w", err)
	}

	var inference entity.CycleInference
	if err := json.Unmarshal(payload, &inference); err != nil {
		// A corrupt entry is treated as a miss so it gets rewritten.
		return nil, false, nil
	}
	return &inference, true, nil
}

// Set stores a cycle inference for the vendor with the configured TTL.
func (c *redisCycleCache) Set(ctx context.Context, vendorID uuid.UUID, inference *entity.CycleInference) error {
	payload, err := json.Marshal(inference)
	if err != nil {
		return fmt.Errorf("failed to marshal cycle inference: %w", err)
	}

	if err := c.client.Set(ctx, cycleCacheKey(vendorID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cycle cache: %w", err)
	}
	return nil
}

func cycleCacheKey(vendorID uuid.UUID) string {
	return cycleCacheKeyPrefix + vendorID.String()
}
