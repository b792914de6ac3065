package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

// PricingCache keeps pricing rules in redis for quick access.
type PricingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPricingCache returns redis-backed cache.
func NewPricingCache(client *redis.Client, ttl time.Duration) *PricingCache {
	return &PricingCache{client: client, ttl: ttl}
}

func (c *PricingCache) key(cafeID string, tableType models.TableType) string {
	return fmt.Sprintf("pricing:%s:%s", cafeID, tableType)
}

// Get returns the cached rule, or nil when the key is absent.
func (c *PricingCache) Get(ctx context.Context, cafeID string, tableType models.TableType) (*models.PricingRule, error) {
	result, err := c.client.Get(ctx, c.key(cafeID, tableType)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rule models.PricingRule
	if err := json.Unmarshal([]byte(result), &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// Set caches rule.
func (c *PricingCache) Set(ctx context.Context, rule models.PricingRule) error {
	data, err := json.Marshal(rule)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(rule.CafeID, rule.TableType), data, c.ttl).Err()
}

