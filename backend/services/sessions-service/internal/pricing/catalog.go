// Package pricing resolves the pricing rule for a cafe and table type.
package pricing

import (
	"context"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/repository"
)

// Cache stores rules in front of the source. Get returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context, cafeID string, tableType models.TableType) (*models.PricingRule, error)
	Set(ctx context.Context, rule models.PricingRule) error
}

// Catalog is a read-only view of pricing rules with an optional read-through cache.
type Catalog struct {
	source repository.PricingSource
	cache  Cache
	logger *zap.Logger
}

// NewCatalog returns catalog. cache may be nil.
func NewCatalog(source repository.PricingSource, cache Cache, logger *zap.Logger) *Catalog {
	return &Catalog{source: source, cache: cache, logger: logger}
}

// Lookup returns the rule for (cafeID, tableType); found is false when none is configured.
func (c *Catalog) Lookup(ctx context.Context, cafeID string, tableType models.TableType) (rule *models.PricingRule, found bool, err error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, cafeID, tableType)
		if err != nil {
			c.logger.Warn("pricing cache read failed", zap.String("cafe_id", cafeID), zap.Error(err))
		} else if cached != nil {
			return cached, true, nil
		}
	}

	rule, err = c.source.GetRule(ctx, cafeID, tableType)
	if errs.Is(err, errs.KindNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, *rule); err != nil {
			c.logger.Warn("pricing cache write failed", zap.String("cafe_id", cafeID), zap.Error(err))
		}
	}
	return rule, true, nil
}

// List returns all rules of a cafe, bypassing the cache.
func (c *Catalog) List(ctx context.Context, cafeID string) ([]models.PricingRule, error) {
	return c.source.ListRules(ctx, cafeID)
}
