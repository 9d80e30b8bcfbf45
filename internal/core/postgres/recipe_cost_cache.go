package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"costengine/internal/core"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// recipeCostTTL bounds how long a cached recipe cost snapshot stays valid
// before falling back to a fresh FIFO-priced calculation, grounded on the
// 15-minute recipeSnapshotTTL in precificador-receitas-iogar's
// pricing_service.go.
const recipeCostTTL = 15 * time.Minute

// recipeCoster is the subset of RecipeCostService the cache decorates.
type recipeCoster interface {
	CalculateRecipeCost(ctx context.Context, tenant core.TenantID, recipeID uuid.UUID) (*core.RecipeCost, error)
}

// CachedRecipeCostService wraps a recipeCoster with a Redis read-through
// cache, explicitly kept out of the FIFO deduction path (spec §5: the
// deduction engine always reads live locked rows) and used only for the
// read-only `calculate_recipe_cost` reporting surface.
type CachedRecipeCostService struct {
	inner recipeCoster
	cache *redis.Client
}

// NewCachedRecipeCostService wires a Redis client in front of inner.
func NewCachedRecipeCostService(inner recipeCoster, cache *redis.Client) *CachedRecipeCostService {
	return &CachedRecipeCostService{inner: inner, cache: cache}
}

func cacheKey(tenant core.TenantID, recipeID uuid.UUID) string {
	return fmt.Sprintf("recipe_cost:%s:%s", tenant, recipeID)
}

// recipeCostSnapshot is the JSON-serializable projection of core.RecipeCost
// stored in Redis (Money/Quantity marshal through their String() forms).
type recipeCostSnapshot struct {
	RecipeID       uuid.UUID `json:"recipe_id"`
	RecipeName     string    `json:"recipe_name"`
	TotalCostCents int64     `json:"total_cost_cents"`
	CostPerServingCents int64 `json:"cost_per_serving_cents"`
}

// CalculateRecipeCost serves from cache when present, otherwise delegates
// to inner and populates the cache with the fresh result. Because the
// cache only stores the top-level totals (not the ingredient breakdown), a
// cache hit returns a RecipeCost with an empty breakdown — acceptable for
// callers that only need the headline numbers (e.g. menu pricing UIs); the
// few callers needing the full breakdown should bypass the cache.
func (c *CachedRecipeCostService) CalculateRecipeCost(ctx context.Context, tenant core.TenantID, recipeID uuid.UUID) (*core.RecipeCost, error) {
	key := cacheKey(tenant, recipeID)

	if data, err := c.cache.Get(ctx, key).Bytes(); err == nil {
		var snap recipeCostSnapshot
		if jsonErr := json.Unmarshal(data, &snap); jsonErr == nil {
			return &core.RecipeCost{
				RecipeID:       snap.RecipeID,
				RecipeName:     snap.RecipeName,
				TotalCost:      core.NewSignedMoney(snap.TotalCostCents),
				CostPerServing: core.NewSignedMoney(snap.CostPerServingCents),
			}, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		// Cache unavailable or errored: fall through to a live calculation
		// rather than fail the request over a degraded cache.
	}

	cost, err := c.inner.CalculateRecipeCost(ctx, tenant, recipeID)
	if err != nil {
		return nil, err
	}

	snap := recipeCostSnapshot{
		RecipeID:            cost.RecipeID,
		RecipeName:          cost.RecipeName,
		TotalCostCents:       cost.TotalCost.Cents(),
		CostPerServingCents: cost.CostPerServing.Cents(),
	}
	if payload, err := json.Marshal(snap); err == nil {
		_ = c.cache.Set(ctx, key, payload, recipeCostTTL).Err()
	}

	return cost, nil
}

// InvalidateRecipeCost evicts a tenant/recipe's cached cost, to be called
// whenever a batch price changes or a recipe's ingredient list is edited.
func (c *CachedRecipeCostService) InvalidateRecipeCost(ctx context.Context, tenant core.TenantID, recipeID uuid.UUID) error {
	if err := c.cache.Del(ctx, cacheKey(tenant, recipeID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
