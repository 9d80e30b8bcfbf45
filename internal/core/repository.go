package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BatchStore, MovementLog, CatalogReader and SaleLog are the capability
// interfaces spec §9 mandates be preserved rather than collapsed into free
// functions: each service depends on an interface, never a concrete SQL
// type, so tests substitute in-memory fakes (grounded on the
// pricingRepository interface pattern in precificador-receitas-iogar's
// pricing_service.go). Tx is the ambient transaction handle threaded through
// every method so that a whole operation commits or rolls back atomically
// (§4.3 step 1/5).
type Tx interface {
	Commit() error
	Rollback() error
}

// BatchStore persists batches and enforces the FOR UPDATE locking contract
// of spec §4.2.
type BatchStore interface {
	// Begin opens a transaction scoped to the caller.
	Begin(ctx context.Context) (Tx, error)

	// Insert creates a batch within tx. It does not check the ingredient;
	// InventoryService.AddBatch rejects unknown or inactive ingredients
	// before calling it.
	Insert(ctx context.Context, tx Tx, b Batch) (uuid.UUID, error)

	// Find loads a batch by (id, tenant); returns nil, nil if absent.
	Find(ctx context.Context, tenant TenantID, id uuid.UUID) (*Batch, error)

	// ListByTenant returns every batch owned by tenant, ordered by
	// received_at desc (external interface table's `list_batches`).
	ListByTenant(ctx context.Context, tenant TenantID) ([]Batch, error)

	// LockActiveFIFO enumerates active batches for (tenant, ingredient)
	// with remaining > 0, in FIFO order, acquiring a row-level write lock
	// held for the life of tx. This is the locking read spec §4.2 requires.
	LockActiveFIFO(ctx context.Context, tx Tx, tenant TenantID, ingredient uuid.UUID) ([]Batch, error)

	// LockExpired enumerates active batches with expires_at < asOf and
	// remaining > 0, locked for the life of tx (used by the sweeper).
	LockExpired(ctx context.Context, tx Tx, tenant TenantID, asOf time.Time) ([]Batch, error)

	// ListActiveByIngredient returns every active batch with remaining > 0
	// for tenant, used by alert aggregation and recipe costing (no lock:
	// read-only reporting path, never participates in deduction).
	ListActiveByIngredient(ctx context.Context, tenant TenantID) ([]Batch, error)

	// Update persists remaining/status/price/expires_at/updated_at for a
	// batch already loaded within tx, filtered by (id, tenant).
	Update(ctx context.Context, tx Tx, b Batch) error
}

// MovementLog appends immutable audit records.
type MovementLog interface {
	Append(ctx context.Context, tx Tx, m Movement) error
	ListByBatch(ctx context.Context, tenant TenantID, batchID uuid.UUID) ([]Movement, error)
	ListByKindSince(ctx context.Context, tenant TenantID, kind MovementKind, since time.Time) ([]Movement, error)
}

// CatalogReader resolves catalog ingredients and their per-tenant overrides.
type CatalogReader interface {
	Find(ctx context.Context, id uuid.UUID) (*CatalogIngredient, error)
	ListActive(ctx context.Context) ([]CatalogIngredient, error)
	FindOverride(ctx context.Context, tenant TenantID, ingredient uuid.UUID) (*TenantIngredientOverride, error)
}

// RecipeStore persists recipes.
type RecipeStore interface {
	Find(ctx context.Context, tenant TenantID, id uuid.UUID) (*Recipe, error)
	Insert(ctx context.Context, r Recipe) (uuid.UUID, error)
	Update(ctx context.Context, r Recipe) error
	ListByTenant(ctx context.Context, tenant TenantID) ([]Recipe, error)
}

// DishStore persists dishes.
type DishStore interface {
	Find(ctx context.Context, tenant TenantID, id uuid.UUID) (*Dish, error)
	Insert(ctx context.Context, d Dish) (uuid.UUID, error)
	Update(ctx context.Context, d Dish) error
	ListByTenant(ctx context.Context, tenant TenantID) ([]Dish, error)
}

// SaleLog appends dish-sale events and aggregates them for menu engineering.
type SaleLog interface {
	Append(ctx context.Context, s DishSale) error
	AggregateByDish(ctx context.Context, tenant TenantID, since, until time.Time) ([]DishAggregate, error)
}

// TenantStore enumerates tenants for operator tooling (the expiration
// sweeper iterates every active tenant rather than taking one on its
// command line).
type TenantStore interface {
	ListActiveTenants(ctx context.Context) ([]TenantID, error)
}

// DishAggregate is the per-dish rollup window input to menu engineering
// (spec §4.7 step 1).
type DishAggregate struct {
	DishID   uuid.UUID
	DishName string
	Volume   int64
	Revenue  Money
	Profit   Money
	// AvgMarginPct is the mean of per-sale (100 * profit_cents /
	// selling_price_cents), matching spec's NULLIF-guarded mean.
	AvgMarginPct float64
}
