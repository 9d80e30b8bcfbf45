package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"costengine/internal/core"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CatalogReader implements core.CatalogReader against catalog_ingredients
// and tenant_ingredient_overrides. The catalog is shared across tenants;
// only the override threshold is tenant-scoped (spec §3).
type CatalogReader struct {
	db *sql.DB
}

// NewCatalogReader wires a *sql.DB-backed CatalogReader.
func NewCatalogReader(db *sql.DB) *CatalogReader {
	return &CatalogReader{db: db}
}

func (c *CatalogReader) Find(ctx context.Context, id uuid.UUID) (*core.CatalogIngredient, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, names, default_unit, default_shelf_life_days, allergens, seasons,
		       min_stock_threshold, is_active
		FROM catalog_ingredients
		WHERE id = $1
	`, id)

	ing, err := scanCatalogIngredient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

func (c *CatalogReader) ListActive(ctx context.Context) ([]core.CatalogIngredient, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, names, default_unit, default_shelf_life_days, allergens, seasons,
		       min_stock_threshold, is_active
		FROM catalog_ingredients
		WHERE is_active = true
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.CatalogIngredient
	for rows.Next() {
		ing, err := scanCatalogIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (c *CatalogReader) FindOverride(ctx context.Context, tenant core.TenantID, ingredient uuid.UUID) (*core.TenantIngredientOverride, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT tenant_id, catalog_ingredient_id, min_stock_threshold
		FROM tenant_ingredient_overrides
		WHERE tenant_id = $1 AND catalog_ingredient_id = $2
	`, tenant, ingredient)

	var o core.TenantIngredientOverride
	var threshold string
	err := row.Scan(&o.TenantID, &o.CatalogIngredientID, &threshold)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	q, err := core.ParseQuantity(threshold)
	if err != nil {
		return nil, err
	}
	o.MinStockThreshold = q
	return &o, nil
}

func scanCatalogIngredient(row interface {
	Scan(dest ...interface{}) error
}) (core.CatalogIngredient, error) {
	var ing core.CatalogIngredient
	var namesJSON []byte
	var defaultUnit string
	var allergens, seasons pq.StringArray
	var threshold string

	err := row.Scan(
		&ing.ID, &namesJSON, &defaultUnit, &ing.DefaultShelfLifeDays,
		&allergens, &seasons, &threshold, &ing.IsActive,
	)
	if err != nil {
		return core.CatalogIngredient{}, err
	}

	ing.DefaultUnit = core.UnitType(defaultUnit)
	ing.Allergens = []string(allergens)
	ing.Seasons = []string(seasons)

	if err := json.Unmarshal(namesJSON, &ing.Names); err != nil {
		return core.CatalogIngredient{}, core.NewInternalError("failed to decode catalog names", err)
	}

	q, err := core.ParseQuantity(threshold)
	if err != nil {
		return core.CatalogIngredient{}, err
	}
	ing.MinStockThreshold = q
	return ing, nil
}
