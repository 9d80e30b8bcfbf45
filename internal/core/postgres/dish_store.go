package postgres

import (
	"context"
	"database/sql"

	"costengine/internal/core"

	"github.com/google/uuid"
)

// DishStore implements core.DishStore against dishes, the sellable menu
// items that point at a recipe (spec §3).
type DishStore struct {
	db *sql.DB
}

// NewDishStore wires a *sql.DB-backed DishStore.
func NewDishStore(db *sql.DB) *DishStore {
	return &DishStore{db: db}
}

const dishColumns = `id, tenant_id, recipe_id, name, description, selling_price_cents, active,
	created_at, updated_at`

func (s *DishStore) Find(ctx context.Context, tenant core.TenantID, id uuid.UUID) (*core.Dish, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+dishColumns+`
		FROM dishes
		WHERE id = $1 AND tenant_id = $2
	`, id, tenant)

	d, err := scanDish(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DishStore) Insert(ctx context.Context, d core.Dish) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dishes (`+dishColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, d.TenantID, d.RecipeID, d.Name, d.Description, d.SellingPrice.Cents(), d.Active,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *DishStore) Update(ctx context.Context, d core.Dish) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE dishes
		SET name = $1, description = $2, selling_price_cents = $3, active = $4, updated_at = $5
		WHERE id = $6 AND tenant_id = $7
	`, d.Name, d.Description, d.SellingPrice.Cents(), d.Active, d.UpdatedAt, d.ID, d.TenantID)
	return err
}

func (s *DishStore) ListByTenant(ctx context.Context, tenant core.TenantID) ([]core.Dish, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+dishColumns+`
		FROM dishes
		WHERE tenant_id = $1
		ORDER BY name ASC
	`, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDish(row interface {
	Scan(dest ...interface{}) error
}) (core.Dish, error) {
	var d core.Dish
	var priceCents int64
	err := row.Scan(
		&d.ID, &d.TenantID, &d.RecipeID, &d.Name, &d.Description, &priceCents, &d.Active,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return core.Dish{}, err
	}
	d.SellingPrice = core.NewSignedMoney(priceCents)
	return d, nil
}
