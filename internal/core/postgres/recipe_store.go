package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"costengine/internal/core"

	"github.com/google/uuid"
)

// RecipeStore implements core.RecipeStore against recipes, storing the
// ingredient list as JSONB (each line is {catalog_ingredient_id, quantity}),
// mirroring how the teacher stores product option groups as JSON columns.
type RecipeStore struct {
	db *sql.DB
}

// NewRecipeStore wires a *sql.DB-backed RecipeStore.
func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

type recipeIngredientRow struct {
	CatalogIngredientID uuid.UUID `json:"catalog_ingredient_id"`
	Quantity            string    `json:"quantity"`
}

func (s *RecipeStore) Find(ctx context.Context, tenant core.TenantID, id uuid.UUID) (*core.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, user_id, name, servings, ingredients, status, default_lang,
		       created_at, updated_at
		FROM recipes
		WHERE id = $1 AND tenant_id = $2
	`, id, tenant)

	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RecipeStore) Insert(ctx context.Context, r core.Recipe) (uuid.UUID, error) {
	id := uuid.New()
	ingredientsJSON, err := marshalIngredients(r.Ingredients)
	if err != nil {
		return uuid.Nil, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, tenant_id, user_id, name, servings, ingredients, status,
		                      default_lang, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, id, r.TenantID, r.UserID, r.Name, r.Servings, ingredientsJSON, string(r.Status),
		r.DefaultLang, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *RecipeStore) Update(ctx context.Context, r core.Recipe) error {
	ingredientsJSON, err := marshalIngredients(r.Ingredients)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE recipes
		SET name = $1, servings = $2, ingredients = $3, status = $4, updated_at = $5
		WHERE id = $6 AND tenant_id = $7
	`, r.Name, r.Servings, ingredientsJSON, string(r.Status), r.UpdatedAt, r.ID, r.TenantID)
	return err
}

func (s *RecipeStore) ListByTenant(ctx context.Context, tenant core.TenantID) ([]core.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, user_id, name, servings, ingredients, status, default_lang,
		       created_at, updated_at
		FROM recipes
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func marshalIngredients(ingredients []core.RecipeIngredient) ([]byte, error) {
	rows := make([]recipeIngredientRow, len(ingredients))
	for i, ri := range ingredients {
		rows[i] = recipeIngredientRow{
			CatalogIngredientID: ri.CatalogIngredientID,
			Quantity:            ri.Quantity.String(),
		}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, core.NewInternalError("failed to encode recipe ingredients", err)
	}
	return b, nil
}

func scanRecipe(row interface {
	Scan(dest ...interface{}) error
}) (core.Recipe, error) {
	var r core.Recipe
	var ingredientsJSON []byte
	var status string

	err := row.Scan(
		&r.ID, &r.TenantID, &r.UserID, &r.Name, &r.Servings, &ingredientsJSON,
		&status, &r.DefaultLang, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return core.Recipe{}, err
	}
	r.Status = core.RecipeStatus(status)

	var rows []recipeIngredientRow
	if err := json.Unmarshal(ingredientsJSON, &rows); err != nil {
		return core.Recipe{}, core.NewInternalError("failed to decode recipe ingredients", err)
	}
	r.Ingredients = make([]core.RecipeIngredient, len(rows))
	for i, row := range rows {
		q, err := core.ParseQuantity(row.Quantity)
		if err != nil {
			return core.Recipe{}, err
		}
		r.Ingredients[i] = core.RecipeIngredient{
			CatalogIngredientID: row.CatalogIngredientID,
			Quantity:            q,
		}
	}
	return r, nil
}
