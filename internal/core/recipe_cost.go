package core

import (
	"context"

	"github.com/google/uuid"
)

// RecipeCostService implements C6: pricing each recipe ingredient against
// the effective unit price of active stock. The pricing rule is the
// earliest-FIFO-batch price (spec §4.6), not the "last batch wins" rule
// original_source/src/application/recipe.rs uses — the spec's rule is
// authoritative here because it matches what the next deduction would
// actually charge.
type RecipeCostService struct {
	recipes RecipeStore
	batches BatchStore
	catalog CatalogReader
}

// NewRecipeCostService wires the capability interfaces together.
func NewRecipeCostService(recipes RecipeStore, batches BatchStore, catalog CatalogReader) *RecipeCostService {
	return &RecipeCostService{recipes: recipes, batches: batches, catalog: catalog}
}

// IngredientCost is one line of a recipe cost breakdown.
type IngredientCost struct {
	IngredientID   uuid.UUID
	IngredientName string
	Quantity       Quantity
	UnitPrice      Money
	TotalCost      Money
}

// RecipeCost is the full breakdown the external interface table's
// `calculate_recipe_cost` returns.
type RecipeCost struct {
	RecipeID         uuid.UUID
	RecipeName       string
	TotalCost        Money
	CostPerServing   Money
	IngredientsBreakdown []IngredientCost
}

// FoodCostPercentage returns 100 * cost_per_serving / selling_price, zero if
// selling_price is zero, per spec §4.6.
func (c *RecipeCost) FoodCostPercentage(sellingPrice Money) float64 {
	return c.CostPerServing.PercentOf(sellingPrice)
}

// CalculateRecipeCost implements spec §4.6.
func (s *RecipeCostService) CalculateRecipeCost(ctx context.Context, tenant TenantID, recipeID uuid.UUID) (*RecipeCost, error) {
	recipe, err := s.recipes.Find(ctx, tenant, recipeID)
	if err != nil {
		return nil, NewInternalError("failed to load recipe", err)
	}
	if recipe == nil {
		return nil, NewNotFoundError("recipe not found")
	}
	if recipe.Servings < 1 {
		return nil, NewValidationError("recipe servings must be at least 1")
	}
	if len(recipe.Ingredients) == 0 {
		return nil, NewValidationError("recipe must have at least one ingredient")
	}

	var breakdown []IngredientCost
	total := ZeroMoney

	active, err := s.batches.ListActiveByIngredient(ctx, tenant)
	if err != nil {
		return nil, NewInternalError("failed to list active batches", err)
	}

	for _, ri := range recipe.Ingredients {
		var candidates []Batch
		for _, b := range active {
			if b.CatalogIngredientID == ri.CatalogIngredientID && b.Status == BatchActive && !b.RemainingQuantity.IsZero() {
				candidates = append(candidates, b)
			}
		}
		if len(candidates) == 0 {
			return nil, NewNoInventoryError(ri.CatalogIngredientID.String())
		}
		fifoOrder(candidates)
		unitPrice := candidates[0].PricePerUnit

		ingredientCost, err := unitPrice.MulQuantity(ri.Quantity)
		if err != nil {
			return nil, err
		}

		ingredientName := ri.CatalogIngredientID.String()
		if ing, err := s.catalog.Find(ctx, ri.CatalogIngredientID); err == nil && ing != nil {
			if name, ok := ing.Names["en"]; ok {
				ingredientName = name
			}
		}

		breakdown = append(breakdown, IngredientCost{
			IngredientID:   ri.CatalogIngredientID,
			IngredientName: ingredientName,
			Quantity:       ri.Quantity,
			UnitPrice:      unitPrice,
			TotalCost:      ingredientCost,
		})

		sum, err := total.Add(ingredientCost)
		if err != nil {
			return nil, err
		}
		total = sum
	}

	costPerServing, err := total.DivInt(int64(recipe.Servings))
	if err != nil {
		return nil, err
	}

	return &RecipeCost{
		RecipeID:             recipe.ID,
		RecipeName:           recipe.Name,
		TotalCost:            total,
		CostPerServing:       costPerServing,
		IngredientsBreakdown: breakdown,
	}, nil
}

// DishFinancials is the supplemented financial analysis of a dish, grounded
// on original_source/src/domain/dish.rs's DishFinancials::calculate.
type DishFinancials struct {
	DishID             uuid.UUID
	DishName           string
	SellingPrice       Money
	RecipeCost         Money
	Profit             Money
	ProfitMarginPercent float64
	FoodCostPercent    float64
}

// CalculateDishFinancials computes profit and margin for a dish given a
// recipe cost snapshot.
func CalculateDishFinancials(dishID uuid.UUID, dishName string, sellingPrice, recipeCost Money) (*DishFinancials, error) {
	profit, err := sellingPrice.Sub(recipeCost)
	if err != nil {
		// Sub fails only on overflow, not on recipeCost > sellingPrice
		// (Money.Sub permits signed results via the overflow check alone;
		// losses are legitimate here).
		return nil, err
	}
	return &DishFinancials{
		DishID:              dishID,
		DishName:            dishName,
		SellingPrice:        sellingPrice,
		RecipeCost:          recipeCost,
		Profit:              profit,
		ProfitMarginPercent: profit.PercentOf(sellingPrice),
		FoodCostPercent:     recipeCost.PercentOf(sellingPrice),
	}, nil
}

// IsHealthyMargin reports whether profit margin is >= 60%, the restaurant
// rule of thumb from original_source/src/domain/dish.rs.
func (f *DishFinancials) IsHealthyMargin() bool {
	return f.ProfitMarginPercent >= 60.0
}

// IsAcceptableFoodCost reports whether food cost is <= 35%.
func (f *DishFinancials) IsAcceptableFoodCost() bool {
	return f.FoodCostPercent <= 35.0
}
