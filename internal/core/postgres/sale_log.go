package postgres

import (
	"context"
	"database/sql"
	"time"

	"costengine/internal/core"

	"github.com/google/uuid"
)

// SaleLog implements core.SaleLog against dish_sales, grounded on
// original_source's NULLIF-guarded margin average (spec §4.7 step 1's "the
// mean of per-sale (100 * profit_cents / selling_price_cents)").
type SaleLog struct {
	db *sql.DB
}

// NewSaleLog wires a *sql.DB-backed SaleLog.
func NewSaleLog(db *sql.DB) *SaleLog {
	return &SaleLog{db: db}
}

func (l *SaleLog) Append(ctx context.Context, s core.DishSale) error {
	id := uuid.New()
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO dish_sales
			(id, tenant_id, dish_id, user_id, quantity, selling_price_cents,
			 recipe_cost_cents, profit_cents, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, s.TenantID, s.DishID, s.UserID, s.Quantity, s.SellingPrice.Cents(),
		s.RecipeCost.Cents(), s.Profit.Cents(), s.SoldAt)
	return err
}

func (l *SaleLog) AggregateByDish(ctx context.Context, tenant core.TenantID, since, until time.Time) ([]core.DishAggregate, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT
			ds.dish_id,
			d.name,
			COALESCE(SUM(ds.quantity), 0) AS volume,
			COALESCE(SUM(ds.quantity * ds.selling_price_cents), 0) AS revenue_cents,
			COALESCE(SUM(ds.profit_cents), 0) AS profit_cents,
			COALESCE(AVG(
				CASE WHEN ds.selling_price_cents = 0 THEN NULL
				ELSE 100.0 * (ds.profit_cents / ds.quantity) / NULLIF(ds.selling_price_cents, 0)
				END
			), 0) AS avg_margin_pct
		FROM dish_sales ds
		JOIN dishes d ON d.id = ds.dish_id
		WHERE ds.tenant_id = $1 AND ds.sold_at >= $2 AND ds.sold_at < $3
		GROUP BY ds.dish_id, d.name
	`, tenant, since, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.DishAggregate
	for rows.Next() {
		var a core.DishAggregate
		var revenueCents, profitCents int64
		if err := rows.Scan(&a.DishID, &a.DishName, &a.Volume, &revenueCents, &profitCents, &a.AvgMarginPct); err != nil {
			return nil, err
		}
		a.Revenue = core.NewSignedMoney(revenueCents)
		a.Profit = core.NewSignedMoney(profitCents)
		out = append(out, a)
	}
	return out, rows.Err()
}
