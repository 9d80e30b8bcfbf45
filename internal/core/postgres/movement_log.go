package postgres

import (
	"context"
	"database/sql"
	"time"

	"costengine/internal/core"

	"github.com/google/uuid"
)

// MovementLog implements core.MovementLog against inventory_movements, the
// append-only audit trail spec §3 describes.
type MovementLog struct {
	db *sql.DB
}

// NewMovementLog wires a *sql.DB-backed MovementLog.
func NewMovementLog(db *sql.DB) *MovementLog {
	return &MovementLog{db: db}
}

func (l *MovementLog) Append(ctx context.Context, tx core.Tx, m core.Movement) error {
	sqlTxn, err := unwrap(tx)
	if err != nil {
		return err
	}
	id := uuid.New()
	_, err = sqlTxn.ExecContext(ctx, `
		INSERT INTO inventory_movements
			(id, tenant_id, batch_id, kind, quantity, unit_cost_cents, total_cost_cents,
			 reference_id, reference_type, reason, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		id, m.TenantID, m.BatchID, string(m.Kind), m.Quantity.String(),
		m.UnitCost.Cents(), m.TotalCost.Cents(), m.ReferenceID, m.ReferenceType,
		m.Reason, m.Notes, m.CreatedAt,
	)
	return err
}

const movementColumns = `id, tenant_id, batch_id, kind, quantity, unit_cost_cents, total_cost_cents,
	reference_id, reference_type, reason, notes, created_at`

func (l *MovementLog) ListByBatch(ctx context.Context, tenant core.TenantID, batchID uuid.UUID) ([]core.Movement, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT `+movementColumns+`
		FROM inventory_movements
		WHERE tenant_id = $1 AND batch_id = $2
		ORDER BY created_at ASC
	`, tenant, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMovementRows(rows)
}

func (l *MovementLog) ListByKindSince(ctx context.Context, tenant core.TenantID, kind core.MovementKind, since time.Time) ([]core.Movement, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT `+movementColumns+`
		FROM inventory_movements
		WHERE tenant_id = $1 AND kind = $2 AND created_at >= $3
		ORDER BY created_at ASC
	`, tenant, string(kind), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMovementRows(rows)
}

func scanMovementRows(rows *sql.Rows) ([]core.Movement, error) {
	var out []core.Movement
	for rows.Next() {
		var m core.Movement
		var kind string
		var qty string
		var unitCostCents, totalCostCents int64

		if err := rows.Scan(
			&m.ID, &m.TenantID, &m.BatchID, &kind, &qty, &unitCostCents, &totalCostCents,
			&m.ReferenceID, &m.ReferenceType, &m.Reason, &m.Notes, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		m.Kind = core.MovementKind(kind)
		m.UnitCost = core.NewSignedMoney(unitCostCents)
		m.TotalCost = core.NewSignedMoney(totalCostCents)
		q, err := core.ParseQuantity(qty)
		if err != nil {
			return nil, err
		}
		m.Quantity = q
		out = append(out, m)
	}
	return out, rows.Err()
}
