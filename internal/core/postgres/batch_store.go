package postgres

import (
	"context"
	"database/sql"
	"time"

	"costengine/internal/core"

	"github.com/google/uuid"
)

const batchColumns = `id, tenant_id, catalog_ingredient_id, price_per_unit_cents, quantity,
	remaining_quantity, supplier, invoice_number, status, received_at, expires_at,
	created_at, updated_at`

// BatchStore implements core.BatchStore against inventory_batches.
type BatchStore struct {
	db *sql.DB
}

// NewBatchStore wires a *sql.DB-backed BatchStore.
func NewBatchStore(db *sql.DB) *BatchStore {
	return &BatchStore{db: db}
}

func (s *BatchStore) Begin(ctx context.Context) (core.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

func scanBatch(row interface {
	Scan(dest ...interface{}) error
}) (core.Batch, error) {
	var b core.Batch
	var priceCents int64
	var qty, remaining string
	var status string
	var expiresAt sql.NullTime

	err := row.Scan(
		&b.ID, &b.TenantID, &b.CatalogIngredientID, &priceCents, &qty,
		&remaining, &b.Supplier, &b.Invoice, &status, &b.ReceivedAt, &expiresAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return core.Batch{}, err
	}

	b.PricePerUnit = core.NewSignedMoney(priceCents)
	b.Status = core.BatchStatus(status)
	if expiresAt.Valid {
		t := expiresAt.Time
		b.ExpiresAt = &t
	}

	origQty, err := decimalFromString(qty)
	if err != nil {
		return core.Batch{}, err
	}
	remQty, err := decimalFromString(remaining)
	if err != nil {
		return core.Batch{}, err
	}
	b.OriginalQuantity = origQty
	b.RemainingQuantity = remQty
	return b, nil
}

func decimalFromString(s string) (core.Quantity, error) {
	return core.ParseQuantity(s)
}

func (s *BatchStore) Insert(ctx context.Context, tx core.Tx, b core.Batch) (uuid.UUID, error) {
	sqlTxn, err := unwrap(tx)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	_, err = sqlTxn.ExecContext(ctx, `
		INSERT INTO inventory_batches (`+batchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		id, b.TenantID, b.CatalogIngredientID, b.PricePerUnit.Cents(), b.OriginalQuantity.String(),
		b.RemainingQuantity.String(), b.Supplier, b.Invoice, string(b.Status), b.ReceivedAt, b.ExpiresAt,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *BatchStore) Find(ctx context.Context, tenant core.TenantID, id uuid.UUID) (*core.Batch, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+batchColumns+`
		FROM inventory_batches
		WHERE id = $1 AND tenant_id = $2
	`, id, tenant)

	b, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BatchStore) ListByTenant(ctx context.Context, tenant core.TenantID) ([]core.Batch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+batchColumns+`
		FROM inventory_batches
		WHERE tenant_id = $1
		ORDER BY received_at DESC
	`, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatchRows(rows)
}

// LockActiveFIFO implements spec §4.2's locking read: active batches for
// (tenant, ingredient) with remaining > 0, ordered earliest-expiring first
// (undated batches last), locked FOR UPDATE for the life of tx.
func (s *BatchStore) LockActiveFIFO(ctx context.Context, tx core.Tx, tenant core.TenantID, ingredient uuid.UUID) ([]core.Batch, error) {
	sqlTxn, err := unwrap(tx)
	if err != nil {
		return nil, err
	}
	rows, err := sqlTxn.QueryContext(ctx, `
		SELECT `+batchColumns+`
		FROM inventory_batches
		WHERE tenant_id = $1 AND catalog_ingredient_id = $2 AND status = 'active' AND remaining_quantity > 0
		ORDER BY expires_at NULLS LAST, received_at ASC
		FOR UPDATE
	`, tenant, ingredient)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatchRows(rows)
}

// LockExpired implements the sweeper's locking read (spec §4.4): active
// batches with expires_at before asOf and remaining > 0, FOR UPDATE.
func (s *BatchStore) LockExpired(ctx context.Context, tx core.Tx, tenant core.TenantID, asOf time.Time) ([]core.Batch, error) {
	sqlTxn, err := unwrap(tx)
	if err != nil {
		return nil, err
	}
	rows, err := sqlTxn.QueryContext(ctx, `
		SELECT `+batchColumns+`
		FROM inventory_batches
		WHERE tenant_id = $1 AND status = 'active' AND remaining_quantity > 0
		  AND expires_at IS NOT NULL AND expires_at < $2
		ORDER BY expires_at ASC
		FOR UPDATE
	`, tenant, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatchRows(rows)
}

// ListActiveByIngredient is the read-only reporting path for the alert
// aggregator and recipe-cost calculator; it never locks rows.
func (s *BatchStore) ListActiveByIngredient(ctx context.Context, tenant core.TenantID) ([]core.Batch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+batchColumns+`
		FROM inventory_batches
		WHERE tenant_id = $1 AND status = 'active' AND remaining_quantity > 0
		ORDER BY expires_at NULLS LAST, received_at ASC
	`, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatchRows(rows)
}

func (s *BatchStore) Update(ctx context.Context, tx core.Tx, b core.Batch) error {
	sqlTxn, err := unwrap(tx)
	if err != nil {
		return err
	}
	_, err = sqlTxn.ExecContext(ctx, `
		UPDATE inventory_batches
		SET remaining_quantity = $1, status = $2, price_per_unit_cents = $3, expires_at = $4, updated_at = $5
		WHERE id = $6 AND tenant_id = $7
	`, b.RemainingQuantity.String(), string(b.Status), b.PricePerUnit.Cents(), b.ExpiresAt, b.UpdatedAt, b.ID, b.TenantID)
	return err
}

func scanBatchRows(rows *sql.Rows) ([]core.Batch, error) {
	var out []core.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
