package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InventoryService implements C2 (batch store) and C3 (FIFO deduction
// engine) against the BatchStore/MovementLog/CatalogReader capability
// interfaces, generalizing the transaction shape of the teacher's
// IngredientService.DeductIngredientsForOrder (tx.Begin / defer Rollback /
// walk rows / Exec / Commit) to batch-aware, tenant-scoped FIFO allocation.
type InventoryService struct {
	batches   BatchStore
	movements MovementLog
	catalog   CatalogReader
}

// NewInventoryService wires the capability interfaces together.
func NewInventoryService(batches BatchStore, movements MovementLog, catalog CatalogReader) *InventoryService {
	return &InventoryService{batches: batches, movements: movements, catalog: catalog}
}

// AddBatchInput mirrors the external interface table's `add_batch` inputs.
type AddBatchInput struct {
	Tenant     TenantID
	User       UserID
	Ingredient uuid.UUID
	PriceMinor int64
	Quantity   Quantity
	Supplier   *string
	Invoice    *string
	ReceivedAt time.Time
	ExpiresAt  *time.Time
}

// AddBatch records a new delivery. Fails with Validation (bad price/qty),
// NotFound (unknown or inactive ingredient) or Internal (any store or
// transaction failure, including a duplicate key; no Conflict is reported).
func (s *InventoryService) AddBatch(ctx context.Context, in AddBatchInput) (uuid.UUID, error) {
	if in.Quantity.IsZero() || in.Quantity.Cmp(ZeroQuantity) < 0 {
		return uuid.Nil, NewValidationError("batch quantity must be positive")
	}
	price, err := NewMoney(in.PriceMinor)
	if err != nil {
		return uuid.Nil, err
	}

	ingredient, err := s.catalog.Find(ctx, in.Ingredient)
	if err != nil {
		return uuid.Nil, NewInternalError("failed to load catalog ingredient", err)
	}
	if ingredient == nil || !ingredient.IsActive {
		return uuid.Nil, NewNotFoundError("ingredient not found or inactive")
	}

	tx, err := s.batches.Begin(ctx)
	if err != nil {
		return uuid.Nil, NewInternalError("failed to start transaction", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	batch := Batch{
		TenantID:            in.Tenant,
		CatalogIngredientID: in.Ingredient,
		PricePerUnit:        price,
		OriginalQuantity:    in.Quantity,
		RemainingQuantity:   in.Quantity,
		Supplier:            in.Supplier,
		Invoice:             in.Invoice,
		Status:              BatchActive,
		ReceivedAt:          in.ReceivedAt,
		ExpiresAt:           in.ExpiresAt,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	id, err := s.batches.Insert(ctx, tx, batch)
	if err != nil {
		return uuid.Nil, NewInternalError("failed to insert batch", err)
	}

	totalCost, err := price.MulQuantity(in.Quantity)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.movements.Append(ctx, tx, Movement{
		TenantID:  in.Tenant,
		BatchID:   id,
		Kind:      MovementIn,
		Quantity:  in.Quantity,
		UnitCost:  price,
		TotalCost: totalCost,
		CreatedAt: now,
	}); err != nil {
		return uuid.Nil, NewInternalError("failed to append movement", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, NewInternalError("failed to commit transaction", err)
	}
	return id, nil
}

// FindBatch implements the external interface table's `find_batch`.
func (s *InventoryService) FindBatch(ctx context.Context, tenant TenantID, id uuid.UUID) (*Batch, error) {
	b, err := s.batches.Find(ctx, tenant, id)
	if err != nil {
		return nil, NewInternalError("failed to load batch", err)
	}
	return b, nil
}

// ListBatches implements `list_batches`.
func (s *InventoryService) ListBatches(ctx context.Context, tenant TenantID) ([]Batch, error) {
	batches, err := s.batches.ListByTenant(ctx, tenant)
	if err != nil {
		return nil, NewInternalError("failed to list batches", err)
	}
	return batches, nil
}

// DeductInput mirrors the external interface table's `deduct` inputs.
type DeductInput struct {
	Tenant     TenantID
	Ingredient uuid.UUID
	Quantity   Quantity
	Kind       MovementKind // movement kind the caller wants recorded; MovementOutSale if zero value
	Reference  *string
	ReasonText *string
}

// Deduct implements the FIFO deduction engine of spec §4.3.
func (s *InventoryService) Deduct(ctx context.Context, in DeductInput) ([]MovementLine, error) {
	if in.Quantity.IsZero() || in.Quantity.Cmp(ZeroQuantity) < 0 {
		return nil, NewValidationError("deduction quantity must be positive")
	}
	kind := in.Kind
	if kind == "" {
		kind = MovementOutSale
	}

	tx, err := s.batches.Begin(ctx)
	if err != nil {
		return nil, NewInternalError("failed to start transaction", err)
	}
	defer tx.Rollback()

	locked, err := s.batches.LockActiveFIFO(ctx, tx, in.Tenant, in.Ingredient)
	if err != nil {
		return nil, NewInternalError("failed to lock active batches", err)
	}
	fifoOrder(locked)

	available := ZeroQuantity
	for _, b := range locked {
		available = available.Add(b.RemainingQuantity)
	}
	if available.Cmp(in.Quantity) < 0 {
		return nil, NewInsufficientStockError(available, in.Quantity)
	}

	outstanding := in.Quantity
	now := time.Now().UTC()
	var lines []MovementLine

	for i := range locked {
		if outstanding.IsZero() {
			break
		}
		b := &locked[i]
		take := b.RemainingQuantity.Min(outstanding)
		if take.IsZero() {
			continue
		}

		newRemaining, err := b.RemainingQuantity.Sub(take)
		if err != nil {
			return nil, NewInternalError("batch remaining went negative", err)
		}
		b.RemainingQuantity = newRemaining
		b.UpdatedAt = now
		if b.RemainingQuantity.IsZero() {
			b.Status = BatchExhausted
		}

		if err := s.batches.Update(ctx, tx, *b); err != nil {
			return nil, NewInternalError("failed to update batch", err)
		}

		totalCost, err := b.PricePerUnit.MulQuantity(take)
		if err != nil {
			return nil, err
		}
		if err := s.movements.Append(ctx, tx, Movement{
			TenantID:      in.Tenant,
			BatchID:       b.ID,
			Kind:          kind,
			Quantity:      take,
			UnitCost:      b.PricePerUnit,
			TotalCost:     totalCost,
			ReferenceID:   in.Reference,
			ReferenceType: nil,
			Reason:        in.ReasonText,
			CreatedAt:     now,
		}); err != nil {
			return nil, NewInternalError("failed to append movement", err)
		}

		lines = append(lines, MovementLine{
			BatchID:   b.ID,
			Quantity:  take,
			UnitCost:  b.PricePerUnit,
			TotalCost: totalCost,
		})

		newOutstanding, err := outstanding.Sub(take)
		if err != nil {
			return nil, NewInternalError("outstanding went negative", err)
		}
		outstanding = newOutstanding
	}

	if err := tx.Commit(); err != nil {
		return nil, NewInternalError("failed to commit transaction", err)
	}
	return lines, nil
}

// SweepExpirations implements C4, spec §4.4.
func (s *InventoryService) SweepExpirations(ctx context.Context, tenant TenantID, now time.Time) (int, error) {
	tx, err := s.batches.Begin(ctx)
	if err != nil {
		return 0, NewInternalError("failed to start transaction", err)
	}
	defer tx.Rollback()

	expired, err := s.batches.LockExpired(ctx, tx, tenant, now)
	if err != nil {
		return 0, NewInternalError("failed to lock expired batches", err)
	}

	processed := 0
	for i := range expired {
		b := &expired[i]
		if b.RemainingQuantity.IsZero() {
			continue
		}
		quantity := b.RemainingQuantity
		totalCost, err := b.PricePerUnit.MulQuantity(quantity)
		if err != nil {
			return 0, err
		}

		b.RemainingQuantity = ZeroQuantity
		b.Status = BatchExhausted
		b.UpdatedAt = now
		if err := s.batches.Update(ctx, tx, *b); err != nil {
			return 0, NewInternalError("failed to update expired batch", err)
		}

		if err := s.movements.Append(ctx, tx, Movement{
			TenantID:  tenant,
			BatchID:   b.ID,
			Kind:      MovementOutExpire,
			Quantity:  quantity,
			UnitCost:  b.PricePerUnit,
			TotalCost: totalCost,
			CreatedAt: now,
		}); err != nil {
			return 0, NewInternalError("failed to append expiration movement", err)
		}
		processed++
	}

	if err := tx.Commit(); err != nil {
		return 0, NewInternalError("failed to commit transaction", err)
	}
	return processed, nil
}

// LossReport supplements spec scenario S4 ("loss report for the past 7 days
// totals 100.00"): a read-side aggregation over OUT_EXPIRE movements,
// grounded on the existence of original_source/tests/loss_report_test.rs.
type LossLine struct {
	BatchID   uuid.UUID
	Quantity  Quantity
	UnitCost  Money
	TotalCost Money
	At        time.Time
}

type LossReport struct {
	TotalLoss Money
	Lines     []LossLine
}

// GetLossReport aggregates OUT_EXPIRE movements in [since, until] (both
// bounds inclusive).
func (s *InventoryService) GetLossReport(ctx context.Context, tenant TenantID, since, until time.Time) (*LossReport, error) {
	moves, err := s.movements.ListByKindSince(ctx, tenant, MovementOutExpire, since)
	if err != nil {
		return nil, NewInternalError("failed to list expiration movements", err)
	}

	total := ZeroMoney
	var lines []LossLine
	for _, m := range moves {
		if m.CreatedAt.After(until) {
			continue
		}
		sum, err := total.Add(m.TotalCost)
		if err != nil {
			return nil, err
		}
		total = sum
		lines = append(lines, LossLine{
			BatchID:   m.BatchID,
			Quantity:  m.Quantity,
			UnitCost:  m.UnitCost,
			TotalCost: m.TotalCost,
			At:        m.CreatedAt,
		})
	}
	return &LossReport{TotalLoss: total, Lines: lines}, nil
}
