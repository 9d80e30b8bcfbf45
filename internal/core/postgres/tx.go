// Package postgres implements core's capability interfaces (BatchStore,
// MovementLog, CatalogReader, RecipeStore, DishStore, SaleLog) against
// database/sql + lib/pq, grounded on the SQL shapes of
// original_source/src/infrastructure/persistence/inventory_batch_repository.rs
// and the transaction idiom of the teacher's
// internal/services/ingredient_service.go (tx.Begin / defer Rollback / row
// scanning loops / Exec / Commit).
package postgres

import (
	"database/sql"

	"costengine/internal/core"
)

// sqlTx adapts *sql.Tx to the core.Tx capability interface.
type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }

// unwrap extracts the underlying *sql.Tx, failing loudly if the caller
// passed a Tx that didn't originate from this package's Begin.
func unwrap(tx core.Tx) (*sql.Tx, error) {
	t, ok := tx.(*sqlTx)
	if !ok {
		return nil, core.NewInternalError("transaction handle not from postgres package", nil)
	}
	return t.tx, nil
}
