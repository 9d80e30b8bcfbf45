package postgres

import (
	"context"
	"database/sql"

	"costengine/internal/core"
)

// TenantStore reads the tenants table, grounded on models.Tenant. Used by
// operator tooling (the expiration sweeper) that must iterate every tenant
// rather than being given one.
type TenantStore struct {
	db *sql.DB
}

func NewTenantStore(db *sql.DB) *TenantStore {
	return &TenantStore{db: db}
}

func (s *TenantStore) ListActiveTenants(ctx context.Context) ([]core.TenantID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM tenants WHERE is_active = true`)
	if err != nil {
		return nil, core.NewInternalError("failed to list active tenants", err)
	}
	defer rows.Close()

	var ids []core.TenantID
	for rows.Next() {
		var id core.TenantID
		if err := rows.Scan(&id); err != nil {
			return nil, core.NewInternalError("failed to scan tenant id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewInternalError("failed to iterate tenants", err)
	}
	return ids, nil
}
