package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
)

var _ repository.OrderpointRepository = (*OrderpointRepo)(nil)

// OrderpointRepo registro de reglas de reorden sobre PostgreSQL (pool o tx).
type OrderpointRepo struct {
	q Querier
}

// NewOrderpointRepository construye el adaptador.
func NewOrderpointRepository(q Querier) *OrderpointRepo {
	return &OrderpointRepo{q: q}
}

// FindByProducts trae todas las reglas de las variantes dadas en una consulta.
func (r *OrderpointRepo) FindByProducts(ctx context.Context, productIDs []string) ([]entity.Orderpoint, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, product_id, warehouse_id, min_qty, max_qty, created_at, updated_at
		FROM stock_orderpoints WHERE product_id = ANY($1)`
	rows, err := r.q.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("find orderpoints: %w", err)
	}
	defer rows.Close()

	var list []entity.Orderpoint
	for rows.Next() {
		var op entity.Orderpoint
		if err := rows.Scan(&op.ID, &op.ProductID, &op.WarehouseID, &op.MinQty, &op.MaxQty, &op.CreatedAt, &op.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan orderpoint: %w", err)
		}
		list = append(list, op)
	}
	return list, rows.Err()
}

// Upsert crea o actualiza la regla única por (producto, bodega); deja en op.ID el id vigente.
func (r *OrderpointRepo) Upsert(ctx context.Context, op *entity.Orderpoint) error {
	query := `
		INSERT INTO stock_orderpoints (id, product_id, warehouse_id, min_qty, max_qty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET min_qty = EXCLUDED.min_qty,
		              max_qty = EXCLUDED.max_qty,
		              updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		op.ID, op.ProductID, op.WarehouseID, op.MinQty, op.MaxQty, op.CreatedAt, op.UpdatedAt,
	).Scan(&op.ID, &op.CreatedAt)
	if err != nil {
		return mapWriteError("upsert orderpoint", err)
	}
	return nil
}
