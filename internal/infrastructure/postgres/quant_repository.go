package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/stock"
)

var _ repository.QuantRepository = (*QuantRepo)(nil)

// QuantRepo es el ledger de quants sobre PostgreSQL (pool o tx).
type QuantRepo struct {
	q Querier
}

// NewQuantRepository construye el adaptador.
func NewQuantRepository(q Querier) *QuantRepo {
	return &QuantRepo{q: q}
}

// SumByProduct agrupa en una sola consulta los quants del subárbol interno de locationRootID.
// "Hijo de" es prefijo sobre parent_path (índice text_pattern_ops).
func (r *QuantRepo) SumByProduct(ctx context.Context, productIDs []string, locationRootID string) (map[string]stock.QuantSum, error) {
	out := make(map[string]stock.QuantSum)
	if len(productIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT q.product_id,
		       COALESCE(SUM(q.quantity), 0),
		       COALESCE(SUM(q.reserved_quantity), 0)
		FROM stock_quants q
		JOIN stock_locations l ON l.id = q.location_id
		JOIN stock_locations root ON root.id = $2
		WHERE q.product_id = ANY($1)
		  AND l.usage = 'internal'
		  AND l.parent_path LIKE root.parent_path || '%'
		GROUP BY q.product_id`
	rows, err := r.q.Query(ctx, query, productIDs, locationRootID)
	if err != nil {
		return nil, fmt.Errorf("sum quants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID string
		var onHand, reserved decimal.Decimal
		if err := rows.Scan(&productID, &onHand, &reserved); err != nil {
			return nil, fmt.Errorf("scan quant sum: %w", err)
		}
		out[productID] = stock.QuantSum{OnHand: onHand, Reserved: reserved}
	}
	return out, rows.Err()
}

// Upsert inserta o reemplaza el quant por (producto, ubicación, lote); deja en quant.ID el id vigente.
func (r *QuantRepo) Upsert(ctx context.Context, quant *entity.Quant) error {
	query := `
		INSERT INTO stock_quants (id, product_id, location_id, lot_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, location_id, lot_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              reserved_quantity = EXCLUDED.reserved_quantity,
		              updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		quant.ID, quant.ProductID, quant.LocationID, quant.LotID,
		quant.Quantity, quant.ReservedQuantity, quant.UpdatedAt,
	).Scan(&quant.ID)
	if err != nil {
		return mapWriteError("upsert quant", err)
	}
	return nil
}
