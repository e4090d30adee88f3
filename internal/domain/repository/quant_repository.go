package repository

import (
	"context"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/stock"
)

// QuantRepository es el ledger de inventario.
type QuantRepository interface {
	// SumByProduct agrupa por variante los quants de productIDs ubicados en el subárbol de
	// locationRootID con uso interno, sumando cantidad y reservado por separado.
	// Solo devuelve variantes con registros; el llamador aplica (0, 0) a las ausentes.
	SumByProduct(ctx context.Context, productIDs []string, locationRootID string) (map[string]stock.QuantSum, error)

	// Upsert inserta o reemplaza el quant por (producto, ubicación, lote).
	Upsert(ctx context.Context, quant *entity.Quant) error
}
