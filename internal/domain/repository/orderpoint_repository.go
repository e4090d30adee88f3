package repository

import (
	"context"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
)

// OrderpointRepository es el registro de reglas de reorden.
type OrderpointRepository interface {
	// FindByProducts trae en una sola consulta todas las reglas de las variantes dadas.
	FindByProducts(ctx context.Context, productIDs []string) ([]entity.Orderpoint, error)
	// Upsert crea o actualiza la regla única por (producto, bodega).
	Upsert(ctx context.Context, orderpoint *entity.Orderpoint) error
}
