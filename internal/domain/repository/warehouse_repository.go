package repository

import (
	"context"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
// ListAll es el registro de bodegas que consume el cálculo: se lee en cada cómputo, sin caché.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	ListAll(ctx context.Context, companyID string) ([]*entity.Warehouse, error)
	Delete(ctx context.Context, id string) error
}

// LocationRepository define el puerto para la jerarquía de ubicaciones.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Location, error)
}
