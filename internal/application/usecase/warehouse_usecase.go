package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-qty-api/internal/application/dto"
	"github.com/jhoicas/warehouse-qty-api/internal/domain"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-qty-api/pkg/validator"
)

// WarehouseUseCase casos de uso para bodegas y su jerarquía de ubicaciones.
type WarehouseUseCase struct {
	txRunner  repository.TxRunner
	repo      repository.WarehouseRepository
	locations repository.LocationRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(
	txRunner repository.TxRunner,
	repo repository.WarehouseRepository,
	locations repository.LocationRepository,
) *WarehouseUseCase {
	return &WarehouseUseCase{txRunner: txRunner, repo: repo, locations: locations}
}

// Create crea la bodega con su ubicación vista (<CODE>) y la raíz de stock (<CODE>/Stock)
// en una sola transacción.
func (uc *WarehouseUseCase) Create(ctx context.Context, companyID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := time.Now()
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      code,
		Name:      strings.TrimSpace(in.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	view := &entity.Location{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		WarehouseID: warehouse.ID,
		Name:        code,
		Usage:       entity.LocationUsageView,
		CreatedAt:   now,
	}
	view.ParentPath = view.ID + "/"
	stockRoot := &entity.Location{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		WarehouseID: warehouse.ID,
		ParentID:    view.ID,
		Name:        "Stock",
		Usage:       entity.LocationUsageInternal,
		CreatedAt:   now,
	}
	stockRoot.ParentPath = view.ChildPath(stockRoot.ID)
	warehouse.StockLocationID = stockRoot.ID

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Warehouses.Create(ctx, warehouse); err != nil {
			return err
		}
		if err := repos.Locations.Create(ctx, view); err != nil {
			return err
		}
		return repos.Locations.Create(ctx, stockRoot)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega de la empresa.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return nil, nil
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista todas las bodegas de la empresa.
func (uc *WarehouseUseCase) List(ctx context.Context, companyID string) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.ListAll(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{Items: items}, nil
}

// Delete elimina una bodega de la empresa (sus ubicaciones, quants y reglas se eliminan en cascada).
func (uc *WarehouseUseCase) Delete(ctx context.Context, companyID, id string) error {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return domain.ErrNotFound
	}
	if warehouse.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, id)
}

// CreateLocation crea una sub-ubicación; hereda la bodega del padre y extiende su ruta.
func (uc *WarehouseUseCase) CreateLocation(ctx context.Context, companyID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	parent, err := uc.locations.GetByID(ctx, in.ParentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}
	if parent.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	loc := &entity.Location{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		WarehouseID: parent.WarehouseID,
		ParentID:    parent.ID,
		Name:        strings.TrimSpace(in.Name),
		Usage:       in.Usage,
		CreatedAt:   time.Now(),
	}
	loc.ParentPath = parent.ChildPath(loc.ID)
	if err := uc.locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// ListLocations lista la jerarquía de ubicaciones de una bodega.
func (uc *WarehouseUseCase) ListLocations(ctx context.Context, companyID, warehouseID string) ([]dto.LocationResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.locations.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:              w.ID,
		CompanyID:       w.CompanyID,
		Code:            w.Code,
		Name:            w.Name,
		StockLocationID: w.StockLocationID,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.ID,
		WarehouseID: l.WarehouseID,
		ParentID:    l.ParentID,
		ParentPath:  l.ParentPath,
		Name:        l.Name,
		Usage:       l.Usage,
		CreatedAt:   l.CreatedAt,
	}
}
