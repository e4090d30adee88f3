package stock

import (
	"context"

	"github.com/jhoicas/warehouse-qty-api/internal/application/dto"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
)

// ListViewUseCase arma las vistas de lista de variantes y familias con su warehouse_qty_map.
// El mapa se calcula en cada lectura para la página pedida; nunca se persiste.
// Columnas y mapa salen de una misma lectura del registro de bodegas.
type ListViewUseCase struct {
	qty        *QtyMapUseCase
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
}

// NewListViewUseCase construye el caso de uso.
func NewListViewUseCase(
	qty *QtyMapUseCase,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
) *ListViewUseCase {
	return &ListViewUseCase{qty: qty, products: products, warehouses: warehouses}
}

// Columns devuelve las columnas dinámicas actuales (una por bodega).
func (uc *ListViewUseCase) Columns(ctx context.Context, companyID string) ([]dto.WarehouseColumn, error) {
	list, err := uc.warehouses.ListAll(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toColumns(list), nil
}

// Products lista variantes paginadas con su mapa por bodega.
func (uc *ListViewUseCase) Products(ctx context.Context, companyID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.products.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	warehouses, err := uc.qty.Warehouses(ctx, companyID)
	if err != nil {
		return nil, err
	}
	snapshot, err := uc.qty.VariantQtyMapsIn(ctx, companyID, warehouses, ids)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductListItem, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ProductListItem{
			ProductResponse: *ToProductResponse(p),
			WarehouseQtyMap: snapshot[p.ID],
		})
	}
	return &dto.ProductListResponse{
		Columns: toColumns(warehouses),
		Items:   items,
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Families lista familias paginadas con la consolidación de sus variantes por bodega.
func (uc *ListViewUseCase) Families(ctx context.Context, companyID string, page dto.PageRequest) (*dto.FamilyListResponse, error) {
	page.DefaultPage()
	list, err := uc.products.ListFamilies(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, f := range list {
		ids = append(ids, f.ID)
	}
	warehouses, err := uc.qty.Warehouses(ctx, companyID)
	if err != nil {
		return nil, err
	}
	snapshot, err := uc.qty.FamilyQtyMapsIn(ctx, companyID, warehouses, ids)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FamilyListItem, 0, len(list))
	for _, f := range list {
		items = append(items, dto.FamilyListItem{
			FamilyResponse:  *ToFamilyResponse(f, nil),
			WarehouseQtyMap: snapshot[f.ID],
		})
	}
	return &dto.FamilyListResponse{
		Columns: toColumns(warehouses),
		Items:   items,
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toColumns(list []*entity.Warehouse) []dto.WarehouseColumn {
	columns := make([]dto.WarehouseColumn, 0, len(list))
	for _, w := range list {
		columns = append(columns, dto.WarehouseColumn{ID: w.ID, Name: w.Name})
	}
	return columns
}

// ToProductResponse convierte la entidad en DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:         p.ID,
		CompanyID:  p.CompanyID,
		FamilyID:   p.FamilyID,
		SKU:        p.SKU,
		Name:       p.Name,
		Attributes: p.Attributes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ToFamilyResponse convierte la familia (y opcionalmente sus variantes) en DTO.
func ToFamilyResponse(f *entity.ProductFamily, variants []*entity.Product) *dto.FamilyResponse {
	if f == nil {
		return nil
	}
	out := &dto.FamilyResponse{
		ID:          f.ID,
		CompanyID:   f.CompanyID,
		Name:        f.Name,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	for _, v := range variants {
		out.Variants = append(out.Variants, *ToProductResponse(v))
	}
	return out
}
