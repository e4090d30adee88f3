package repository

import (
	"context"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para familias y variantes (DIP).
type ProductRepository interface {
	CreateFamily(ctx context.Context, family *entity.ProductFamily) error
	GetFamilyByID(ctx context.Context, id string) (*entity.ProductFamily, error)
	ListFamilies(ctx context.Context, companyID string, limit, offset int) ([]*entity.ProductFamily, error)

	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)

	// VariantIDsByFamily devuelve la adyacencia familia -> variantes en una sola consulta.
	// Las familias sin variantes no aparecen en el mapa.
	VariantIDsByFamily(ctx context.Context, companyID string, familyIDs []string) (map[string][]string, error)

	// ExistingVariantIDs y ExistingFamilyIDs filtran ids a los que pertenecen a la empresa.
	ExistingVariantIDs(ctx context.Context, companyID string, ids []string) ([]string, error)
	ExistingFamilyIDs(ctx context.Context, companyID string, ids []string) ([]string, error)
}
