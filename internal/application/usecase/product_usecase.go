package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-qty-api/internal/application/dto"
	appstock "github.com/jhoicas/warehouse-qty-api/internal/application/stock"
	"github.com/jhoicas/warehouse-qty-api/internal/domain"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/stock"
	"github.com/jhoicas/warehouse-qty-api/pkg/validator"
)

// ProductUseCase casos de uso del catálogo: familias y variantes. El stock se maneja vía quants.
type ProductUseCase struct {
	txRunner repository.TxRunner
	repo     repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner repository.TxRunner, repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo}
}

// CreateFamily crea la familia y sus variantes iniciales en una transacción.
// Un SKU repetido (en la petición o ya existente en la empresa) devuelve ErrDuplicate.
func (uc *ProductUseCase) CreateFamily(ctx context.Context, companyID string, in dto.CreateFamilyRequest) (*dto.FamilyResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	seen := make(map[string]struct{}, len(in.Variants))
	for _, v := range in.Variants {
		sku := strings.ToUpper(strings.TrimSpace(v.SKU))
		if _, dup := seen[sku]; dup {
			return nil, domain.ErrDuplicate
		}
		seen[sku] = struct{}{}
	}

	now := time.Now()
	family := &entity.ProductFamily{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	variants := make([]*entity.Product, 0, len(in.Variants))
	for _, v := range in.Variants {
		variants = append(variants, newVariant(companyID, family.ID, v, now))
	}

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Products.CreateFamily(ctx, family); err != nil {
			return err
		}
		for _, p := range variants {
			if err := repos.Products.Create(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appstock.ToFamilyResponse(family, variants), nil
}

// AddVariant agrega una variante a una familia existente de la empresa.
func (uc *ProductUseCase) AddVariant(ctx context.Context, companyID, familyID string, in dto.CreateVariantRequest) (*dto.ProductResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	family, err := uc.repo.GetFamilyByID(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, domain.ErrNotFound
	}
	if family.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	existing, err := uc.repo.GetByCompanyAndSKU(ctx, companyID, strings.ToUpper(strings.TrimSpace(in.SKU)))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	p := newVariant(companyID, familyID, in, time.Now())
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return appstock.ToProductResponse(p), nil
}

// GetByID obtiene una variante de la empresa.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.CompanyID != companyID {
		return nil, nil
	}
	return appstock.ToProductResponse(p), nil
}

// UnknownVariants devuelve, sin repetir y en orden de entrada, los ids que no son variantes de la empresa.
func (uc *ProductUseCase) UnknownVariants(ctx context.Context, companyID string, ids []string) ([]string, error) {
	ids = stock.UniqueIDs(ids)
	found, err := uc.repo.ExistingVariantIDs(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	return missing(ids, found), nil
}

// UnknownFamilies es UnknownVariants para familias.
func (uc *ProductUseCase) UnknownFamilies(ctx context.Context, companyID string, ids []string) ([]string, error) {
	ids = stock.UniqueIDs(ids)
	found, err := uc.repo.ExistingFamilyIDs(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	return missing(ids, found), nil
}

func missing(ids, found []string) []string {
	known := make(map[string]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	var out []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func newVariant(companyID, familyID string, in dto.CreateVariantRequest, now time.Time) *entity.Product {
	return &entity.Product{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		FamilyID:   familyID,
		SKU:        strings.ToUpper(strings.TrimSpace(in.SKU)),
		Name:       strings.TrimSpace(in.Name),
		Attributes: in.Attributes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
