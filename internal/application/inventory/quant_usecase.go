package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-qty-api/internal/application/dto"
	"github.com/jhoicas/warehouse-qty-api/internal/domain"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-qty-api/pkg/validator"
)

// LedgerUseCase escribe en el ledger: quants por ubicación y reglas de reorden por bodega.
// El cálculo de cantidades nunca pasa por aquí; solo lee lo que este caso de uso deja escrito.
type LedgerUseCase struct {
	txRunner   repository.TxRunner
	products   repository.ProductRepository
	locations  repository.LocationRepository
	warehouses repository.WarehouseRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner repository.TxRunner,
	products repository.ProductRepository,
	locations repository.LocationRepository,
	warehouses repository.WarehouseRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:   txRunner,
		products:   products,
		locations:  locations,
		warehouses: warehouses,
	}
}

// UpsertQuant fija la cantidad física y reservada de un producto en una ubicación (y lote).
// La cantidad puede ser negativa (faltante no conciliado); lo reservado no, pero puede superar la física.
func (uc *LedgerUseCase) UpsertQuant(ctx context.Context, companyID string, in dto.UpsertQuantRequest) (*dto.QuantResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.ReservedQuantity.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: reserved_quantity negativa", domain.ErrInvalidInput)
	}
	if err := uc.checkProduct(ctx, companyID, in.ProductID); err != nil {
		return nil, err
	}
	loc, err := uc.locations.GetByID(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	if loc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	quant := &entity.Quant{
		ID:               uuid.New().String(),
		ProductID:        in.ProductID,
		LocationID:       in.LocationID,
		LotID:            strings.TrimSpace(in.LotID),
		Quantity:         in.Quantity,
		ReservedQuantity: in.ReservedQuantity,
		UpdatedAt:        time.Now(),
	}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		return repos.Quants.Upsert(ctx, quant)
	})
	if err != nil {
		return nil, err
	}
	return &dto.QuantResponse{
		ID:               quant.ID,
		ProductID:        quant.ProductID,
		LocationID:       quant.LocationID,
		LotID:            quant.LotID,
		Quantity:         quant.Quantity,
		ReservedQuantity: quant.ReservedQuantity,
		UpdatedAt:        quant.UpdatedAt,
	}, nil
}

// UpsertOrderpoint crea o actualiza la regla única por (producto, bodega).
// MaxQty en cero significa sin máximo; si se informa debe ser >= MinQty.
func (uc *LedgerUseCase) UpsertOrderpoint(ctx context.Context, companyID string, in dto.UpsertOrderpointRequest) (*dto.OrderpointResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.MinQty.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: min_qty negativa", domain.ErrInvalidInput)
	}
	if !in.MaxQty.IsZero() && in.MaxQty.LessThan(in.MinQty) {
		return nil, fmt.Errorf("%w: max_qty menor que min_qty", domain.ErrInvalidInput)
	}
	if err := uc.checkProduct(ctx, companyID, in.ProductID); err != nil {
		return nil, err
	}
	wh, err := uc.warehouses.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if wh.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	op := &entity.Orderpoint{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		MinQty:      in.MinQty,
		MaxQty:      in.MaxQty,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		return repos.Orderpoints.Upsert(ctx, op)
	})
	if err != nil {
		return nil, err
	}
	return &dto.OrderpointResponse{
		ID:          op.ID,
		ProductID:   op.ProductID,
		WarehouseID: op.WarehouseID,
		MinQty:      op.MinQty,
		MaxQty:      op.MaxQty,
		UpdatedAt:   op.UpdatedAt,
	}, nil
}

func (uc *LedgerUseCase) checkProduct(ctx context.Context, companyID, productID string) error {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if p.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}
