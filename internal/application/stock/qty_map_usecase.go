package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/stock"
)

// QtyMapUseCase calcula warehouse_qty_map para variantes y familias.
// No guarda estado: bodegas, quants y reglas se leen de nuevo en cada llamada.
// El ledger se consulta una vez por bodega, sin importar cuántos productos traiga el lote.
type QtyMapUseCase struct {
	warehouses  repository.WarehouseRepository
	quants      repository.QuantRepository
	orderpoints repository.OrderpointRepository
	products    repository.ProductRepository
	recorder    Recorder
	log         zerolog.Logger
}

// Option ajusta dependencias opcionales del caso de uso.
type Option func(*QtyMapUseCase)

// WithRecorder conecta las métricas.
func WithRecorder(r Recorder) Option {
	return func(uc *QtyMapUseCase) {
		if r != nil {
			uc.recorder = r
		}
	}
}

// WithLogger conecta el logger estructurado.
func WithLogger(l zerolog.Logger) Option {
	return func(uc *QtyMapUseCase) { uc.log = l }
}

// NewQtyMapUseCase construye el caso de uso.
func NewQtyMapUseCase(
	warehouses repository.WarehouseRepository,
	quants repository.QuantRepository,
	orderpoints repository.OrderpointRepository,
	products repository.ProductRepository,
	opts ...Option,
) *QtyMapUseCase {
	uc := &QtyMapUseCase{
		warehouses:  warehouses,
		quants:      quants,
		orderpoints: orderpoints,
		products:    products,
		recorder:    nopRecorder{},
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// VariantQtyMaps devuelve, por variante, el mapa denso bodega -> {name, qty, min_qty?}.
func (uc *QtyMapUseCase) VariantQtyMaps(ctx context.Context, companyID string, variantIDs []string) (stock.Snapshot, error) {
	return uc.run(ctx, ScopeVariant, companyID, variantIDs, uc.registry(companyID), uc.variantQtyMaps)
}

// VariantQtyMapsIn calcula el mapa de variantes sobre un registro de bodegas ya leído,
// para que quien arma columnas y mapa use la misma lista.
func (uc *QtyMapUseCase) VariantQtyMapsIn(ctx context.Context, companyID string, warehouses []*entity.Warehouse, variantIDs []string) (stock.Snapshot, error) {
	return uc.run(ctx, ScopeVariant, companyID, variantIDs, fixedRegistry(warehouses), uc.variantQtyMaps)
}

// Warehouses lee el registro de bodegas de la empresa.
func (uc *QtyMapUseCase) Warehouses(ctx context.Context, companyID string) ([]*entity.Warehouse, error) {
	return uc.listWarehouses(ctx, companyID)
}

type registryFunc func(ctx context.Context) ([]*entity.Warehouse, error)

type computeFunc func(ctx context.Context, companyID string, ids []string, warehouses []*entity.Warehouse) (stock.Snapshot, int, error)

func (uc *QtyMapUseCase) registry(companyID string) registryFunc {
	return func(ctx context.Context) ([]*entity.Warehouse, error) {
		return uc.listWarehouses(ctx, companyID)
	}
}

func fixedRegistry(warehouses []*entity.Warehouse) registryFunc {
	return func(context.Context) ([]*entity.Warehouse, error) { return warehouses, nil }
}

// run deduplica ids, lee el registro solo si hay algo que calcular y registra el resultado.
func (uc *QtyMapUseCase) run(ctx context.Context, scope, companyID string, rawIDs []string, registry registryFunc, compute computeFunc) (stock.Snapshot, error) {
	start := time.Now()
	ids := stock.UniqueIDs(rawIDs)
	if len(ids) == 0 {
		uc.finish(scope, 0, 0, start, nil)
		return stock.NewSnapshot(ids), nil
	}
	warehouses, err := registry(ctx)
	if err != nil {
		uc.finish(scope, len(ids), 0, start, err)
		return nil, err
	}
	snapshot, queries, err := compute(ctx, companyID, ids, warehouses)
	uc.finish(scope, len(ids), queries, start, err)
	return snapshot, err
}

func (uc *QtyMapUseCase) variantQtyMaps(ctx context.Context, _ string, ids []string, warehouses []*entity.Warehouse) (stock.Snapshot, int, error) {
	snapshot := stock.NewSnapshot(ids)
	if len(warehouses) == 0 {
		return snapshot, 0, nil
	}

	// 1. Una consulta al ledger por bodega con el conjunto completo de variantes
	queries := 0
	for _, wh := range warehouses {
		sums, err := uc.sumAvailable(ctx, ScopeVariant, ids, wh)
		queries++
		if err != nil {
			return nil, queries, err
		}
		snapshot.Fill(wh, stock.AvailableByProduct(sums))
	}

	// 2. Reglas de reorden en lote, clave (variante, bodega)
	rules, err := uc.orderpoints.FindByProducts(ctx, ids)
	if err != nil {
		return nil, queries, fmt.Errorf("reglas de reorden: %w", err)
	}
	snapshot.MergeThresholds(stock.CollectThresholds(rules, stock.VariantOwner(ids)))
	return snapshot, queries, nil
}

// FamilyQtyMaps devuelve, por familia, la suma de sus variantes por bodega y el mínimo
// de reorden más bajo entre ellas.
func (uc *QtyMapUseCase) FamilyQtyMaps(ctx context.Context, companyID string, familyIDs []string) (stock.Snapshot, error) {
	return uc.run(ctx, ScopeFamily, companyID, familyIDs, uc.registry(companyID), uc.familyQtyMaps)
}

// FamilyQtyMapsIn es FamilyQtyMaps sobre un registro de bodegas ya leído.
func (uc *QtyMapUseCase) FamilyQtyMapsIn(ctx context.Context, companyID string, warehouses []*entity.Warehouse, familyIDs []string) (stock.Snapshot, error) {
	return uc.run(ctx, ScopeFamily, companyID, familyIDs, fixedRegistry(warehouses), uc.familyQtyMaps)
}

func (uc *QtyMapUseCase) familyQtyMaps(ctx context.Context, companyID string, ids []string, warehouses []*entity.Warehouse) (stock.Snapshot, int, error) {
	snapshot := stock.NewSnapshot(ids)
	if len(warehouses) == 0 {
		return snapshot, 0, nil
	}

	adjacency, err := uc.products.VariantIDsByFamily(ctx, companyID, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("variantes por familia: %w", err)
	}
	index := stock.NewFamilyIndex(ids, adjacency)
	variantIDs := index.VariantIDs()

	// 1. Unión de variantes de todas las familias: una consulta por bodega, no por familia
	queries := 0
	for _, wh := range warehouses {
		available := map[string]decimal.Decimal{}
		if len(variantIDs) > 0 {
			sums, err := uc.sumAvailable(ctx, ScopeFamily, variantIDs, wh)
			queries++
			if err != nil {
				return nil, queries, err
			}
			available = stock.AvailableByProduct(sums)
		}
		snapshot.Fill(wh, index.RollUp(available))
	}

	if len(variantIDs) == 0 {
		return snapshot, queries, nil
	}

	// 2. Reglas de todas las variantes, consolidadas por (familia, bodega) con el mínimo
	rules, err := uc.orderpoints.FindByProducts(ctx, variantIDs)
	if err != nil {
		return nil, queries, fmt.Errorf("reglas de reorden: %w", err)
	}
	snapshot.MergeThresholds(stock.CollectThresholds(rules, index.FamilyOf))
	return snapshot, queries, nil
}

func (uc *QtyMapUseCase) listWarehouses(ctx context.Context, companyID string) ([]*entity.Warehouse, error) {
	warehouses, err := uc.warehouses.ListAll(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar bodegas: %w", err)
	}
	uc.recorder.Warehouses(len(warehouses))
	return warehouses, nil
}

func (uc *QtyMapUseCase) sumAvailable(ctx context.Context, scope string, ids []string, wh *entity.Warehouse) (map[string]stock.QuantSum, error) {
	uc.recorder.LedgerQuery(scope)
	sums, err := uc.quants.SumByProduct(ctx, ids, wh.StockLocationID)
	if err != nil {
		return nil, fmt.Errorf("ledger bodega %s: %w", wh.ID, err)
	}
	return sums, nil
}

func (uc *QtyMapUseCase) finish(scope string, products, queries int, start time.Time, err error) {
	elapsed := time.Since(start)
	uc.recorder.Computation(scope, err, elapsed)
	if err != nil {
		uc.log.Error().Err(err).Str("scope", scope).Int("products", products).Msg("cálculo de existencias por bodega")
		return
	}
	uc.log.Debug().
		Str("scope", scope).
		Int("products", products).
		Int("ledger_queries", queries).
		Dur("elapsed", elapsed).
		Msg("existencias por bodega calculadas")
}
