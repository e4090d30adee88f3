package inventory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-qty-api/internal/application/dto"
	"github.com/jhoicas/warehouse-qty-api/internal/application/inventory"
	appstock "github.com/jhoicas/warehouse-qty-api/internal/application/stock"
	"github.com/jhoicas/warehouse-qty-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-qty-api/internal/domain"
	"github.com/jhoicas/warehouse-qty-api/internal/infrastructure/sqlite"
)

type env struct {
	ledger        *inventory.LedgerUseCase
	replenishment *inventory.ReplenishmentUseCase
	warehouses    *usecase.WarehouseUseCase
	products      *usecase.ProductUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := sqlite.NewRepos(db)
	tx := sqlite.NewTxRunner(db)
	qty := appstock.NewQtyMapUseCase(repos.Warehouses, repos.Quants, repos.Orderpoints, repos.Products)
	return &env{
		ledger:        inventory.NewLedgerUseCase(tx, repos.Products, repos.Locations, repos.Warehouses),
		replenishment: inventory.NewReplenishmentUseCase(appstock.NewListViewUseCase(qty, repos.Products, repos.Warehouses)),
		warehouses:    usecase.NewWarehouseUseCase(tx, repos.Warehouses, repos.Locations),
		products:      usecase.NewProductUseCase(tx, repos.Products),
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (e *env) warehouse(t *testing.T, company, code string) *dto.WarehouseResponse {
	t.Helper()
	w, err := e.warehouses.Create(context.Background(), company, dto.CreateWarehouseRequest{Code: code, Name: "Bodega " + code})
	require.NoError(t, err)
	return w
}

func (e *env) variants(t *testing.T, company string, skus ...string) []dto.ProductResponse {
	t.Helper()
	req := dto.CreateFamilyRequest{Name: "Familia " + skus[0]}
	for _, s := range skus {
		req.Variants = append(req.Variants, dto.CreateVariantRequest{SKU: s, Name: "Variante " + s})
	}
	fam, err := e.products.CreateFamily(context.Background(), company, req)
	require.NoError(t, err)
	return fam.Variants
}

func TestLedgerUseCase_UpsertQuant(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	w := e.warehouse(t, "c1", "W1")
	v := e.variants(t, "c1", "A")[0]

	first, err := e.ledger.UpsertQuant(ctx, "c1", dto.UpsertQuantRequest{
		ProductID: v.ID, LocationID: w.StockLocationID, Quantity: d("10"), ReservedQuantity: d("2"),
	})
	require.NoError(t, err)

	// Mismo (producto, ubicación, lote): reemplaza y conserva el id.
	second, err := e.ledger.UpsertQuant(ctx, "c1", dto.UpsertQuantRequest{
		ProductID: v.ID, LocationID: w.StockLocationID, Quantity: d("7"),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, d("7").Equal(second.Quantity))

	// Cantidad negativa permitida; reservado negativo no.
	_, err = e.ledger.UpsertQuant(ctx, "c1", dto.UpsertQuantRequest{
		ProductID: v.ID, LocationID: w.StockLocationID, LotID: "L-1", Quantity: d("-3"),
	})
	assert.NoError(t, err)
	_, err = e.ledger.UpsertQuant(ctx, "c1", dto.UpsertQuantRequest{
		ProductID: v.ID, LocationID: w.StockLocationID, Quantity: d("1"), ReservedQuantity: d("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedgerUseCase_UpsertQuant_Referencias(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	w1 := e.warehouse(t, "c1", "W1")
	w2 := e.warehouse(t, "c2", "W2")
	v := e.variants(t, "c1", "A")[0]

	_, err := e.ledger.UpsertQuant(ctx, "c1", dto.UpsertQuantRequest{ProductID: "no-existe", LocationID: w1.StockLocationID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.ledger.UpsertQuant(ctx, "c1", dto.UpsertQuantRequest{ProductID: v.ID, LocationID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.ledger.UpsertQuant(ctx, "c1", dto.UpsertQuantRequest{ProductID: v.ID, LocationID: w2.StockLocationID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.ledger.UpsertQuant(ctx, "c2", dto.UpsertQuantRequest{ProductID: v.ID, LocationID: w2.StockLocationID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.ledger.UpsertQuant(ctx, "c1", dto.UpsertQuantRequest{LocationID: w1.StockLocationID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedgerUseCase_UpsertOrderpoint(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	w := e.warehouse(t, "c1", "W1")
	other := e.warehouse(t, "c2", "W9")
	v := e.variants(t, "c1", "A")[0]

	first, err := e.ledger.UpsertOrderpoint(ctx, "c1", dto.UpsertOrderpointRequest{ProductID: v.ID, WarehouseID: w.ID, MinQty: d("5"), MaxQty: d("20")})
	require.NoError(t, err)
	second, err := e.ledger.UpsertOrderpoint(ctx, "c1", dto.UpsertOrderpointRequest{ProductID: v.ID, WarehouseID: w.ID, MinQty: d("8")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, d("8").Equal(second.MinQty))

	cases := map[string]struct {
		company string
		in      dto.UpsertOrderpointRequest
		want    error
	}{
		"mínimo negativo":      {"c1", dto.UpsertOrderpointRequest{ProductID: v.ID, WarehouseID: w.ID, MinQty: d("-1")}, domain.ErrInvalidInput},
		"máximo menor":         {"c1", dto.UpsertOrderpointRequest{ProductID: v.ID, WarehouseID: w.ID, MinQty: d("5"), MaxQty: d("2")}, domain.ErrInvalidInput},
		"bodega inexistente":   {"c1", dto.UpsertOrderpointRequest{ProductID: v.ID, WarehouseID: "no-existe"}, domain.ErrNotFound},
		"bodega de otra":       {"c1", dto.UpsertOrderpointRequest{ProductID: v.ID, WarehouseID: other.ID}, domain.ErrForbidden},
		"producto de otra":     {"c2", dto.UpsertOrderpointRequest{ProductID: v.ID, WarehouseID: other.ID}, domain.ErrForbidden},
		"sin bodega":           {"c1", dto.UpsertOrderpointRequest{ProductID: v.ID}, domain.ErrInvalidInput},
		"producto inexistente": {"c1", dto.UpsertOrderpointRequest{ProductID: "no-existe", WarehouseID: w.ID}, domain.ErrNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.ledger.UpsertOrderpoint(ctx, tc.company, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReplenishmentUseCase_GenerateReplenishmentList(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	w1 := e.warehouse(t, "c1", "W1")
	w2 := e.warehouse(t, "c1", "W2")
	vs := e.variants(t, "c1", "A", "B", "C")
	a, b, c := vs[0], vs[1], vs[2]

	put := func(productID, locationID, qty, reserved string) {
		_, err := e.ledger.UpsertQuant(ctx, "c1", dto.UpsertQuantRequest{
			ProductID: productID, LocationID: locationID, Quantity: d(qty), ReservedQuantity: d(reserved),
		})
		require.NoError(t, err)
	}
	rule := func(productID, warehouseID, minQty string) {
		_, err := e.ledger.UpsertOrderpoint(ctx, "c1", dto.UpsertOrderpointRequest{ProductID: productID, WarehouseID: warehouseID, MinQty: d(minQty)})
		require.NoError(t, err)
	}

	put(a.ID, w1.StockLocationID, "4", "1") // disponible 3, mínimo 5: déficit 2
	rule(a.ID, w1.ID, "5")
	put(b.ID, w1.StockLocationID, "1", "0") // disponible 1, mínimo 10: déficit 9
	rule(b.ID, w1.ID, "10")
	put(b.ID, w2.StockLocationID, "10", "0") // sobre el mínimo
	rule(b.ID, w2.ID, "10")
	put(c.ID, w2.StockLocationID, "0", "0") // sin regla: nunca se sugiere

	list, err := e.replenishment.GenerateReplenishmentList(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "B", list[0].SKU)
	assert.Equal(t, w1.ID, list[0].WarehouseID)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, d("15").Equal(list[0].IdealQty))
	assert.True(t, d("14").Equal(list[0].SuggestedOrderQty))

	assert.Equal(t, "A", list[1].SKU)
	assert.Equal(t, 2, list[1].Priority)
	assert.True(t, d("3").Equal(list[1].CurrentQty))
	assert.True(t, d("7.5").Equal(list[1].IdealQty))
	assert.True(t, d("4.5").Equal(list[1].SuggestedOrderQty))
}

func TestReplenishmentUseCase_SinBodegas(t *testing.T) {
	e := newEnv(t)
	e.variants(t, "c1", "A")

	list, err := e.replenishment.GenerateReplenishmentList(context.Background(), "c1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestReplenishmentUseCase_RecorreTodoElCatalogo(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	w := e.warehouse(t, "c1", "W1")

	// 250 variantes en tres páginas; el déficit crece con el índice.
	skus := make([]string, 250)
	for i := range skus {
		skus[i] = fmt.Sprintf("S%03d", i)
	}
	vs := e.variants(t, "c1", skus...)
	for i, v := range vs {
		_, err := e.ledger.UpsertOrderpoint(ctx, "c1", dto.UpsertOrderpointRequest{
			ProductID: v.ID, WarehouseID: w.ID, MinQty: decimal.NewFromInt(int64(i + 1)),
		})
		require.NoError(t, err)
	}

	list, err := e.replenishment.GenerateReplenishmentList(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 250, "ninguna variante bajo su mínimo queda fuera por la paginación")

	assert.Equal(t, "S249", list[0].SKU, "el mayor déficit está en la última página")
	assert.Equal(t, "S000", list[249].SKU)
	for i, s := range list {
		assert.Equal(t, i+1, s.Priority)
	}
}
