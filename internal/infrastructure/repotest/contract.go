// Package repotest contiene la batería de pruebas común a los adaptadores del ledger.
// Cada adaptador la ejecuta contra su propia base (SQLite en memoria, PostgreSQL si hay DSN).
package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-qty-api/internal/domain"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
)

// Backend entrega repositorios recién creados sobre una base vacía.
type Backend func(t *testing.T) (repository.TxRepos, repository.TxRunner)

// Fixture ids; los adaptadores reciben ids ya generados.
const (
	Company      = "c0000000-0000-0000-0000-000000000001"
	OtherCompany = "c0000000-0000-0000-0000-000000000002"
)

var errBoom = errors.New("boom")

type world struct {
	w1, w2                     *entity.Warehouse
	w1View, w1Stock, w1Shelf   *entity.Location
	w1Transit, w2View, w2Stock *entity.Location
	family                     *entity.ProductFamily
	v1, v2                     *entity.Product
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T, ctx context.Context, repos repository.TxRepos) world {
	t.Helper()
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	var wd world

	mkWarehouse := func(id, code string, at time.Time) (*entity.Warehouse, *entity.Location, *entity.Location) {
		view := &entity.Location{ID: id + "-view", CompanyID: Company, WarehouseID: id, Name: code, Usage: entity.LocationUsageView, CreatedAt: at}
		view.ParentPath = view.ID + "/"
		stockLoc := &entity.Location{ID: id + "-stock", CompanyID: Company, WarehouseID: id, ParentID: view.ID, Name: "Stock", Usage: entity.LocationUsageInternal, CreatedAt: at}
		stockLoc.ParentPath = view.ChildPath(stockLoc.ID)
		w := &entity.Warehouse{ID: id, CompanyID: Company, Code: code, Name: "Bodega " + code, StockLocationID: stockLoc.ID, CreatedAt: at, UpdatedAt: at}
		require.NoError(t, repos.Warehouses.Create(ctx, w))
		require.NoError(t, repos.Locations.Create(ctx, view))
		require.NoError(t, repos.Locations.Create(ctx, stockLoc))
		return w, view, stockLoc
	}
	wd.w1, wd.w1View, wd.w1Stock = mkWarehouse("w1", "W1", base)
	wd.w2, wd.w2View, wd.w2Stock = mkWarehouse("w2", "W2", base.Add(time.Hour))

	wd.w1Shelf = &entity.Location{ID: "w1-shelf", CompanyID: Company, WarehouseID: "w1", ParentID: wd.w1Stock.ID, Name: "Estante A", Usage: entity.LocationUsageInternal, CreatedAt: base}
	wd.w1Shelf.ParentPath = wd.w1Stock.ChildPath(wd.w1Shelf.ID)
	wd.w1Transit = &entity.Location{ID: "w1-transit", CompanyID: Company, WarehouseID: "w1", ParentID: wd.w1Stock.ID, Name: "Tránsito", Usage: entity.LocationUsageTransit, CreatedAt: base}
	wd.w1Transit.ParentPath = wd.w1Stock.ChildPath(wd.w1Transit.ID)
	require.NoError(t, repos.Locations.Create(ctx, wd.w1Shelf))
	require.NoError(t, repos.Locations.Create(ctx, wd.w1Transit))

	wd.family = &entity.ProductFamily{ID: "f1", CompanyID: Company, Name: "Camiseta", CreatedAt: base, UpdatedAt: base}
	require.NoError(t, repos.Products.CreateFamily(ctx, wd.family))
	wd.v1 = &entity.Product{ID: "v1", CompanyID: Company, FamilyID: "f1", SKU: "CAM-S", Name: "Camiseta S", CreatedAt: base, UpdatedAt: base}
	wd.v2 = &entity.Product{ID: "v2", CompanyID: Company, FamilyID: "f1", SKU: "CAM-M", Name: "Camiseta M", Attributes: []byte(`{"talla":"M"}`), CreatedAt: base, UpdatedAt: base}
	require.NoError(t, repos.Products.Create(ctx, wd.v1))
	require.NoError(t, repos.Products.Create(ctx, wd.v2))

	quants := []entity.Quant{
		{ID: "q1", ProductID: "v1", LocationID: wd.w1Stock.ID, Quantity: dec("5"), ReservedQuantity: dec("0")},
		{ID: "q2", ProductID: "v1", LocationID: wd.w1Shelf.ID, Quantity: dec("3.5"), ReservedQuantity: dec("1")},
		{ID: "q3", ProductID: "v1", LocationID: wd.w1Transit.ID, Quantity: dec("100"), ReservedQuantity: dec("0")},
		{ID: "q4", ProductID: "v2", LocationID: wd.w2Stock.ID, Quantity: dec("7"), ReservedQuantity: dec("2")},
	}
	for i := range quants {
		quants[i].UpdatedAt = base
		require.NoError(t, repos.Quants.Upsert(ctx, &quants[i]))
	}
	return wd
}

// Run ejecuta la batería completa contra el backend.
func Run(t *testing.T, newBackend Backend) {
	ctx := context.Background()

	t.Run("registro de bodegas por empresa en orden de creación", func(t *testing.T) {
		repos, _ := newBackend(t)
		seed(t, ctx, repos)

		list, err := repos.Warehouses.ListAll(ctx, Company)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "w1", list[0].ID)
		assert.Equal(t, "w1-stock", list[0].StockLocationID)
		assert.Equal(t, "w2", list[1].ID)

		other, err := repos.Warehouses.ListAll(ctx, OtherCompany)
		require.NoError(t, err)
		assert.Empty(t, other)

		missing, err := repos.Warehouses.GetByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("suma del subárbol interno por variante", func(t *testing.T) {
		repos, _ := newBackend(t)
		wd := seed(t, ctx, repos)

		sums, err := repos.Quants.SumByProduct(ctx, []string{"v1", "v2", "v-missing"}, wd.w1.StockLocationID)
		require.NoError(t, err)
		require.Contains(t, sums, "v1")
		assert.True(t, dec("8.5").Equal(sums["v1"].OnHand), "stock + estante; tránsito excluido")
		assert.True(t, dec("1").Equal(sums["v1"].Reserved))
		assert.NotContains(t, sums, "v2", "v2 solo tiene quants en W2")
		assert.NotContains(t, sums, "v-missing")

		shelfOnly, err := repos.Quants.SumByProduct(ctx, []string{"v1"}, wd.w1Shelf.ID)
		require.NoError(t, err)
		assert.True(t, dec("3.5").Equal(shelfOnly["v1"].OnHand))

		empty, err := repos.Quants.SumByProduct(ctx, nil, wd.w1.StockLocationID)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("upsert de quant reemplaza por producto, ubicación y lote", func(t *testing.T) {
		repos, _ := newBackend(t)
		wd := seed(t, ctx, repos)

		q := &entity.Quant{ID: "q-new", ProductID: "v1", LocationID: wd.w1Stock.ID, Quantity: dec("1"), ReservedQuantity: dec("4"), UpdatedAt: time.Now().UTC()}
		require.NoError(t, repos.Quants.Upsert(ctx, q))
		assert.Equal(t, "q1", q.ID, "conserva el id existente")

		lot := &entity.Quant{ID: "q-lot", ProductID: "v1", LocationID: wd.w1Stock.ID, LotID: "L-01", Quantity: dec("2"), ReservedQuantity: dec("0"), UpdatedAt: time.Now().UTC()}
		require.NoError(t, repos.Quants.Upsert(ctx, lot))
		assert.Equal(t, "q-lot", lot.ID)

		sums, err := repos.Quants.SumByProduct(ctx, []string{"v1"}, wd.w1.StockLocationID)
		require.NoError(t, err)
		assert.True(t, dec("6.5").Equal(sums["v1"].OnHand), "1 + 2 (lote) + 3.5")
		assert.True(t, dec("5").Equal(sums["v1"].Reserved))
		assert.True(t, sums["v1"].Available().Equal(dec("1.5")))
	})

	t.Run("adyacencia familia variantes", func(t *testing.T) {
		repos, _ := newBackend(t)
		seed(t, ctx, repos)

		adj, err := repos.Products.VariantIDsByFamily(ctx, Company, []string{"f1", "f-empty"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"v1", "v2"}, adj["f1"])
		assert.NotContains(t, adj, "f-empty")

		other, err := repos.Products.VariantIDsByFamily(ctx, OtherCompany, []string{"f1"})
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("ids existentes filtrados por empresa", func(t *testing.T) {
		repos, _ := newBackend(t)
		seed(t, ctx, repos)

		variants, err := repos.Products.ExistingVariantIDs(ctx, Company, []string{"v1", "v-x", "f1", "v2"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"v1", "v2"}, variants)

		families, err := repos.Products.ExistingFamilyIDs(ctx, Company, []string{"f1", "v1", "f-x"})
		require.NoError(t, err)
		assert.Equal(t, []string{"f1"}, families)

		foreign, err := repos.Products.ExistingVariantIDs(ctx, OtherCompany, []string{"v1", "v2"})
		require.NoError(t, err)
		assert.Empty(t, foreign)

		none, err := repos.Products.ExistingFamilyIDs(ctx, Company, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("catálogo", func(t *testing.T) {
		repos, _ := newBackend(t)
		seed(t, ctx, repos)

		p, err := repos.Products.GetByCompanyAndSKU(ctx, Company, "CAM-M")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "v2", p.ID)
		assert.JSONEq(t, `{"talla":"M"}`, string(p.Attributes))

		list, err := repos.Products.ListByCompany(ctx, Company, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "CAM-M", list[0].SKU)

		families, err := repos.Products.ListFamilies(ctx, Company, 10, 0)
		require.NoError(t, err)
		require.Len(t, families, 1)

		dup := &entity.Product{ID: "v9", CompanyID: Company, FamilyID: "f1", SKU: "CAM-S", Name: "x", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
		assert.ErrorIs(t, repos.Products.Create(ctx, dup), domain.ErrDuplicate)
	})

	t.Run("reglas de reorden únicas por producto y bodega", func(t *testing.T) {
		repos, _ := newBackend(t)
		seed(t, ctx, repos)
		now := time.Now().UTC()

		op := &entity.Orderpoint{ID: "op1", ProductID: "v1", WarehouseID: "w1", MinQty: dec("5"), MaxQty: dec("20"), CreatedAt: now, UpdatedAt: now}
		require.NoError(t, repos.Orderpoints.Upsert(ctx, op))
		again := &entity.Orderpoint{ID: "op2", ProductID: "v1", WarehouseID: "w1", MinQty: dec("3"), CreatedAt: now, UpdatedAt: now}
		require.NoError(t, repos.Orderpoints.Upsert(ctx, again))
		assert.Equal(t, "op1", again.ID)
		require.NoError(t, repos.Orderpoints.Upsert(ctx, &entity.Orderpoint{ID: "op3", ProductID: "v2", WarehouseID: "w2", MinQty: dec("1"), CreatedAt: now, UpdatedAt: now}))

		rules, err := repos.Orderpoints.FindByProducts(ctx, []string{"v1", "v2"})
		require.NoError(t, err)
		require.Len(t, rules, 2)
		for _, r := range rules {
			if r.ProductID == "v1" {
				assert.True(t, dec("3").Equal(r.MinQty))
			}
		}

		none, err := repos.Orderpoints.FindByProducts(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("eliminar bodega arrastra su jerarquía", func(t *testing.T) {
		repos, _ := newBackend(t)
		wd := seed(t, ctx, repos)

		require.NoError(t, repos.Warehouses.Delete(ctx, "w1"))
		assert.ErrorIs(t, repos.Warehouses.Delete(ctx, "w1"), domain.ErrNotFound)

		loc, err := repos.Locations.GetByID(ctx, wd.w1Shelf.ID)
		require.NoError(t, err)
		assert.Nil(t, loc)

		sums, err := repos.Quants.SumByProduct(ctx, []string{"v1"}, wd.w1.StockLocationID)
		require.NoError(t, err)
		assert.Empty(t, sums)
	})

	t.Run("jerarquía de ubicaciones", func(t *testing.T) {
		repos, _ := newBackend(t)
		wd := seed(t, ctx, repos)

		locs, err := repos.Locations.ListByWarehouse(ctx, "w1")
		require.NoError(t, err)
		require.Len(t, locs, 4)
		assert.Equal(t, wd.w1View.ID, locs[0].ID)
		assert.Empty(t, locs[0].ParentID)
		for _, l := range locs {
			assert.True(t, l.IsDescendantOf(wd.w1View))
		}
	})

	t.Run("rollback si el callback falla", func(t *testing.T) {
		repos, runner := newBackend(t)
		seed(t, ctx, repos)

		err := runner.Run(ctx, func(tx repository.TxRepos) error {
			f := &entity.ProductFamily{ID: "f-tx", CompanyID: Company, Name: "Tx", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
			if err := tx.Products.CreateFamily(ctx, f); err != nil {
				return err
			}
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)

		f, err := repos.Products.GetFamilyByID(ctx, "f-tx")
		require.NoError(t, err)
		assert.Nil(t, f)
	})
}
