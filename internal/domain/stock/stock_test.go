package stock_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/stock"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestQuantSum_Available_RestaReservado(t *testing.T) {
	s := stock.QuantSum{OnHand: d("10.5"), Reserved: d("2.25")}
	assert.True(t, s.Available().Equal(d("8.25")))
}

func TestQuantSum_Available_PuedeSerNegativo(t *testing.T) {
	s := stock.QuantSum{OnHand: d("1"), Reserved: d("3")}
	assert.True(t, s.Available().Equal(d("-2")), "no se recorta a cero")
}

func TestSnapshot_Fill_EsDensoYAislado(t *testing.T) {
	s := stock.NewSnapshot([]string{"v1", "v2"})
	w1 := &entity.Warehouse{ID: "w1", Name: "Principal"}
	w2 := &entity.Warehouse{ID: "w2", Name: "Norte"}

	s.Fill(w1, map[string]decimal.Decimal{"v1": d("8")})
	s.Fill(w2, map[string]decimal.Decimal{})

	require.Len(t, s["v1"], 2)
	require.Len(t, s["v2"], 2)
	assert.True(t, s["v1"]["w1"].Qty.Equal(d("8")))
	assert.True(t, s["v1"]["w2"].Qty.IsZero())
	assert.True(t, s["v2"]["w1"].Qty.IsZero(), "la ausencia de v2 no depende de v1")
	assert.Equal(t, "Norte", s["v2"]["w2"].Name)

	s["v1"]["w2"].Qty = d("99")
	assert.True(t, s["v2"]["w2"].Qty.IsZero(), "las entradas no se comparten entre productos")
}

func TestSnapshot_Fill_IgnoraProductosAjenos(t *testing.T) {
	s := stock.NewSnapshot([]string{"v1"})
	s.Fill(&entity.Warehouse{ID: "w1", Name: "A"}, map[string]decimal.Decimal{"otro": d("5")})
	assert.Len(t, s, 1)
	assert.True(t, s["v1"]["w1"].Qty.IsZero())
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, stock.UniqueIDs([]string{"a", "", "b", "a", "c", "b"}))
	assert.Empty(t, stock.UniqueIDs(nil))
}

func TestFamilyIndex_RollUpSumaVariantes(t *testing.T) {
	ix := stock.NewFamilyIndex([]string{"f1", "f2", "f3"}, map[string][]string{
		"f1": {"v1", "v2"},
		"f2": {"v3"},
	})
	assert.ElementsMatch(t, []string{"v1", "v2", "v3"}, ix.VariantIDs())
	_, ok := ix.FamilyOf("f3")
	assert.False(t, ok, "una familia no es variante de otra")

	fid, ok := ix.FamilyOf("v2")
	require.True(t, ok)
	assert.Equal(t, "f1", fid)

	totals := ix.RollUp(map[string]decimal.Decimal{"v1": d("8"), "v2": d("5"), "v9": d("100")})
	require.Len(t, totals, 3, "una entrada por familia del lote; v9 no pertenece a ninguna")
	assert.True(t, totals["f1"].Equal(d("13")))
	assert.True(t, totals["f2"].IsZero(), "variante sin registros aporta 0")
	assert.True(t, totals["f3"].IsZero(), "familia sin variantes")
}

func TestCollectThresholds_FamiliaTomaElMinimo(t *testing.T) {
	ix := stock.NewFamilyIndex([]string{"f1"}, map[string][]string{"f1": {"v1", "v2"}})
	rules := []entity.Orderpoint{
		{ProductID: "v1", WarehouseID: "w1", MinQty: d("20")},
		{ProductID: "v2", WarehouseID: "w1", MinQty: d("5")},
		{ProductID: "huerfana", WarehouseID: "w1", MinQty: d("1")},
	}
	th := stock.CollectThresholds(rules, ix.FamilyOf)

	got, ok := th.Lookup("f1", "w1")
	require.True(t, ok)
	assert.True(t, got.Equal(d("5")))
	_, ok = th.Lookup("f1", "w2")
	assert.False(t, ok)
	_, ok = th.Lookup("huerfana", "w1")
	assert.False(t, ok)
}

func TestCollectThresholds_VarianteDuplicadaTomaElMinimo(t *testing.T) {
	rules := []entity.Orderpoint{
		{ProductID: "v1", WarehouseID: "w1", MinQty: d("3")},
		{ProductID: "v1", WarehouseID: "w1", MinQty: d("7")},
	}
	th := stock.CollectThresholds(rules, stock.VariantOwner([]string{"v1"}))
	got, ok := th.Lookup("v1", "w1")
	require.True(t, ok)
	assert.True(t, got.Equal(d("3")))
}

func TestMergeThresholds_NoTocaNameNiQtyYOmiteAusentes(t *testing.T) {
	s := stock.NewSnapshot([]string{"v1"})
	s.Fill(&entity.Warehouse{ID: "w1", Name: "A"}, map[string]decimal.Decimal{"v1": d("4")})
	s.Fill(&entity.Warehouse{ID: "w2", Name: "B"}, nil)

	th := stock.CollectThresholds([]entity.Orderpoint{
		{ProductID: "v1", WarehouseID: "w1", MinQty: d("0")},
		{ProductID: "v1", WarehouseID: "borrada", MinQty: d("9")},
	}, stock.VariantOwner([]string{"v1"}))
	s.MergeThresholds(th)

	e1 := s["v1"]["w1"]
	require.True(t, e1.HasMinQty(), "una regla de cero sigue siendo una regla")
	assert.True(t, e1.MinQty.IsZero())
	assert.Equal(t, "A", e1.Name)
	assert.True(t, e1.Qty.Equal(d("4")))
	assert.False(t, s["v1"]["w2"].HasMinQty())
	assert.Len(t, s["v1"], 2, "la bodega de una regla huérfana no aparece")
}

func TestEntry_JSON_NumerosYMinQtyOmitido(t *testing.T) {
	m := d("5")
	qtyMap := stock.QtyMap{
		"w1": {Name: "Principal", Qty: d("13"), MinQty: &m},
		"w2": {Name: "Norte", Qty: decimal.Zero},
	}
	b, err := json.Marshal(qtyMap)
	require.NoError(t, err)
	assert.JSONEq(t, `{"w1":{"name":"Principal","qty":13,"min_qty":5},"w2":{"name":"Norte","qty":0}}`, string(b))

	var back stock.QtyMap
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back["w1"].MinQty.Equal(m))
	assert.Nil(t, back["w2"].MinQty)
}
