package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-qty-api/internal/application/inventory"
	appstock "github.com/jhoicas/warehouse-qty-api/internal/application/stock"
	"github.com/jhoicas/warehouse-qty-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-qty-api/internal/infrastructure/metrics"
	"github.com/jhoicas/warehouse-qty-api/internal/infrastructure/pdf"
	"github.com/jhoicas/warehouse-qty-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/warehouse-qty-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/warehouse-qty-api/pkg/jwt"
)

const otherCompanyID = "00000000-0000-0000-0000-000000000009"

// newStack arma la API completa sobre SQLite en memoria.
func newStack(t *testing.T) *fiber.App {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := sqlite.NewRepos(db)
	tx := sqlite.NewTxRunner(db)
	recorder := metrics.NewPrometheusRecorder()

	qtyUC := appstock.NewQtyMapUseCase(repos.Warehouses, repos.Quants, repos.Orderpoints, repos.Products,
		appstock.WithRecorder(recorder))
	listUC := appstock.NewListViewUseCase(qtyUC, repos.Products, repos.Warehouses)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		WarehouseUC:   usecase.NewWarehouseUseCase(tx, repos.Warehouses, repos.Locations),
		ProductUC:     usecase.NewProductUseCase(tx, repos.Products),
		QtyMapUC:      qtyUC,
		ListViewUC:    listUC,
		ReportUC:      appstock.NewReportUseCase(listUC, pdf.NewStockReportGenerator(), 50),
		LedgerUC:      inventory.NewLedgerUseCase(tx, repos.Products, repos.Locations, repos.Warehouses),
		Replenishment: inventory.NewReplenishmentUseCase(listUC),
		JWTSecret:     testJWTSecret,
		JWTIssuer:     testIssuer,
		ServiceName:   "warehouse-qty-api",
		Metrics:       recorder.Handler(),
	})
	return app
}

func bearer(t *testing.T, companyID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, companyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}

type seeded struct {
	w1, w2, w1Stock, w2Stock string
	family, small, medium    string
}

func seedAPI(t *testing.T, app *fiber.App, admin string) seeded {
	t.Helper()
	var s seeded

	status, raw := call(t, app, http.MethodPost, "/api/warehouses", admin, map[string]string{"code": "w1", "name": "Principal"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	w1 := decode(t, raw)
	s.w1, s.w1Stock = w1["id"].(string), w1["stock_location_id"].(string)
	assert.Equal(t, "W1", w1["code"])

	status, raw = call(t, app, http.MethodPost, "/api/warehouses", admin, map[string]string{"code": "W2", "name": "Norte"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	w2 := decode(t, raw)
	s.w2, s.w2Stock = w2["id"].(string), w2["stock_location_id"].(string)

	status, raw = call(t, app, http.MethodPost, "/api/families", admin, map[string]interface{}{
		"name": "Camiseta",
		"variants": []map[string]interface{}{
			{"sku": "cam-s", "name": "Camiseta S", "attributes": map[string]string{"talla": "S"}},
			{"sku": "cam-m", "name": "Camiseta M"},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	fam := decode(t, raw)
	s.family = fam["id"].(string)
	variants := fam["variants"].([]interface{})
	require.Len(t, variants, 2)
	s.small = variants[0].(map[string]interface{})["id"].(string)
	s.medium = variants[1].(map[string]interface{})["id"].(string)

	for _, q := range []map[string]interface{}{
		{"product_id": s.small, "location_id": s.w1Stock, "quantity": 9, "reserved_quantity": 1},
		{"product_id": s.medium, "location_id": s.w1Stock, "quantity": 5, "reserved_quantity": 0},
	} {
		status, raw = call(t, app, http.MethodPut, "/api/inventory/quants", admin, q)
		require.Equal(t, http.StatusOK, status, string(raw))
	}
	for _, op := range []map[string]interface{}{
		{"product_id": s.small, "warehouse_id": s.w1, "min_qty": 5},
		{"product_id": s.medium, "warehouse_id": s.w1, "min_qty": 7, "max_qty": 20},
	} {
		status, raw = call(t, app, http.MethodPut, "/api/inventory/orderpoints", admin, op)
		require.Equal(t, http.StatusOK, status, string(raw))
	}
	return s
}

func TestAPI_FamiliasConsolidanPorBodega(t *testing.T) {
	app := newStack(t)
	admin := bearer(t, testCompanyID, pkgjwt.RoleAdmin)
	s := seedAPI(t, app, admin)

	status, raw := call(t, app, http.MethodGet, "/api/families", admin, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	body := decode(t, raw)

	require.Len(t, body["columns"], 2)
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	qtyMap := items[0].(map[string]interface{})["warehouse_qty_map"].(map[string]interface{})

	w1 := qtyMap[s.w1].(map[string]interface{})
	assert.Equal(t, "Principal", w1["name"])
	assert.Equal(t, 13.0, w1["qty"], "(9-1) + 5")
	assert.Equal(t, 5.0, w1["min_qty"], "el menor mínimo entre variantes")

	w2 := qtyMap[s.w2].(map[string]interface{})
	assert.Equal(t, 0.0, w2["qty"])
	assert.NotContains(t, w2, "min_qty")
}

func TestAPI_QtyMapDeVariantes(t *testing.T) {
	app := newStack(t)
	admin := bearer(t, testCompanyID, pkgjwt.RoleAdmin)
	s := seedAPI(t, app, admin)

	path := "/api/products/qty-map?ids=" + s.small + "," + s.medium + ",," + s.small
	status, raw := call(t, app, http.MethodGet, path, admin, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	body := decode(t, raw)
	assert.Equal(t, "variant", body["scope"])

	items := body["items"].(map[string]interface{})
	require.Len(t, items, 2)
	small := items[s.small].(map[string]interface{})
	assert.Equal(t, 8.0, small[s.w1].(map[string]interface{})["qty"])
	assert.Equal(t, 5.0, small[s.w1].(map[string]interface{})["min_qty"])
	assert.Equal(t, 0.0, small[s.w2].(map[string]interface{})["qty"])

	status, raw = call(t, app, http.MethodGet, "/api/families/qty-map?ids="+s.family, admin, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	fam := decode(t, raw)["items"].(map[string]interface{})[s.family].(map[string]interface{})
	assert.Equal(t, 13.0, fam[s.w1].(map[string]interface{})["qty"])

	status, raw = call(t, app, http.MethodGet, "/api/products/qty-map", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode(t, raw)["items"])
}

func TestAPI_QtyMapIdsDesconocidosODeOtraEmpresa(t *testing.T) {
	app := newStack(t)
	admin := bearer(t, testCompanyID, pkgjwt.RoleAdmin)
	s := seedAPI(t, app, admin)
	other := bearer(t, otherCompanyID, pkgjwt.RoleAdmin)

	status, raw := call(t, app, http.MethodGet, "/api/products/qty-map?ids="+s.small+",no-existe,no-existe", admin, nil)
	require.Equal(t, http.StatusNotFound, status, string(raw))
	body := decode(t, raw)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "ids desconocidos: no-existe", body["message"])

	status, raw = call(t, app, http.MethodGet, "/api/products/qty-map?ids="+s.small, other, nil)
	require.Equal(t, http.StatusNotFound, status, "una variante ajena no se reporta con ceros")
	assert.Contains(t, decode(t, raw)["message"], s.small)

	status, _ = call(t, app, http.MethodGet, "/api/families/qty-map?ids="+s.family, other, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, raw = call(t, app, http.MethodGet, "/api/families/qty-map?ids="+s.small, admin, nil)
	require.Equal(t, http.StatusNotFound, status, "un id de variante no es una familia")
	assert.Contains(t, decode(t, raw)["message"], s.small)
}

func TestAPI_BodegaNuevaApareceEnLaSiguienteLectura(t *testing.T) {
	app := newStack(t)
	admin := bearer(t, testCompanyID, pkgjwt.RoleAdmin)
	s := seedAPI(t, app, admin)

	status, raw := call(t, app, http.MethodPost, "/api/warehouses", admin, map[string]string{"code": "W3", "name": "Sur"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	w3 := decode(t, raw)["id"].(string)

	status, raw = call(t, app, http.MethodGet, "/api/products/qty-map?ids="+s.small, admin, nil)
	require.Equal(t, http.StatusOK, status)
	small := decode(t, raw)["items"].(map[string]interface{})[s.small].(map[string]interface{})
	require.Len(t, small, 3)
	assert.Equal(t, "Sur", small[w3].(map[string]interface{})["name"])

	status, _ = call(t, app, http.MethodDelete, "/api/warehouses/"+w3, admin, nil)
	require.Equal(t, http.StatusNoContent, status)

	_, raw = call(t, app, http.MethodGet, "/api/products/qty-map?ids="+s.small, admin, nil)
	small = decode(t, raw)["items"].(map[string]interface{})[s.small].(map[string]interface{})
	assert.Len(t, small, 2)
	assert.NotContains(t, small, w3)
}

func TestAPI_SubUbicacionesYTransito(t *testing.T) {
	app := newStack(t)
	admin := bearer(t, testCompanyID, pkgjwt.RoleAdmin)
	s := seedAPI(t, app, admin)

	status, raw := call(t, app, http.MethodPost, "/api/locations", admin,
		map[string]string{"parent_id": s.w1Stock, "name": "Estante A", "usage": "internal"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	shelf := decode(t, raw)
	assert.True(t, strings.HasSuffix(shelf["parent_path"].(string), s.w1Stock+"/"+shelf["id"].(string)+"/"))

	status, raw = call(t, app, http.MethodPost, "/api/locations", admin,
		map[string]string{"parent_id": s.w1Stock, "name": "Muelle", "usage": "transit"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	transit := decode(t, raw)["id"].(string)

	for _, q := range []map[string]interface{}{
		{"product_id": s.small, "location_id": shelf["id"], "quantity": "2.5"},
		{"product_id": s.small, "location_id": transit, "quantity": 100},
	} {
		status, raw = call(t, app, http.MethodPut, "/api/inventory/quants", admin, q)
		require.Equal(t, http.StatusOK, status, string(raw))
	}

	_, raw = call(t, app, http.MethodGet, "/api/products/qty-map?ids="+s.small, admin, nil)
	small := decode(t, raw)["items"].(map[string]interface{})[s.small].(map[string]interface{})
	assert.Equal(t, 10.5, small[s.w1].(map[string]interface{})["qty"], "8 + 2.5; tránsito no cuenta")

	status, raw = call(t, app, http.MethodGet, "/api/warehouses/"+s.w1+"/locations", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var locs []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &locs))
	assert.Len(t, locs, 4)
}

func TestAPI_EmpresasAisladas(t *testing.T) {
	app := newStack(t)
	admin := bearer(t, testCompanyID, pkgjwt.RoleAdmin)
	s := seedAPI(t, app, admin)
	other := bearer(t, otherCompanyID, pkgjwt.RoleAdmin)

	status, raw := call(t, app, http.MethodGet, "/api/warehouses/columns", other, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))

	status, _ = call(t, app, http.MethodPut, "/api/inventory/quants", other,
		map[string]interface{}{"product_id": s.small, "location_id": s.w1Stock, "quantity": 1})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, http.MethodGet, "/api/warehouses/"+s.w1, other, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_ValidacionesYRoles(t *testing.T) {
	app := newStack(t)
	admin := bearer(t, testCompanyID, pkgjwt.RoleAdmin)
	s := seedAPI(t, app, admin)
	reader := bearer(t, testCompanyID, pkgjwt.RoleConsulta)

	status, _ := call(t, app, http.MethodPut, "/api/inventory/quants", reader,
		map[string]interface{}{"product_id": s.small, "location_id": s.w1Stock, "quantity": 1})
	assert.Equal(t, http.StatusForbidden, status)

	status, raw := call(t, app, http.MethodGet, "/api/families", reader, nil)
	assert.Equal(t, http.StatusOK, status, string(raw))

	status, _ = call(t, app, http.MethodPut, "/api/inventory/quants", admin,
		map[string]interface{}{"product_id": s.small, "location_id": s.w1Stock, "quantity": 1, "reserved_quantity": -1})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPut, "/api/inventory/orderpoints", admin,
		map[string]interface{}{"product_id": s.small, "warehouse_id": s.w1, "min_qty": 10, "max_qty": 5})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPost, "/api/warehouses", admin, map[string]string{"code": "W1", "name": "Repetida"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = call(t, app, http.MethodPost, "/api/families/"+s.family+"/variants", admin,
		map[string]string{"sku": "CAM-S", "name": "Duplicada"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = call(t, app, http.MethodPost, "/api/locations", admin,
		map[string]string{"parent_id": s.w1Stock, "name": "X", "usage": "galaxia"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodGet, "/api/families", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_ReposicionReporteYMetricas(t *testing.T) {
	app := newStack(t)
	admin := bearer(t, testCompanyID, pkgjwt.RoleAdmin)
	s := seedAPI(t, app, admin)

	status, raw := call(t, app, http.MethodGet, "/api/inventory/replenishment?limit=1&offset=5", admin, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var suggestions []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &suggestions))
	require.Len(t, suggestions, 1, "solo CAM-M está bajo su mínimo (5 < 7)")
	assert.Equal(t, s.medium, suggestions[0]["product_id"])
	assert.Equal(t, s.w1, suggestions[0]["warehouse_id"])
	assert.Equal(t, "5.5", suggestions[0]["suggested_order_qty"])
	assert.Equal(t, 1.0, suggestions[0]["priority"])

	req := httptest.NewRequest(http.MethodGet, "/api/families/report.pdf", nil)
	req.Header.Set("Authorization", admin)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	status, raw = call(t, app, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `warehouse_qty_ledger_queries_total{scope="family"}`)

	status, raw = call(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", decode(t, raw)["status"])
}
