package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/warehouse-qty-api/internal/application/inventory"
	appstock "github.com/jhoicas/warehouse-qty-api/internal/application/stock"
	"github.com/jhoicas/warehouse-qty-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-qty-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC   *usecase.WarehouseUseCase
	ProductUC     *usecase.ProductUseCase
	QtyMapUC      *appstock.QtyMapUseCase
	ListViewUC    *appstock.ListViewUseCase
	ReportUC      *appstock.ReportUseCase
	LedgerUC      *inventory.LedgerUseCase
	Replenishment *inventory.ReplenishmentUseCase
	JWTSecret     string
	JWTIssuer     string
	ServiceName   string
	// Metrics, si no es nil, se expone en GET /metrics (fuera del grupo protegido).
	Metrics nethttp.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Rutas protegidas (requieren Bearer Token); escritura solo admin/bodeguero.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.ListViewUC)
	warehouses := api.Group("/warehouses")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/columns", warehouseHandler.Columns)
	warehouses.Post("/", RequireRole(jwt.RoleAdmin), warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Delete("/:id", RequireRole(jwt.RoleAdmin), warehouseHandler.Delete)
	warehouses.Get("/:id/locations", warehouseHandler.ListLocations)
	api.Post("/locations", writers, warehouseHandler.CreateLocation)

	productHandler := NewProductHandler(deps.ProductUC, deps.ListViewUC, deps.QtyMapUC)
	reportHandler := NewReportHandler(deps.ReportUC)
	families := api.Group("/families")
	families.Get("/", productHandler.ListFamilies)
	families.Get("/qty-map", productHandler.FamilyQtyMap)
	families.Get("/report.pdf", reportHandler.FamilyReport)
	families.Post("/", writers, productHandler.CreateFamily)
	families.Post("/:id/variants", writers, productHandler.AddVariant)

	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/qty-map", productHandler.ProductQtyMap)
	products.Get("/:id", productHandler.GetByID)

	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.Replenishment)
	inv := api.Group("/inventory")
	inv.Put("/quants", writers, inventoryHandler.UpsertQuant)
	inv.Put("/orderpoints", writers, inventoryHandler.UpsertOrderpoint)
	inv.Get("/replenishment", inventoryHandler.GetReplenishment)
}
