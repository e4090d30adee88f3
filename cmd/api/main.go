package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/warehouse-qty-api/internal/application/inventory"
	appstock "github.com/jhoicas/warehouse-qty-api/internal/application/stock"
	"github.com/jhoicas/warehouse-qty-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-qty-api/internal/infrastructure/backend"
	"github.com/jhoicas/warehouse-qty-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/warehouse-qty-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/warehouse-qty-api/internal/interfaces/http"
	"github.com/jhoicas/warehouse-qty-api/pkg/config"
	"github.com/jhoicas/warehouse-qty-api/pkg/logger"
)

// @title                       Warehouse Qty API
// @version                     1.0
// @description                 Existencias disponibles y mínimos de reorden por bodega, recalculados en cada lectura.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	ledger, err := backend.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión al ledger")
	}
	defer ledger.Close()
	repos, txRunner := ledger.Repos, ledger.TxRunner

	var recorder *metrics.PrometheusRecorder
	qtyOpts := []appstock.Option{appstock.WithLogger(log.Zerolog())}
	if cfg.Metrics.Enabled {
		recorder = metrics.NewPrometheusRecorder()
		qtyOpts = append(qtyOpts, appstock.WithRecorder(recorder))
	}

	qtyMapUC := appstock.NewQtyMapUseCase(repos.Warehouses, repos.Quants, repos.Orderpoints, repos.Products, qtyOpts...)
	listViewUC := appstock.NewListViewUseCase(qtyMapUC, repos.Products, repos.Warehouses)
	reportUC := appstock.NewReportUseCase(listViewUC, infrapdf.NewStockReportGenerator(), cfg.Report.MaxItems)
	warehouseUC := usecase.NewWarehouseUseCase(txRunner, repos.Warehouses, repos.Locations)
	productUC := usecase.NewProductUseCase(txRunner, repos.Products)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, repos.Products, repos.Locations, repos.Warehouses)
	replenishmentUC := inventory.NewReplenishmentUseCase(listViewUC)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Warehouse Qty API",
	}))

	deps := httpRouter.RouterDeps{
		WarehouseUC:   warehouseUC,
		ProductUC:     productUC,
		QtyMapUC:      qtyMapUC,
		ListViewUC:    listViewUC,
		ReportUC:      reportUC,
		LedgerUC:      ledgerUC,
		Replenishment: replenishmentUC,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
		ServiceName:   cfg.App.Name,
	}
	if recorder != nil {
		deps.Metrics = recorder.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
