// seed carga datos iniciales desde un archivo YAML (bodegas, ubicaciones, catálogo,
// quants y reglas de reorden) en el backend configurado por DB_DRIVER.
//
// Uso: go run ./cmd/seed -file fixtures.yaml [-charset latin1]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/warehouse-qty-api/internal/application/fixtures"
	"github.com/jhoicas/warehouse-qty-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-qty-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-qty-api/internal/infrastructure/backend"
	"github.com/jhoicas/warehouse-qty-api/pkg/config"
	"github.com/jhoicas/warehouse-qty-api/pkg/logger"
)

func main() {
	path := flag.String("file", "fixtures.yaml", "archivo YAML de datos iniciales")
	charset := flag.String("charset", "", "codificación del archivo (utf-8 por defecto, latin1)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	f, err := os.Open(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir fixtures: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	data, err := fixtures.Parse(f, *charset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	ledger, err := backend.Open(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar ledger: %v\n", err)
		os.Exit(1)
	}
	defer ledger.Close()

	repos, tx := ledger.Repos, ledger.TxRunner
	seeder := fixtures.NewSeeder(
		usecase.NewWarehouseUseCase(tx, repos.Warehouses, repos.Locations),
		usecase.NewProductUseCase(tx, repos.Products),
		inventory.NewLedgerUseCase(tx, repos.Products, repos.Locations, repos.Warehouses),
		log.Zerolog(),
	)
	sum, err := seeder.Apply(ctx, data)
	if err != nil {
		log.Error().Err(err).Msg("sembrado interrumpido")
		ledger.Close()
		os.Exit(1)
	}
	log.Info().
		Str("company_id", data.CompanyID).
		Int("warehouses", sum.Warehouses).
		Int("locations", sum.Locations).
		Int("families", sum.Families).
		Int("variants", sum.Variants).
		Int("quants", sum.Quants).
		Int("orderpoints", sum.Orderpoints).
		Msg("datos iniciales cargados")
}
