// Package backend elige el adaptador del ledger según DB_DRIVER.
package backend

import (
	"context"
	"fmt"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-qty-api/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-qty-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/warehouse-qty-api/pkg/config"
)

// Ledger repositorios sobre el pool/db, runner transaccional y cierre.
type Ledger struct {
	Repos    repository.TxRepos
	TxRunner repository.TxRunner
	Close    func()
}

// Open conecta el backend configurado y aplica el esquema.
func Open(ctx context.Context, cfg config.DBConfig) (*Ledger, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Ledger{
			Repos:    sqlite.NewRepos(db),
			TxRunner: sqlite.NewTxRunner(db),
			Close:    func() { _ = db.Close() },
		}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Ledger{
			Repos:    postgres.NewRepos(pool),
			TxRunner: postgres.NewTxRunner(pool),
			Close:    pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("DB_DRIVER no soportado: %q", cfg.Driver)
	}
}
