package repository

import "context"

// TxRepos agrupa los repositorios atados a una misma transacción.
type TxRepos struct {
	Warehouses  WarehouseRepository
	Locations   LocationRepository
	Products    ProductRepository
	Quants      QuantRepository
	Orderpoints OrderpointRepository
}

// TxRunner ejecuta fn dentro de una transacción; Commit si fn no falla, Rollback si falla.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
