package entity

import "time"

// Warehouse representa una bodega: raíz nombrada de un subárbol de ubicaciones (multi-bodega).
// StockLocationID apunta a la ubicación raíz de existencias (lot_stock) de la bodega.
type Warehouse struct {
	ID              string
	CompanyID       string
	Code            string
	Name            string
	StockLocationID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
