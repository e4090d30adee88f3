package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quant es un registro de inventario por (variante, ubicación, lote).
// Disponible = Quantity - ReservedQuantity; pueden existir varios quants por variante y bodega.
type Quant struct {
	ID               string
	ProductID        string
	LocationID       string
	LotID            string // vacío = sin lote
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	UpdatedAt        time.Time
}
