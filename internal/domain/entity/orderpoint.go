package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Orderpoint es una regla de reorden: mínimo configurado por (variante, bodega).
type Orderpoint struct {
	ID          string
	ProductID   string
	WarehouseID string
	MinQty      decimal.Decimal
	MaxQty      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
