package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertQuantRequest body para PUT /api/inventory/quants.
type UpsertQuantRequest struct {
	ProductID        string          `json:"product_id" validate:"required"`
	LocationID       string          `json:"location_id" validate:"required"`
	LotID            string          `json:"lot_id,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
}

// QuantResponse salida de un quant.
type QuantResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	LocationID       string          `json:"location_id"`
	LotID            string          `json:"lot_id,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// UpsertOrderpointRequest body para PUT /api/inventory/orderpoints.
type UpsertOrderpointRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	MinQty      decimal.Decimal `json:"min_qty"`
	MaxQty      decimal.Decimal `json:"max_qty"`
}

// OrderpointResponse salida de una regla de reorden.
type OrderpointResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	MinQty      decimal.Decimal `json:"min_qty"`
	MaxQty      decimal.Decimal `json:"max_qty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ReplenishmentSuggestion variante bajo su mínimo en una bodega, con cantidad sugerida de pedido.
type ReplenishmentSuggestion struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	WarehouseID       string          `json:"warehouse_id"`
	WarehouseName     string          `json:"warehouse_name"`
	CurrentQty        decimal.Decimal `json:"current_qty"`
	MinQty            decimal.Decimal `json:"min_qty"`
	IdealQty          decimal.Decimal `json:"ideal_qty"`
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"`
	Priority          int             `json:"priority"`
}
