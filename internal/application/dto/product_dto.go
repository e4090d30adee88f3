package dto

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/stock"
)

// CreateVariantRequest entrada para crear una variante.
type CreateVariantRequest struct {
	SKU        string          `json:"sku" validate:"required,min=1,max=100"`
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	Attributes json.RawMessage `json:"attributes"`
}

// CreateFamilyRequest entrada para crear una familia con sus variantes iniciales (misma transacción).
type CreateFamilyRequest struct {
	Name        string                 `json:"name" validate:"required,min=1,max=200"`
	Description string                 `json:"description"`
	Variants    []CreateVariantRequest `json:"variants" validate:"dive"`
}

// ProductResponse salida de una variante.
type ProductResponse struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	FamilyID   string          `json:"family_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// FamilyResponse salida de una familia.
type FamilyResponse struct {
	ID          string            `json:"id"`
	CompanyID   string            `json:"company_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Variants    []ProductResponse `json:"variants,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListItem variante con su atributo calculado warehouse_qty_map.
type ProductListItem struct {
	ProductResponse
	WarehouseQtyMap stock.QtyMap `json:"warehouse_qty_map"`
}

// FamilyListItem familia con su atributo calculado warehouse_qty_map.
type FamilyListItem struct {
	FamilyResponse
	WarehouseQtyMap stock.QtyMap `json:"warehouse_qty_map"`
}

// ProductListResponse vista de lista de variantes con columnas dinámicas por bodega.
type ProductListResponse struct {
	Columns []WarehouseColumn `json:"columns"`
	Items   []ProductListItem `json:"items"`
	Page    PageResponse      `json:"page"`
}

// FamilyListResponse vista de lista de familias con columnas dinámicas por bodega.
type FamilyListResponse struct {
	Columns []WarehouseColumn `json:"columns"`
	Items   []FamilyListItem  `json:"items"`
	Page    PageResponse      `json:"page"`
}

// QtyMapResponse respuesta de /qty-map: id de producto -> mapa por bodega.
type QtyMapResponse struct {
	Scope string                  `json:"scope"`
	Items map[string]stock.QtyMap `json:"items"`
}
