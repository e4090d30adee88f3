package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega (crea también su ubicación raíz de stock).
type CreateWarehouseRequest struct {
	Code string `json:"code" validate:"required,min=1,max=10"`
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	StockLocationID string    `json:"stock_location_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// WarehouseListResponse lista de bodegas de la empresa.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
}

// WarehouseColumn columna dinámica de la vista de lista: una por bodega enumerada.
type WarehouseColumn struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateLocationRequest entrada para crear una sub-ubicación bajo ParentID.
type CreateLocationRequest struct {
	ParentID string `json:"parent_id" validate:"required"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Usage    string `json:"usage" validate:"required,oneof=internal view transit customer supplier inventory"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouse_id"`
	ParentID    string    `json:"parent_id,omitempty"`
	ParentPath  string    `json:"parent_path"`
	Name        string    `json:"name"`
	Usage       string    `json:"usage"`
	CreatedAt   time.Time `json:"created_at"`
}
