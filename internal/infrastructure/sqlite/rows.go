package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
)

type warehouseRow struct {
	ID              string    `db:"id"`
	CompanyID       string    `db:"company_id"`
	Code            string    `db:"code"`
	Name            string    `db:"name"`
	StockLocationID string    `db:"stock_location_id"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r warehouseRow) toEntity() *entity.Warehouse {
	w := entity.Warehouse(r)
	return &w
}

type locationRow struct {
	ID          string         `db:"id"`
	CompanyID   string         `db:"company_id"`
	WarehouseID string         `db:"warehouse_id"`
	ParentID    sql.NullString `db:"parent_id"`
	ParentPath  string         `db:"parent_path"`
	Name        string         `db:"name"`
	Usage       string         `db:"usage"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r locationRow) toEntity() *entity.Location {
	return &entity.Location{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		WarehouseID: r.WarehouseID,
		ParentID:    r.ParentID.String,
		ParentPath:  r.ParentPath,
		Name:        r.Name,
		Usage:       r.Usage,
		CreatedAt:   r.CreatedAt,
	}
}

type familyRow struct {
	ID          string    `db:"id"`
	CompanyID   string    `db:"company_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r familyRow) toEntity() *entity.ProductFamily {
	f := entity.ProductFamily(r)
	return &f
}

type productRow struct {
	ID         string    `db:"id"`
	CompanyID  string    `db:"company_id"`
	FamilyID   string    `db:"family_id"`
	SKU        string    `db:"sku"`
	Name       string    `db:"name"`
	Attributes string    `db:"attributes"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID:         r.ID,
		CompanyID:  r.CompanyID,
		FamilyID:   r.FamilyID,
		SKU:        r.SKU,
		Name:       r.Name,
		Attributes: json.RawMessage(r.Attributes),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// quantLine es una fila del ledger ya filtrada; la suma se hace en Go.
type quantLine struct {
	ProductID        string          `db:"product_id"`
	Quantity         decimal.Decimal `db:"quantity"`
	ReservedQuantity decimal.Decimal `db:"reserved_quantity"`
}

type orderpointRow struct {
	ID          string          `db:"id"`
	ProductID   string          `db:"product_id"`
	WarehouseID string          `db:"warehouse_id"`
	MinQty      decimal.Decimal `db:"min_qty"`
	MaxQty      decimal.Decimal `db:"max_qty"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r orderpointRow) toEntity() entity.Orderpoint {
	return entity.Orderpoint(r)
}
