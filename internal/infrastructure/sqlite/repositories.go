package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/warehouse-qty-api/internal/domain"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/stock"
)

var (
	_ repository.WarehouseRepository  = (*WarehouseRepo)(nil)
	_ repository.LocationRepository   = (*LocationRepo)(nil)
	_ repository.ProductRepository    = (*ProductRepo)(nil)
	_ repository.QuantRepository      = (*QuantRepo)(nil)
	_ repository.OrderpointRepository = (*OrderpointRepo)(nil)
)

// WarehouseRepo registro de bodegas (db o tx).
type WarehouseRepo struct{ q sqlx.ExtContext }

// NewWarehouseRepository construye el adaptador.
func NewWarehouseRepository(q sqlx.ExtContext) *WarehouseRepo { return &WarehouseRepo{q: q} }

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO warehouses (id, company_id, code, name, stock_location_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.CompanyID, w.Code, w.Name, w.StockLocationID, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return mapWriteError("insert warehouse", err)
	}
	return nil
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var row warehouseRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT * FROM warehouses WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return row.toEntity(), nil
}

func (r *WarehouseRepo) ListAll(ctx context.Context, companyID string) ([]*entity.Warehouse, error) {
	var rows []warehouseRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT * FROM warehouses WHERE company_id = ? ORDER BY created_at, code`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	list := make([]*entity.Warehouse, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

func (r *WarehouseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM warehouses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete warehouse: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LocationRepo jerarquía de ubicaciones (db o tx).
type LocationRepo struct{ q sqlx.ExtContext }

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q sqlx.ExtContext) *LocationRepo { return &LocationRepo{q: q} }

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_locations (id, company_id, warehouse_id, parent_id, parent_path, name, usage, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.CompanyID, l.WarehouseID, nullIfEmpty(l.ParentID), l.ParentPath, l.Name, l.Usage, l.CreatedAt)
	if err != nil {
		return mapWriteError("insert location", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	var row locationRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT * FROM stock_locations WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return row.toEntity(), nil
}

func (r *LocationRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Location, error) {
	var rows []locationRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT * FROM stock_locations WHERE warehouse_id = ? ORDER BY parent_path`, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	list := make([]*entity.Location, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// ProductRepo catálogo familia/variante (db o tx).
type ProductRepo struct{ q sqlx.ExtContext }

// NewProductRepository construye el adaptador.
func NewProductRepository(q sqlx.ExtContext) *ProductRepo { return &ProductRepo{q: q} }

func (r *ProductRepo) CreateFamily(ctx context.Context, f *entity.ProductFamily) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO product_families (id, company_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.CompanyID, f.Name, f.Description, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return mapWriteError("insert family", err)
	}
	return nil
}

func (r *ProductRepo) GetFamilyByID(ctx context.Context, id string) (*entity.ProductFamily, error) {
	var row familyRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT * FROM product_families WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get family: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ProductRepo) ListFamilies(ctx context.Context, companyID string, limit, offset int) ([]*entity.ProductFamily, error) {
	var rows []familyRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT * FROM product_families WHERE company_id = ?
		ORDER BY name, id LIMIT ? OFFSET ?`, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	list := make([]*entity.ProductFamily, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	attrs := string(p.Attributes)
	if attrs == "" {
		attrs = "{}"
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (id, company_id, family_id, sku, name, attributes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CompanyID, p.FamilyID, p.SKU, p.Name, attrs, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return mapWriteError("insert product", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT * FROM products WHERE id = ?`, id)
}

func (r *ProductRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT * FROM products WHERE company_id = ? AND sku = ?`, companyID, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...interface{}) (*entity.Product, error) {
	var row productRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	var rows []productRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT * FROM products WHERE company_id = ?
		ORDER BY sku LIMIT ? OFFSET ?`, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	list := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

func (r *ProductRepo) VariantIDsByFamily(ctx context.Context, companyID string, familyIDs []string) (map[string][]string, error) {
	out := make(map[string][]string)
	if len(familyIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`
		SELECT family_id, id FROM products
		WHERE company_id = ? AND family_id IN (?) ORDER BY family_id, sku`, companyID, familyIDs)
	if err != nil {
		return nil, fmt.Errorf("variants by family: %w", err)
	}
	var rows []struct {
		FamilyID string `db:"family_id"`
		ID       string `db:"id"`
	}
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("variants by family: %w", err)
	}
	for _, row := range rows {
		out[row.FamilyID] = append(out[row.FamilyID], row.ID)
	}
	return out, nil
}

func (r *ProductRepo) ExistingVariantIDs(ctx context.Context, companyID string, ids []string) ([]string, error) {
	return r.existing(ctx, "products", companyID, ids)
}

func (r *ProductRepo) ExistingFamilyIDs(ctx context.Context, companyID string, ids []string) ([]string, error) {
	return r.existing(ctx, "product_families", companyID, ids)
}

func (r *ProductRepo) existing(ctx context.Context, table, companyID string, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT id FROM `+table+` WHERE company_id = ? AND id IN (?)`, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("existing %s: %w", table, err)
	}
	if err := sqlx.SelectContext(ctx, r.q, &out, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("existing %s: %w", table, err)
	}
	return out, nil
}

// QuantRepo ledger de quants (db o tx).
type QuantRepo struct{ q sqlx.ExtContext }

// NewQuantRepository construye el adaptador.
func NewQuantRepository(q sqlx.ExtContext) *QuantRepo { return &QuantRepo{q: q} }

// SumByProduct trae en una sola consulta las filas del subárbol interno de locationRootID
// (prefijo exacto sobre parent_path) y las suma por variante con precisión decimal.
func (r *QuantRepo) SumByProduct(ctx context.Context, productIDs []string, locationRootID string) (map[string]stock.QuantSum, error) {
	out := make(map[string]stock.QuantSum)
	if len(productIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`
		SELECT q.product_id, q.quantity, q.reserved_quantity
		FROM stock_quants q
		JOIN stock_locations l ON l.id = q.location_id
		JOIN stock_locations root ON root.id = ?
		WHERE q.product_id IN (?)
		  AND l.usage = 'internal'
		  AND substr(l.parent_path, 1, length(root.parent_path)) = root.parent_path`,
		locationRootID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("sum quants: %w", err)
	}
	var lines []quantLine
	if err := sqlx.SelectContext(ctx, r.q, &lines, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("sum quants: %w", err)
	}
	for _, line := range lines {
		sum := out[line.ProductID]
		sum.OnHand = sum.OnHand.Add(line.Quantity)
		sum.Reserved = sum.Reserved.Add(line.ReservedQuantity)
		out[line.ProductID] = sum
	}
	return out, nil
}

func (r *QuantRepo) Upsert(ctx context.Context, quant *entity.Quant) error {
	row := r.q.QueryRowxContext(ctx, `
		INSERT INTO stock_quants (id, product_id, location_id, lot_id, quantity, reserved_quantity, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (product_id, location_id, lot_id)
		DO UPDATE SET quantity = excluded.quantity,
		              reserved_quantity = excluded.reserved_quantity,
		              updated_at = excluded.updated_at
		RETURNING id`,
		quant.ID, quant.ProductID, quant.LocationID, quant.LotID,
		quant.Quantity, quant.ReservedQuantity, quant.UpdatedAt)
	if err := row.Scan(&quant.ID); err != nil {
		return mapWriteError("upsert quant", err)
	}
	return nil
}

// OrderpointRepo reglas de reorden (db o tx).
type OrderpointRepo struct{ q sqlx.ExtContext }

// NewOrderpointRepository construye el adaptador.
func NewOrderpointRepository(q sqlx.ExtContext) *OrderpointRepo { return &OrderpointRepo{q: q} }

func (r *OrderpointRepo) FindByProducts(ctx context.Context, productIDs []string) ([]entity.Orderpoint, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM stock_orderpoints WHERE product_id IN (?)`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("find orderpoints: %w", err)
	}
	var rows []orderpointRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find orderpoints: %w", err)
	}
	list := make([]entity.Orderpoint, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

func (r *OrderpointRepo) Upsert(ctx context.Context, op *entity.Orderpoint) error {
	row := r.q.QueryRowxContext(ctx, `
		INSERT INTO stock_orderpoints (id, product_id, warehouse_id, min_qty, max_qty, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET min_qty = excluded.min_qty,
		              max_qty = excluded.max_qty,
		              updated_at = excluded.updated_at
		RETURNING id`,
		op.ID, op.ProductID, op.WarehouseID, op.MinQty, op.MaxQty, op.CreatedAt, op.UpdatedAt)
	if err := row.Scan(&op.ID); err != nil {
		return mapWriteError("upsert orderpoint", err)
	}
	return nil
}
