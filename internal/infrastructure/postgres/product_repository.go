package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del catálogo familia/variante sobre PostgreSQL (pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const (
	familyColumns  = `id, company_id, name, description, created_at, updated_at`
	productColumns = `id, company_id, family_id, sku, name, attributes, created_at, updated_at`
)

// CreateFamily persiste una familia.
func (r *ProductRepo) CreateFamily(ctx context.Context, f *entity.ProductFamily) error {
	query := `INSERT INTO product_families (` + familyColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, f.ID, f.CompanyID, f.Name, f.Description, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return mapWriteError("insert family", err)
	}
	return nil
}

// GetFamilyByID obtiene una familia; nil si no existe.
func (r *ProductRepo) GetFamilyByID(ctx context.Context, id string) (*entity.ProductFamily, error) {
	query := `SELECT ` + familyColumns + ` FROM product_families WHERE id = $1`
	var f entity.ProductFamily
	err := r.q.QueryRow(ctx, query, id).Scan(&f.ID, &f.CompanyID, &f.Name, &f.Description, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get family: %w", err)
	}
	return &f, nil
}

// ListFamilies lista familias de la empresa por nombre con paginación.
func (r *ProductRepo) ListFamilies(ctx context.Context, companyID string, limit, offset int) ([]*entity.ProductFamily, error) {
	query := `SELECT ` + familyColumns + ` FROM product_families
		WHERE company_id = $1 ORDER BY name, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductFamily
	for rows.Next() {
		var f entity.ProductFamily
		if err := rows.Scan(&f.ID, &f.CompanyID, &f.Name, &f.Description, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

// Create persiste una variante.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.FamilyID, p.SKU, p.Name, attributesOrEmpty(p.Attributes), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert product", err)
	}
	return nil
}

// GetByID obtiene una variante; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByCompanyAndSKU obtiene una variante por SKU dentro de la empresa; nil si no existe.
func (r *ProductRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE company_id = $1 AND sku = $2`, companyID, sku)
}

// ListByCompany lista variantes de la empresa por SKU con paginación.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE company_id = $1 ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// VariantIDsByFamily resuelve la adyacencia familia -> variantes en una sola consulta.
func (r *ProductRepo) VariantIDsByFamily(ctx context.Context, companyID string, familyIDs []string) (map[string][]string, error) {
	out := make(map[string][]string)
	if len(familyIDs) == 0 {
		return out, nil
	}
	query := `SELECT family_id, id FROM products
		WHERE company_id = $1 AND family_id = ANY($2) ORDER BY family_id, sku`
	rows, err := r.q.Query(ctx, query, companyID, familyIDs)
	if err != nil {
		return nil, fmt.Errorf("variants by family: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var familyID, id string
		if err := rows.Scan(&familyID, &id); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		out[familyID] = append(out[familyID], id)
	}
	return out, rows.Err()
}

// ExistingVariantIDs devuelve los ids que son variantes de la empresa.
func (r *ProductRepo) ExistingVariantIDs(ctx context.Context, companyID string, ids []string) ([]string, error) {
	return r.existing(ctx, `SELECT id FROM products WHERE company_id = $1 AND id = ANY($2)`, companyID, ids)
}

// ExistingFamilyIDs devuelve los ids que son familias de la empresa.
func (r *ProductRepo) ExistingFamilyIDs(ctx context.Context, companyID string, ids []string) ([]string, error) {
	return r.existing(ctx, `SELECT id FROM product_families WHERE company_id = $1 AND id = ANY($2)`, companyID, ids)
}

func (r *ProductRepo) existing(ctx context.Context, query, companyID string, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, query, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("existing ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var attrs []byte
	if err := row.Scan(&p.ID, &p.CompanyID, &p.FamilyID, &p.SKU, &p.Name, &attrs, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Attributes = json.RawMessage(attrs)
	return &p, nil
}

func attributesOrEmpty(a json.RawMessage) []byte {
	if len(a) == 0 {
		return []byte("{}")
	}
	return a
}
