package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo persiste la jerarquía de ubicaciones (ruta materializada en parent_path).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, company_id, warehouse_id, parent_id, parent_path, name, usage, created_at`

// Create persiste una ubicación. ParentID vacío se guarda como NULL (raíz).
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO stock_locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.CompanyID, l.WarehouseID, nullIfEmpty(l.ParentID), l.ParentPath, l.Name, l.Usage, l.CreatedAt,
	)
	if err != nil {
		return mapWriteError("insert location", err)
	}
	return nil
}

// GetByID obtiene una ubicación; nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM stock_locations WHERE id = $1`
	l, err := scanLocation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// ListByWarehouse lista la jerarquía de una bodega ordenada por ruta (padres antes que hijos).
func (r *LocationRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM stock_locations WHERE warehouse_id = $1 ORDER BY parent_path`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	var parentID *string
	if err := row.Scan(&l.ID, &l.CompanyID, &l.WarehouseID, &parentID, &l.ParentPath, &l.Name, &l.Usage, &l.CreatedAt); err != nil {
		return nil, err
	}
	if parentID != nil {
		l.ParentID = *parentID
	}
	return &l, nil
}
