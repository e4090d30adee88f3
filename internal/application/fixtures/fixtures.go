// Package fixtures carga un archivo YAML de datos iniciales (bodegas, ubicaciones,
// catálogo, quants y reglas de reorden) y lo aplica a través de los casos de uso.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/warehouse-qty-api/internal/application/dto"
	"github.com/jhoicas/warehouse-qty-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-qty-api/internal/application/usecase"
)

// File raíz del YAML.
type File struct {
	CompanyID   string       `yaml:"company_id"`
	Warehouses  []Warehouse  `yaml:"warehouses"`
	Families    []Family     `yaml:"families"`
	Quants      []Quant      `yaml:"quants"`
	Orderpoints []Orderpoint `yaml:"orderpoints"`
}

type Warehouse struct {
	Code      string     `yaml:"code"`
	Name      string     `yaml:"name"`
	Locations []Location `yaml:"locations"`
}

// Location sub-ubicación; Parent es el nombre de otra ubicación de la misma bodega
// declarada antes. Vacío cuelga de la ubicación de stock.
type Location struct {
	Name   string `yaml:"name"`
	Usage  string `yaml:"usage"`
	Parent string `yaml:"parent"`
}

type Family struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Variants    []Variant `yaml:"variants"`
}

type Variant struct {
	SKU        string                 `yaml:"sku"`
	Name       string                 `yaml:"name"`
	Attributes map[string]interface{} `yaml:"attributes"`
}

// Quant cantidades como texto para no perder precisión decimal.
type Quant struct {
	SKU       string `yaml:"sku"`
	Warehouse string `yaml:"warehouse"`
	Location  string `yaml:"location"`
	Lot       string `yaml:"lot"`
	Quantity  string `yaml:"quantity"`
	Reserved  string `yaml:"reserved"`
}

type Orderpoint struct {
	SKU       string `yaml:"sku"`
	Warehouse string `yaml:"warehouse"`
	MinQty    string `yaml:"min_qty"`
	MaxQty    string `yaml:"max_qty"`
}

// Parse decodifica el YAML. charset "latin1" (o ISO-8859-1) transcodifica a UTF-8 antes de decodificar.
func Parse(r io.Reader, charset string) (*File, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf8", "utf-8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado: %q", charset)
	}
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decodificar fixtures: %w", err)
	}
	if f.CompanyID == "" {
		return nil, fmt.Errorf("fixtures: company_id requerido")
	}
	return &f, nil
}

// Seeder aplica un File usando los mismos casos de uso que la API, con sus validaciones.
type Seeder struct {
	warehouses *usecase.WarehouseUseCase
	products   *usecase.ProductUseCase
	ledger     *inventory.LedgerUseCase
	log        zerolog.Logger
}

func NewSeeder(w *usecase.WarehouseUseCase, p *usecase.ProductUseCase, l *inventory.LedgerUseCase, log zerolog.Logger) *Seeder {
	return &Seeder{warehouses: w, products: p, ledger: l, log: log}
}

// Summary conteo de registros aplicados.
type Summary struct {
	Warehouses  int
	Locations   int
	Families    int
	Variants    int
	Quants      int
	Orderpoints int
}

type seededWarehouse struct {
	id        string
	locations map[string]string // nombre -> id
	stockID   string
}

// Apply crea todo en orden de dependencias. Se detiene en el primer error.
func (s *Seeder) Apply(ctx context.Context, f *File) (*Summary, error) {
	sum := &Summary{}
	warehouses := make(map[string]*seededWarehouse, len(f.Warehouses))

	for _, w := range f.Warehouses {
		created, err := s.warehouses.Create(ctx, f.CompanyID, dto.CreateWarehouseRequest{Code: w.Code, Name: w.Name})
		if err != nil {
			return sum, fmt.Errorf("bodega %s: %w", w.Code, err)
		}
		sum.Warehouses++
		sw := &seededWarehouse{id: created.ID, stockID: created.StockLocationID, locations: map[string]string{}}
		warehouses[created.Code] = sw

		for _, l := range w.Locations {
			parentID := sw.stockID
			if l.Parent != "" {
				id, ok := sw.locations[l.Parent]
				if !ok {
					return sum, fmt.Errorf("ubicación %s/%s: padre %q no declarado", w.Code, l.Name, l.Parent)
				}
				parentID = id
			}
			usage := l.Usage
			if usage == "" {
				usage = "internal"
			}
			loc, err := s.warehouses.CreateLocation(ctx, f.CompanyID, dto.CreateLocationRequest{ParentID: parentID, Name: l.Name, Usage: usage})
			if err != nil {
				return sum, fmt.Errorf("ubicación %s/%s: %w", w.Code, l.Name, err)
			}
			sw.locations[l.Name] = loc.ID
			sum.Locations++
		}
		s.log.Debug().Str("code", created.Code).Int("locations", len(w.Locations)).Msg("bodega sembrada")
	}

	skus := make(map[string]string)
	for _, fam := range f.Families {
		req := dto.CreateFamilyRequest{Name: fam.Name, Description: fam.Description}
		for _, v := range fam.Variants {
			var attrs json.RawMessage
			if len(v.Attributes) > 0 {
				b, err := json.Marshal(v.Attributes)
				if err != nil {
					return sum, fmt.Errorf("atributos %s: %w", v.SKU, err)
				}
				attrs = b
			}
			req.Variants = append(req.Variants, dto.CreateVariantRequest{SKU: v.SKU, Name: v.Name, Attributes: attrs})
		}
		created, err := s.products.CreateFamily(ctx, f.CompanyID, req)
		if err != nil {
			return sum, fmt.Errorf("familia %s: %w", fam.Name, err)
		}
		sum.Families++
		for _, v := range created.Variants {
			skus[v.SKU] = v.ID
			sum.Variants++
		}
	}

	for i, q := range f.Quants {
		productID, sw, err := resolve(skus, warehouses, q.SKU, q.Warehouse)
		if err != nil {
			return sum, fmt.Errorf("quant #%d: %w", i+1, err)
		}
		locationID := sw.stockID
		if q.Location != "" {
			id, ok := sw.locations[q.Location]
			if !ok {
				return sum, fmt.Errorf("quant #%d: ubicación %q desconocida", i+1, q.Location)
			}
			locationID = id
		}
		qty, err := parseDecimal(q.Quantity)
		if err != nil {
			return sum, fmt.Errorf("quant #%d quantity: %w", i+1, err)
		}
		reserved, err := parseDecimal(q.Reserved)
		if err != nil {
			return sum, fmt.Errorf("quant #%d reserved: %w", i+1, err)
		}
		if _, err := s.ledger.UpsertQuant(ctx, f.CompanyID, dto.UpsertQuantRequest{
			ProductID: productID, LocationID: locationID, LotID: q.Lot,
			Quantity: qty, ReservedQuantity: reserved,
		}); err != nil {
			return sum, fmt.Errorf("quant #%d: %w", i+1, err)
		}
		sum.Quants++
	}

	for i, op := range f.Orderpoints {
		productID, sw, err := resolve(skus, warehouses, op.SKU, op.Warehouse)
		if err != nil {
			return sum, fmt.Errorf("regla #%d: %w", i+1, err)
		}
		minQty, err := parseDecimal(op.MinQty)
		if err != nil {
			return sum, fmt.Errorf("regla #%d min_qty: %w", i+1, err)
		}
		maxQty, err := parseDecimal(op.MaxQty)
		if err != nil {
			return sum, fmt.Errorf("regla #%d max_qty: %w", i+1, err)
		}
		if _, err := s.ledger.UpsertOrderpoint(ctx, f.CompanyID, dto.UpsertOrderpointRequest{
			ProductID: productID, WarehouseID: sw.id, MinQty: minQty, MaxQty: maxQty,
		}); err != nil {
			return sum, fmt.Errorf("regla #%d: %w", i+1, err)
		}
		sum.Orderpoints++
	}
	return sum, nil
}

func resolve(skus map[string]string, warehouses map[string]*seededWarehouse, sku, code string) (string, *seededWarehouse, error) {
	productID, ok := skus[strings.ToUpper(strings.TrimSpace(sku))]
	if !ok {
		return "", nil, fmt.Errorf("sku %q desconocido", sku)
	}
	sw, ok := warehouses[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return "", nil, fmt.Errorf("bodega %q desconocida", code)
	}
	return productID, sw, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}
