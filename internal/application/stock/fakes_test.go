package stock_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/repository"
	domstock "github.com/jhoicas/warehouse-qty-api/internal/domain/stock"
)

// memLedger es un ledger en memoria con la misma semántica de filtro que los adaptadores SQL.
type memLedger struct {
	mu        sync.Mutex
	locations map[string]*entity.Location
	quants    []entity.Quant
	rules     []entity.Orderpoint
	calls     int
	ruleCalls int
	failOn    string
	err       error
}

func newMemLedger() *memLedger {
	return &memLedger{locations: map[string]*entity.Location{}}
}

func (m *memLedger) addLocation(id, parentID, usage string) {
	path := id + "/"
	if parent, ok := m.locations[parentID]; ok {
		path = parent.ChildPath(id)
	}
	m.locations[id] = &entity.Location{ID: id, ParentID: parentID, ParentPath: path, Usage: usage}
}

func (m *memLedger) addQuant(productID, locationID, qty, reserved string) {
	m.quants = append(m.quants, entity.Quant{
		ProductID:        productID,
		LocationID:       locationID,
		Quantity:         decimal.RequireFromString(qty),
		ReservedQuantity: decimal.RequireFromString(reserved),
	})
}

func (m *memLedger) addRule(productID, warehouseID, minQty string) {
	m.rules = append(m.rules, entity.Orderpoint{
		ProductID:   productID,
		WarehouseID: warehouseID,
		MinQty:      decimal.RequireFromString(minQty),
	})
}

func (m *memLedger) SumByProduct(_ context.Context, productIDs []string, rootID string) (map[string]domstock.QuantSum, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil && (m.failOn == "" || m.failOn == rootID) {
		return nil, m.err
	}
	wanted := map[string]bool{}
	for _, id := range productIDs {
		wanted[id] = true
	}
	root := m.locations[rootID]
	out := map[string]domstock.QuantSum{}
	for _, q := range m.quants {
		loc := m.locations[q.LocationID]
		if !wanted[q.ProductID] || loc == nil || loc.Usage != entity.LocationUsageInternal || !loc.IsDescendantOf(root) {
			continue
		}
		s := out[q.ProductID]
		s.OnHand = s.OnHand.Add(q.Quantity)
		s.Reserved = s.Reserved.Add(q.ReservedQuantity)
		out[q.ProductID] = s
	}
	return out, nil
}

func (m *memLedger) Upsert(_ context.Context, q *entity.Quant) error {
	m.quants = append(m.quants, *q)
	return nil
}

func (m *memLedger) FindByProducts(_ context.Context, productIDs []string) ([]entity.Orderpoint, error) {
	m.ruleCalls++
	wanted := map[string]bool{}
	for _, id := range productIDs {
		wanted[id] = true
	}
	var out []entity.Orderpoint
	for _, r := range m.rules {
		if wanted[r.ProductID] {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeOrderpoints struct{ *memLedger }

func (f fakeOrderpoints) Upsert(_ context.Context, op *entity.Orderpoint) error {
	f.rules = append(f.rules, *op)
	return nil
}

// fakeWarehouses registro de bodegas mutable entre cálculos.
type fakeWarehouses struct {
	list  []*entity.Warehouse
	calls int
	err   error
	// afterList simula una bodega creada justo después de una lectura.
	afterList func(f *fakeWarehouses)
}

func (f *fakeWarehouses) Create(_ context.Context, w *entity.Warehouse) error {
	f.list = append(f.list, w)
	return nil
}

func (f *fakeWarehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	for _, w := range f.list {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (f *fakeWarehouses) ListAll(_ context.Context, _ string) ([]*entity.Warehouse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := append([]*entity.Warehouse(nil), f.list...)
	if f.afterList != nil {
		f.afterList(f)
	}
	return out, nil
}

func (f *fakeWarehouses) Delete(_ context.Context, id string) error {
	for i, w := range f.list {
		if w.ID == id {
			f.list = append(f.list[:i], f.list[i+1:]...)
			break
		}
	}
	return nil
}

// fakeProducts catálogo en memoria.
type fakeProducts struct {
	families []*entity.ProductFamily
	products []*entity.Product
	calls    int
}

func (f *fakeProducts) CreateFamily(_ context.Context, fam *entity.ProductFamily) error {
	f.families = append(f.families, fam)
	return nil
}

func (f *fakeProducts) GetFamilyByID(_ context.Context, id string) (*entity.ProductFamily, error) {
	for _, fam := range f.families {
		if fam.ID == id {
			return fam, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) ListFamilies(_ context.Context, _ string, limit, offset int) ([]*entity.ProductFamily, error) {
	return page(f.families, limit, offset), nil
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.products = append(f.products, p)
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) GetByCompanyAndSKU(_ context.Context, _, sku string) (*entity.Product, error) {
	for _, p := range f.products {
		if strings.EqualFold(p.SKU, sku) {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) ListByCompany(_ context.Context, _ string, limit, offset int) ([]*entity.Product, error) {
	return page(f.products, limit, offset), nil
}

func (f *fakeProducts) VariantIDsByFamily(_ context.Context, _ string, familyIDs []string) (map[string][]string, error) {
	f.calls++
	wanted := map[string]bool{}
	for _, id := range familyIDs {
		wanted[id] = true
	}
	out := map[string][]string{}
	for _, p := range f.products {
		if wanted[p.FamilyID] {
			out[p.FamilyID] = append(out[p.FamilyID], p.ID)
		}
	}
	return out, nil
}

func (f *fakeProducts) ExistingVariantIDs(_ context.Context, _ string, ids []string) ([]string, error) {
	known := map[string]bool{}
	for _, p := range f.products {
		known[p.ID] = true
	}
	return keep(ids, known), nil
}

func (f *fakeProducts) ExistingFamilyIDs(_ context.Context, _ string, ids []string) ([]string, error) {
	known := map[string]bool{}
	for _, fam := range f.families {
		known[fam.ID] = true
	}
	return keep(ids, known), nil
}

func keep(ids []string, known map[string]bool) []string {
	out := []string{}
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
		}
	}
	return out
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

// countingRecorder cuenta las consultas al ledger por alcance.
type countingRecorder struct {
	queries      map[string]int
	computations int
	failures     int
	warehouses   int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{queries: map[string]int{}}
}

func (r *countingRecorder) LedgerQuery(scope string) { r.queries[scope]++ }

func (r *countingRecorder) Computation(_ string, err error, _ time.Duration) {
	r.computations++
	if err != nil {
		r.failures++
	}
}

func (r *countingRecorder) Warehouses(n int) { r.warehouses = n }

var (
	_ repository.QuantRepository      = (*memLedger)(nil)
	_ repository.OrderpointRepository = fakeOrderpoints{}
	_ repository.WarehouseRepository  = (*fakeWarehouses)(nil)
	_ repository.ProductRepository    = (*fakeProducts)(nil)
)
