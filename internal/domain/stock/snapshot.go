package stock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
)

// Snapshot agrupa los mapas de un lote de productos: id de producto -> QtyMap.
type Snapshot map[string]QtyMap

// NewSnapshot crea un mapa vacío por cada id. Con cero bodegas este es el resultado final.
func NewSnapshot(ids []string) Snapshot {
	s := make(Snapshot, len(ids))
	for _, id := range ids {
		s[id] = QtyMap{}
	}
	return s
}

// Fill registra la bodega wh para todos los productos del snapshot.
// Los productos ausentes de available reciben qty 0: la salida es densa sobre las bodegas.
// Cada producto recibe su propia Entry; no se comparten punteros entre productos.
func (s Snapshot) Fill(wh *entity.Warehouse, available map[string]decimal.Decimal) {
	for id, qtyMap := range s {
		qty, ok := available[id]
		if !ok {
			qty = decimal.Zero
		}
		qtyMap[wh.ID] = &Entry{Name: wh.Name, Qty: qty}
	}
}

// AvailableByProduct convierte las sumas del ledger en disponible por variante.
func AvailableByProduct(sums map[string]QuantSum) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(sums))
	for id, s := range sums {
		out[id] = s.Available()
	}
	return out
}

// UniqueIDs conserva el orden de la primera aparición, descarta vacíos y duplicados.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
