package stock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-qty-api/internal/domain/entity"
)

type thresholdKey struct {
	owner     string
	warehouse string
}

// Thresholds guarda el mínimo de reorden por (producto dueño, bodega).
type Thresholds map[thresholdKey]decimal.Decimal

// OwnerFunc resuelve a qué producto de salida pertenece la variante de una regla.
type OwnerFunc func(variantID string) (string, bool)

// VariantOwner: cada variante del conjunto es su propio dueño.
func VariantOwner(variantIDs []string) OwnerFunc {
	set := make(map[string]struct{}, len(variantIDs))
	for _, id := range variantIDs {
		set[id] = struct{}{}
	}
	return func(variantID string) (string, bool) {
		_, ok := set[variantID]
		return variantID, ok
	}
}

// CollectThresholds agrupa las reglas por dueño y bodega quedándose con el mínimo.
// Las reglas de variantes fuera del lote se ignoran.
func CollectThresholds(rules []entity.Orderpoint, ownerOf OwnerFunc) Thresholds {
	t := make(Thresholds, len(rules))
	for _, r := range rules {
		owner, ok := ownerOf(r.ProductID)
		if !ok {
			continue
		}
		key := thresholdKey{owner: owner, warehouse: r.WarehouseID}
		if current, seen := t[key]; seen && !r.MinQty.LessThan(current) {
			continue
		}
		t[key] = r.MinQty
	}
	return t
}

// Lookup devuelve el mínimo de (owner, warehouse) si existe.
func (t Thresholds) Lookup(owner, warehouseID string) (decimal.Decimal, bool) {
	v, ok := t[thresholdKey{owner: owner, warehouse: warehouseID}]
	return v, ok
}

// MergeThresholds agrega min_qty a las entradas existentes. No crea entradas ni toca name/qty;
// reglas de bodegas que ya no se enumeran no tienen entrada y se descartan.
func (s Snapshot) MergeThresholds(t Thresholds) {
	if len(t) == 0 {
		return
	}
	for owner, qtyMap := range s {
		for whID, entry := range qtyMap {
			if minQty, ok := t.Lookup(owner, whID); ok {
				m := minQty
				entry.MinQty = &m
			}
		}
	}
}
