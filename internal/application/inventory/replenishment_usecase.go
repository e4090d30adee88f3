package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-qty-api/internal/application/dto"
	appstock "github.com/jhoicas/warehouse-qty-api/internal/application/stock"
)

// ReplenishmentUseCase lista las variantes por debajo de su mínimo de reorden en cada bodega.
// Consume la misma vista de lista (warehouse_qty_map) que la UI; no tiene consultas propias.
type ReplenishmentUseCase struct {
	list *appstock.ListViewUseCase
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(list *appstock.ListViewUseCase) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{list: list}
}

var idealFactor = decimal.NewFromFloat(1.5)

// replenishmentPage es el tamaño de página con que se recorre el catálogo.
const replenishmentPage = 100

// GenerateReplenishmentList recorre todas las variantes de la empresa y devuelve las parejas
// (variante, bodega) con min_qty definido y disponible menor al mínimo. Sin regla no hay sugerencia.
// Orden: mayor déficit primero sobre la lista completa; prioridad 1 = más urgente.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, companyID string) ([]dto.ReplenishmentSuggestion, error) {
	suggestions := make([]dto.ReplenishmentSuggestion, 0)
	for offset := 0; ; offset += replenishmentPage {
		view, err := uc.list.Products(ctx, companyID, dto.PageRequest{Limit: replenishmentPage, Offset: offset})
		if err != nil {
			return nil, err
		}
		suggestions = appendBelowMin(suggestions, view)
		if len(view.Items) < replenishmentPage {
			break
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		defA := suggestions[i].MinQty.Sub(suggestions[i].CurrentQty)
		defB := suggestions[j].MinQty.Sub(suggestions[j].CurrentQty)
		return defA.GreaterThan(defB)
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func appendBelowMin(out []dto.ReplenishmentSuggestion, view *dto.ProductListResponse) []dto.ReplenishmentSuggestion {
	for _, item := range view.Items {
		for _, col := range view.Columns {
			entry, ok := item.WarehouseQtyMap[col.ID]
			if !ok || !entry.HasMinQty() {
				continue
			}
			minQty := *entry.MinQty
			if !entry.Qty.LessThan(minQty) {
				continue
			}
			ideal := minQty.Mul(idealFactor)
			suggested := ideal.Sub(entry.Qty)
			if suggested.LessThan(decimal.Zero) {
				suggested = decimal.Zero
			}
			out = append(out, dto.ReplenishmentSuggestion{
				ProductID:         item.ID,
				SKU:               item.SKU,
				ProductName:       item.Name,
				WarehouseID:       col.ID,
				WarehouseName:     entry.Name,
				CurrentQty:        entry.Qty,
				MinQty:            minQty,
				IdealQty:          ideal,
				SuggestedOrderQty: suggested,
			})
		}
	}
	return out
}
