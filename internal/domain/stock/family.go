package stock

import "github.com/shopspring/decimal"

// FamilyIndex es la adyacencia familia -> variantes de un lote, construida una vez por cálculo.
type FamilyIndex struct {
	families []string
	variants map[string][]string
	familyOf map[string]string
	all      []string
}

// NewFamilyIndex construye el índice para familyIDs a partir de la adyacencia leída del catálogo.
// Las familias sin entrada en adjacency quedan con cero variantes.
func NewFamilyIndex(familyIDs []string, adjacency map[string][]string) *FamilyIndex {
	ix := &FamilyIndex{
		families: UniqueIDs(familyIDs),
		variants: make(map[string][]string, len(familyIDs)),
		familyOf: make(map[string]string),
	}
	for _, fid := range ix.families {
		vids := UniqueIDs(adjacency[fid])
		ix.variants[fid] = vids
		for _, vid := range vids {
			if _, taken := ix.familyOf[vid]; taken {
				continue
			}
			ix.familyOf[vid] = fid
			ix.all = append(ix.all, vid)
		}
	}
	return ix
}

// VariantIDs es la unión de variantes de todas las familias del lote.
func (ix *FamilyIndex) VariantIDs() []string { return ix.all }

// FamilyOf resuelve la familia dueña de una variante del lote.
func (ix *FamilyIndex) FamilyOf(variantID string) (string, bool) {
	fid, ok := ix.familyOf[variantID]
	return fid, ok
}

// RollUp suma el disponible de las variantes de cada familia. Variantes sin registros aportan 0.
func (ix *FamilyIndex) RollUp(available map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(ix.families))
	for _, fid := range ix.families {
		total := decimal.Zero
		for _, vid := range ix.variants[fid] {
			if qty, ok := available[vid]; ok {
				total = total.Add(qty)
			}
		}
		out[fid] = total
	}
	return out
}
