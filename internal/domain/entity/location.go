package entity

import (
	"strings"
	"time"
)

// Usos de ubicación. Solo las ubicaciones internas cuentan como existencias disponibles.
const (
	LocationUsageInternal  = "internal"
	LocationUsageView      = "view"
	LocationUsageTransit   = "transit"
	LocationUsageCustomer  = "customer"
	LocationUsageSupplier  = "supplier"
	LocationUsageInventory = "inventory"
)

// Location es un nodo de la jerarquía de ubicaciones.
// ParentPath es la ruta materializada "<raíz>/.../<id>/"; "hijo de" es un prefijo de esa ruta.
type Location struct {
	ID          string
	CompanyID   string
	WarehouseID string
	ParentID    string
	ParentPath  string
	Name        string
	Usage       string
	CreatedAt   time.Time
}

// IsDescendantOf indica si l pertenece al subárbol de root (incluye root).
func (l *Location) IsDescendantOf(root *Location) bool {
	if l == nil || root == nil || root.ParentPath == "" {
		return false
	}
	return strings.HasPrefix(l.ParentPath, root.ParentPath)
}

// ChildPath devuelve la ruta materializada de un hijo con el id dado.
func (l *Location) ChildPath(childID string) string {
	if l == nil {
		return childID + "/"
	}
	return l.ParentPath + childID + "/"
}
