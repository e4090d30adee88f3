package entity

import (
	"encoding/json"
	"time"
)

// ProductFamily agrupa variantes que comparten atributos descriptivos (plantilla).
// Una familia puede tener cero o más variantes.
type ProductFamily struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product representa una variante: la unidad vendible atómica. Pertenece a exactamente una familia.
// El inventario (quants) y las reglas de reorden se registran siempre contra variantes.
type Product struct {
	ID         string
	CompanyID  string
	FamilyID   string
	SKU        string // código único por empresa
	Name       string
	Attributes json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
