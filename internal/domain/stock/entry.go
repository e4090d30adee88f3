// Package stock contiene las primitivas puras del cálculo de existencias por bodega:
// entradas de cantidad, mapas densos, consolidación de variantes en familias y la fusión
// de mínimos de reorden. No hace I/O; los casos de uso le entregan lo que leen del ledger.
package stock

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Entry es la unidad de salida por bodega: {name, qty, min_qty?}.
// MinQty nil significa "sin regla configurada" y se omite al serializar.
type Entry struct {
	Name   string
	Qty    decimal.Decimal
	MinQty *decimal.Decimal
}

// HasMinQty indica si la bodega tiene una regla de reorden para el producto.
func (e *Entry) HasMinQty() bool { return e != nil && e.MinQty != nil }

type entryJSON struct {
	Name   string       `json:"name"`
	Qty    json.Number  `json:"qty"`
	MinQty *json.Number `json:"min_qty,omitempty"`
}

// MarshalJSON emite qty y min_qty como números JSON (no como cadenas).
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{Name: e.Name, Qty: json.Number(e.Qty.String())}
	if e.MinQty != nil {
		n := json.Number(e.MinQty.String())
		out.MinQty = &n
	}
	return json.Marshal(out)
}

// UnmarshalJSON acepta la misma forma que produce MarshalJSON.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var in entryJSON
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		return err
	}
	qty, err := decimal.NewFromString(string(in.Qty))
	if err != nil {
		return fmt.Errorf("qty: %w", err)
	}
	e.Name = in.Name
	e.Qty = qty
	e.MinQty = nil
	if in.MinQty != nil {
		m, err := decimal.NewFromString(string(*in.MinQty))
		if err != nil {
			return fmt.Errorf("min_qty: %w", err)
		}
		e.MinQty = &m
	}
	return nil
}

// QtyMap es el atributo calculado de un producto: id de bodega (string) -> entrada.
type QtyMap map[string]*Entry

// QuantSum son las sumas agrupadas del ledger para una variante dentro de una bodega.
// Se suman por separado y se restan aquí, nunca en la consulta.
type QuantSum struct {
	OnHand   decimal.Decimal
	Reserved decimal.Decimal
}

// Available = disponible - reservado.
func (s QuantSum) Available() decimal.Decimal {
	return s.OnHand.Sub(s.Reserved)
}
