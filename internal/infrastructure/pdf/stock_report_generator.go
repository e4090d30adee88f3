// Package pdf genera el reporte de existencias por bodega (vista de lista de familias).
//
// Layout de la página A4 horizontal:
//
//	┌───────────────────────────────────────────────────────────────┐
//	│  Título                                   Fecha de generación │
//	│  ───────────────────────────────────────────────────────────  │
//	│  Bloque 1: Familia | Bodega A | Bodega B | Bodega C | Bodega D │
//	│            fila por familia: disponible (mín. si hay regla)   │
//	│  Bloque 2: Familia | Bodega E | ...                           │
//	└───────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-qty-api/internal/application/dto"
	appstock "github.com/jhoicas/warehouse-qty-api/internal/application/stock"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/stock"
)

// Columnas de bodega por bloque; la columna del nombre ocupa el resto de la grilla de 12.
const (
	warehousesPerBlock = 4
	nameColSize        = 4
	warehouseColSize   = 2
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ appstock.ReportGenerator = (*StockReportGenerator)(nil)

// StockReportGenerator implementa appstock.ReportGenerator usando Maroto v2.
type StockReportGenerator struct{}

// NewStockReportGenerator construye el generador.
func NewStockReportGenerator() *StockReportGenerator { return &StockReportGenerator{} }

// GenerateStockReport genera el PDF y devuelve sus bytes. Sin bodegas se emite solo el encabezado
// y la lista de nombres.
func (g *StockReportGenerator) GenerateStockReport(ctx context.Context, report appstock.Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	blocks := chunkColumns(report.Columns, warehousesPerBlock)
	if len(blocks) == 0 {
		blocks = [][]dto.WarehouseColumn{nil}
	}
	for i, block := range blocks {
		if i > 0 {
			m.AddRows(line.NewRow(4))
		}
		m.AddRows(tableHeaderRow(block))
		m.AddRows(tableRows(block, report.Rows)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(report appstock.Report) core.Row {
	return row.New(14).Add(
		col.New(8).Add(text.New(report.Title, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Top: 4, Color: colorGray,
		})),
	)
}

func tableHeaderRow(block []dto.WarehouseColumn) core.Row {
	cols := []core.Col{col.New(nameColSize).Add(text.New("Familia", props.Text{
		Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 1,
	}))}
	for _, c := range block {
		cols = append(cols, col.New(warehouseColSize).Add(text.New(c.Name, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

// tableRows: una fila por familia; en rojo las bodegas por debajo de su mínimo.
func tableRows(block []dto.WarehouseColumn, rows []appstock.ReportRow) []core.Row {
	out := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		cols := []core.Col{col.New(nameColSize).Add(text.New(r.Name, props.Text{Size: 8, Top: 1, Left: 1}))}
		for _, c := range block {
			cols = append(cols, col.New(warehouseColSize).Add(
				text.New(cellText(r.QtyMap[c.ID]), cellProps(r.QtyMap[c.ID])),
			))
		}
		out = append(out, row.New(7).Add(cols...))
	}
	return out
}

func cellText(e *stock.Entry) string {
	if e == nil {
		return "—"
	}
	s := formatQty(e.Qty)
	if e.HasMinQty() {
		s += " (mín. " + formatQty(*e.MinQty) + ")"
	}
	return s
}

func cellProps(e *stock.Entry) props.Text {
	p := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
	if e.HasMinQty() && e.Qty.LessThan(*e.MinQty) {
		p.Color = colorAlert
		p.Style = fontstyle.Bold
	}
	return p
}

// chunkColumns parte las columnas en bloques de a n para que quepan en la página.
func chunkColumns(cols []dto.WarehouseColumn, n int) [][]dto.WarehouseColumn {
	var blocks [][]dto.WarehouseColumn
	for len(cols) > n {
		blocks = append(blocks, cols[:n])
		cols = cols[n:]
	}
	if len(cols) > 0 {
		blocks = append(blocks, cols)
	}
	return blocks
}

// formatQty inserta puntos de miles en la parte entera y conserva los decimales significativos.
// Ej: 25000 → "25.000", -1234.5 → "-1.234,5"
func formatQty(d decimal.Decimal) string {
	s := d.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if hasFrac {
		return sign + string(buf) + "," + frac
	}
	return sign + string(buf)
}
