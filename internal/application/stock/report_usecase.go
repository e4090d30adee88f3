package stock

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-qty-api/internal/application/dto"
	"github.com/jhoicas/warehouse-qty-api/internal/domain/stock"
)

// ReportRow una fila del reporte: familia y su mapa por bodega.
type ReportRow struct {
	Name   string
	QtyMap stock.QtyMap
}

// Report contenido del reporte de existencias por bodega.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Columns     []dto.WarehouseColumn
	Rows        []ReportRow
}

// ReportGenerator genera el documento del reporte (PDF). Lo implementa infrastructure/pdf.
type ReportGenerator interface {
	GenerateStockReport(ctx context.Context, report Report) ([]byte, error)
}

// ReportUseCase genera la vista de lista de familias como documento.
type ReportUseCase struct {
	list      *ListViewUseCase
	generator ReportGenerator
	maxItems  int
}

// NewReportUseCase construye el caso de uso; maxItems acota las familias incluidas.
func NewReportUseCase(list *ListViewUseCase, generator ReportGenerator, maxItems int) *ReportUseCase {
	if maxItems <= 0 {
		maxItems = 100
	}
	return &ReportUseCase{list: list, generator: generator, maxItems: maxItems}
}

// FamilyReport calcula la vista de familias y la entrega al generador.
func (uc *ReportUseCase) FamilyReport(ctx context.Context, companyID string) ([]byte, error) {
	report := Report{
		Title:       "Existencias por bodega",
		GeneratedAt: time.Now(),
	}
	for offset := 0; offset < uc.maxItems; {
		limit := min(100, uc.maxItems-offset)
		page, err := uc.list.Families(ctx, companyID, dto.PageRequest{Limit: limit, Offset: offset})
		if err != nil {
			return nil, err
		}
		if report.Columns == nil {
			report.Columns = page.Columns
		}
		for _, item := range page.Items {
			report.Rows = append(report.Rows, ReportRow{Name: item.Name, QtyMap: item.WarehouseQtyMap})
		}
		if len(page.Items) < limit {
			break
		}
		offset += limit
	}
	return uc.generator.GenerateStockReport(ctx, report)
}
