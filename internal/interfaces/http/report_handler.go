package http

import (
	"github.com/gofiber/fiber/v2"

	appstock "github.com/jhoicas/warehouse-qty-api/internal/application/stock"
)

// ReportHandler sirve el reporte PDF de existencias (protegido).
type ReportHandler struct {
	uc *appstock.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appstock.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// FamilyReport godoc
// @Summary      Reporte PDF de familias con existencias por bodega
// @Tags         families
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/families/report.pdf [get]
func (h *ReportHandler) FamilyReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	pdf, err := h.uc.FamilyReport(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="existencias-por-bodega.pdf"`)
	return c.Send(pdf)
}
