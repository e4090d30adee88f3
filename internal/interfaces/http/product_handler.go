package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-qty-api/internal/application/dto"
	appstock "github.com/jhoicas/warehouse-qty-api/internal/application/stock"
	"github.com/jhoicas/warehouse-qty-api/internal/application/usecase"
)

// maxQtyMapIDs acota los ids aceptados por /qty-map en una petición.
const maxQtyMapIDs = 500

// ProductHandler maneja familias, variantes y sus vistas con warehouse_qty_map (protegido).
type ProductHandler struct {
	uc   *usecase.ProductUseCase
	list *appstock.ListViewUseCase
	qty  *appstock.QtyMapUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, list *appstock.ListViewUseCase, qty *appstock.QtyMapUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, list: list, qty: qty}
}

// CreateFamily godoc
// @Summary      Crear familia con sus variantes iniciales
// @Tags         families
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFamilyRequest  true  "Familia y variantes"
// @Success      201   {object}  dto.FamilyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/families [post]
func (h *ProductHandler) CreateFamily(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateFamilyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateFamily(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddVariant godoc
// @Summary      Agregar variante a una familia
// @Tags         families
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la familia"
// @Param        body  body  dto.CreateVariantRequest  true  "Variante"
// @Success      201   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/families/{id}/variants [post]
func (h *ProductHandler) AddVariant(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AddVariant(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener variante por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la variante"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(out)
}

// ListProducts godoc
// @Summary      Vista de lista de variantes con warehouse_qty_map
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.list.Products(c.UserContext(), companyID, pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListFamilies godoc
// @Summary      Vista de lista de familias con warehouse_qty_map consolidado
// @Tags         families
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.FamilyListResponse
// @Router       /api/families [get]
func (h *ProductHandler) ListFamilies(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.list.Families(c.UserContext(), companyID, pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductQtyMap godoc
// @Summary      warehouse_qty_map de un lote de variantes
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        ids  query  string  true  "IDs separados por coma"
// @Success      200  {object}  dto.QtyMapResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse  "ids desconocidos o de otra empresa"
// @Router       /api/products/qty-map [get]
func (h *ProductHandler) ProductQtyMap(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	ids, ok := idsFromQuery(c)
	if !ok {
		return tooManyIDs(c)
	}
	unknown, err := h.uc.UnknownVariants(c.UserContext(), companyID, ids)
	if err != nil {
		return writeError(c, err)
	}
	if len(unknown) > 0 {
		return unknownIDs(c, unknown)
	}
	snapshot, err := h.qty.VariantQtyMaps(c.UserContext(), companyID, ids)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.QtyMapResponse{Scope: appstock.ScopeVariant, Items: snapshot})
}

// FamilyQtyMap godoc
// @Summary      warehouse_qty_map consolidado de un lote de familias
// @Tags         families
// @Security     Bearer
// @Produce      json
// @Param        ids  query  string  true  "IDs separados por coma"
// @Success      200  {object}  dto.QtyMapResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse  "ids desconocidos o de otra empresa"
// @Router       /api/families/qty-map [get]
func (h *ProductHandler) FamilyQtyMap(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	ids, ok := idsFromQuery(c)
	if !ok {
		return tooManyIDs(c)
	}
	unknown, err := h.uc.UnknownFamilies(c.UserContext(), companyID, ids)
	if err != nil {
		return writeError(c, err)
	}
	if len(unknown) > 0 {
		return unknownIDs(c, unknown)
	}
	snapshot, err := h.qty.FamilyQtyMaps(c.UserContext(), companyID, ids)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.QtyMapResponse{Scope: appstock.ScopeFamily, Items: snapshot})
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	return page
}

// idsFromQuery lee ?ids=a,b,c; false si excede maxQtyMapIDs.
func idsFromQuery(c *fiber.Ctx) ([]string, bool) {
	raw := strings.TrimSpace(c.Query("ids"))
	if raw == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	if len(parts) > maxQtyMapIDs {
		return nil, false
	}
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids, true
}

func tooManyIDs(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "demasiados ids en la consulta"})
}

// unknownIDs responde 404 con los ids que no pertenecen a la empresa.
func unknownIDs(c *fiber.Ctx, ids []string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Code:    "NOT_FOUND",
		Message: "ids desconocidos: " + strings.Join(ids, ","),
	})
}
