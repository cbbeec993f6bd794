package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación.
type InvoiceHandler struct {
	create *billing.CreateInvoiceUseCase
	query  *billing.InvoiceQueryUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(create *billing.CreateInvoiceUseCase, query *billing.InvoiceQueryUseCase) *InvoiceHandler {
	return &InvoiceHandler{create: create, query: query}
}

// Create godoc
// @Summary      Crear factura
// @Description  Resuelve cliente y productos, calcula totales, persiste la factura y descuenta inventario en una sola transacción.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.CreateInvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	actor := billing.Actor{UserID: GetUserID(c), CompanyID: GetCompanyID(c)}
	out, err := h.create.CreateInvoice(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura por ID
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	out, err := h.query.GetInvoice(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByReference godoc
// @Summary      Obtener factura por referencia
// @Description  Camino de reconciliación cuando el cliente perdió la respuesta de una creación.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        reference  path  string  true  "Referencia UUID"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/reference/{reference} [get]
func (h *InvoiceHandler) GetByReference(c *fiber.Ctx) error {
	out, err := h.query.GetInvoiceByReference(c.Context(), c.Params("reference"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        search      query  string  false  "Número de factura o nombre de cliente"
// @Param        status      query  string  false  "Estado"
// @Param        customerId  query  int     false  "Cliente"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD, inclusivo)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.InvoiceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	q := dto.InvoiceListQuery{
		Search:      c.Query("search"),
		Status:      c.Query("status"),
		CustomerID:  int64(c.QueryInt("customerId", 0)),
		From:        c.Query("from"),
		To:          c.Query("to"),
		PageRequest: pageFromQuery(c),
	}
	out, err := h.query.ListInvoices(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
