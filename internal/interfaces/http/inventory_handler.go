package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de ajustes y consulta de inventario.
type InventoryHandler struct {
	uc            *inventory.RegisterMovementUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, replenishment: replenishment}
}

// AdjustStock godoc
// @Summary      Ajustar existencia de un producto
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "productId, quantity, operation (add|subtract|set), reason"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.AdjustStockFromRequest(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   int  true   "ID del producto"
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.StockMovementListResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	out, err := h.uc.ListMovements(c.Context(), id, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos en o bajo su mínimo con sugerencia de reposición
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de productos"  default(500)
// @Success      200    {array}  dto.LowStockSuggestionDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
