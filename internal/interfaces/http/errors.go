package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// internalMessage respuesta genérica para fallos de almacenamiento; el detalle solo va al log.
const internalMessage = "error interno; si creaba una factura, consúltela por su referencia antes de reintentar"

// respondError traduce errores de dominio a códigos HTTP en un solo lugar.
func respondError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrTransactionAborted):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "TRANSACTION_ABORTED", Message: internalMessage}
	case errors.Is(err, domain.ErrStorageFailure):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "STORAGE_FAILURE", Message: internalMessage}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente", Error: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado", Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidCustomerReference):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_CUSTOMER_REFERENCE", Message: "referencia de cliente inválida", Error: err.Error()}
	case errors.Is(err, domain.ErrCustomerNotFound):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "CUSTOMER_NOT_FOUND", Message: "cliente no encontrado", Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidBasket):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_BASKET", Message: "canasta de productos inválida", Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidAmount):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_AMOUNT", Message: "monto inválido", Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Error: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: internalMessage}
	}
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// pathID lee un parámetro de ruta entero positivo.
func pathID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

// pageFromQuery lee limit/offset; DefaultPage normaliza después.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
}
