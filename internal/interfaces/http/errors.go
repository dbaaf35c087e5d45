package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reposicion-api/internal/application/dto"
	"github.com/jhoicas/Reposicion-api/internal/domain"
)

// domainError traduce errores de dominio al par (status, cuerpo) HTTP.
// Los use cases envuelven los centinelas con %w, por eso errors.Is.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidBatchQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrBatchNotAdjustable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BATCH_NOT_ADJUSTABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientBatchQuantity):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_BATCH_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrAllocationConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALLOCATION_CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrAlertClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALERT_CLOSED", Message: err.Error()})
	case errors.Is(err, domain.ErrPurchasingUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "PURCHASING_UNAVAILABLE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}
