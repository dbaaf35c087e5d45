package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reposicion-api/internal/application/batch"
	"github.com/jhoicas/Reposicion-api/internal/application/dto"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// BatchHandler maneja las peticiones HTTP del registro de lotes.
type BatchHandler struct {
	uc *batch.UseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *batch.UseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar lote recibido
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterBatchRequest  true  "item_id, warehouse_id, quantity, batch_number (opcional), manufacture_date, expiry_date"
// @Success      201   {object}  dto.BatchDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	b, err := h.uc.Register(c.Context(), batch.RegisterInput{
		ItemID:          in.ItemID,
		WarehouseID:     in.WarehouseID,
		BatchNumber:     in.BatchNumber,
		Quantity:        in.Quantity,
		ManufactureDate: in.ManufactureDate,
		ExpiryDate:      in.ExpiryDate,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBatchDTO(b))
}

// List godoc
// @Summary      Listar lotes
// @Tags         batches
// @Produce      json
// @Param        item_id         query  string  false  "Filtrar por ítem"
// @Param        warehouse_id    query  string  false  "Filtrar por bodega"
// @Param        status          query  string  false  "ACTIVE | EXPIRED | DEPLETED | RECALLED"
// @Param        expires_before  query  string  false  "RFC 3339"
// @Param        expires_after   query  string  false  "RFC 3339"
// @Success      200  {array}   dto.BatchDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	filter := repository.BatchFilter{
		ItemID:      c.Query("item_id"),
		WarehouseID: c.Query("warehouse_id"),
		Status:      c.Query("status"),
	}
	if raw := c.Query("expires_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "INVALID_DATE", "expires_before debe ser RFC 3339")
		}
		filter.ExpiresBefore = &t
	}
	if raw := c.Query("expires_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "INVALID_DATE", "expires_after debe ser RFC 3339")
		}
		filter.ExpiresAfter = &t
	}

	batches, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToBatchDTOs(batches))
}

// GetByID godoc
// @Summary      Obtener lote por id
// @Tags         batches
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	b, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToBatchDTO(b))
}

// Adjust godoc
// @Summary      Ajustar cantidad de un lote
// @Description  Corrección de recepción al alza: el delta debe ser positivo.
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del lote"
// @Param        body  body  dto.AdjustBatchRequest  true  "delta"
// @Success      200  {object}  dto.BatchDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/adjust [post]
func (h *BatchHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	b, err := h.uc.Adjust(c.Context(), c.Params("id"), in.Delta)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToBatchDTO(b))
}

// ExpiryReport godoc
// @Summary      Reporte de vencimiento de lotes
// @Description  Lotes con cantidad restante que vencen dentro de N días y lotes ya vencidos.
// @Tags         reports
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Param        within_days   query  int     false  "Horizonte en días (default 30)"
// @Success      200  {object}  dto.ExpiryReportDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/batch-expiry [get]
func (h *BatchHandler) ExpiryReport(c *fiber.Ctx) error {
	report, err := h.uc.BuildExpiryReport(c.Context(), c.Query("warehouse_id"), c.QueryInt("within_days"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToExpiryReportDTO(report))
}
