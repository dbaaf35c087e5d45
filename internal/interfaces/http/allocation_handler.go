package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reposicion-api/internal/application/allocation"
	"github.com/jhoicas/Reposicion-api/internal/application/dto"
	"github.com/jhoicas/Reposicion-api/internal/domain/inventory"
)

// AllocationHandler maneja las peticiones HTTP del motor de asignación.
type AllocationHandler struct {
	uc *allocation.UseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(uc *allocation.UseCase) *AllocationHandler {
	return &AllocationHandler{uc: uc}
}

// Allocate godoc
// @Summary      Asignar cantidad contra lotes
// @Description  Planifica el consumo de lotes (FEFO o FIFO) y lo compromete
//
//	atómicamente. Con plan_only=true solo devuelve el plan, sin
//	descontar nada. Un faltante (shortfall > 0) no es un error.
//
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRequest  true  "item_id, warehouse_id, quantity, method (FEFO|FIFO), plan_only"
// @Success      200   {object}  dto.AllocationPlanDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	method := in.Method
	if method == "" {
		method = inventory.MethodFEFO
	}

	if in.PlanOnly {
		plan, err := h.uc.Plan(c.Context(), in.ItemID, in.WarehouseID, in.Quantity, method)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(dto.ToAllocationPlanDTO(plan))
	}

	result, err := h.uc.AllocateAndCommit(c.Context(), in.ItemID, in.WarehouseID, in.Quantity, method)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToCommitResultDTO(result))
}
