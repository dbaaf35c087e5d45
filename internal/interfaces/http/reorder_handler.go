package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reposicion-api/internal/application/dto"
	"github.com/jhoicas/Reposicion-api/internal/application/reorder"
	"github.com/jhoicas/Reposicion-api/internal/domain"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// ReorderHandler maneja alertas de reorden, evaluación, reporte y barrido.
type ReorderHandler struct {
	evaluator    *reorder.Evaluator
	orchestrator *reorder.Orchestrator
	reporter     *reorder.Reporter
	sweeper      *reorder.Sweeper
	alertRepo    repository.ReorderAlertRepository
}

// NewReorderHandler construye el handler.
func NewReorderHandler(
	evaluator *reorder.Evaluator,
	orchestrator *reorder.Orchestrator,
	reporter *reorder.Reporter,
	sweeper *reorder.Sweeper,
	alertRepo repository.ReorderAlertRepository,
) *ReorderHandler {
	return &ReorderHandler{
		evaluator:    evaluator,
		orchestrator: orchestrator,
		reporter:     reporter,
		sweeper:      sweeper,
		alertRepo:    alertRepo,
	}
}

// ListAlerts godoc
// @Summary      Listar alertas de reorden
// @Tags         alerts
// @Produce      json
// @Param        status  query  string  false  "PENDING | ACKNOWLEDGED | PO_CREATED | DISMISSED. Vacío = todas."
// @Param        limit   query  int     false  "Máximo de filas (default 50)"
// @Success      200  {array}   dto.ReorderAlertDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts [get]
func (h *ReorderHandler) ListAlerts(c *fiber.Ctx) error {
	alerts, err := h.alertRepo.List(c.Context(), c.Query("status"), dto.ClampLimit(c.QueryInt("limit")))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToReorderAlertDTOs(alerts))
}

// AcknowledgeAlert godoc
// @Summary      Reconocer una alerta
// @Tags         alerts
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.ReorderAlertDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/acknowledge [post]
func (h *ReorderHandler) AcknowledgeAlert(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.orchestrator.Acknowledge(c.Context(), id); err != nil {
		return domainError(c, err)
	}
	return h.respondAlert(c, id)
}

// DismissAlert godoc
// @Summary      Descartar una alerta
// @Tags         alerts
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.ReorderAlertDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/dismiss [post]
func (h *ReorderHandler) DismissAlert(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.orchestrator.Dismiss(c.Context(), id); err != nil {
		return domainError(c, err)
	}
	return h.respondAlert(c, id)
}

// CreatePurchaseOrder godoc
// @Summary      Crear orden de compra desde una alerta
// @Description  Transición protegida PENDING/ACKNOWLEDGED → PO_CREATED: a lo
//
//	sumo una orden de compra por alerta, sin importar cuántas
//	veces o desde cuántos procesos se invoque.
//
// @Tags         alerts
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      201  {object}  dto.CreatePODTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/create-po [post]
func (h *ReorderHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	poID, err := h.orchestrator.CreatePurchaseOrder(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatePODTO{
		AlertID:         id,
		PurchaseOrderID: poID,
		Status:          entity.AlertStatusPOCreated,
	})
}

// Evaluation godoc
// @Summary      Evaluar reorden de un ítem
// @Description  Posición actual, demanda promedio, cobertura y cantidad sugerida.
// @Tags         reorder
// @Produce      json
// @Param        id            path   string  true   "ID del ítem"
// @Param        warehouse_id  query  string  true   "Bodega a evaluar"
// @Success      200  {object}  dto.EvaluationDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/evaluation [get]
func (h *ReorderHandler) Evaluation(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return badRequest(c, "VALIDATION", "warehouse_id es requerido")
	}
	result, err := h.evaluator.Evaluate(c.Context(), c.Params("id"), warehouseID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToEvaluationDTO(result))
}

// ReorderReport godoc
// @Summary      Reporte de reorden
// @Description  Ítems bajo su nivel de reorden, cobertura de stock ordenada
//
//	ascendente y resumen de alertas.
//
// @Tags         reports
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {object}  dto.ReorderReportDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/reorder [get]
func (h *ReorderHandler) ReorderReport(c *fiber.Ctx) error {
	report, err := h.reporter.Build(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToReorderReportDTO(report))
}

// RunSweep godoc
// @Summary      Ejecutar una pasada del barrido de reposición
// @Description  Concilia vencimientos de lotes y evalúa todos los candidatos
//
//	configurados, generando alertas donde corresponda.
//
// @Tags         sweep
// @Produce      json
// @Success      200  {object}  dto.SweepStatsDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sweep/run [post]
func (h *ReorderHandler) RunSweep(c *fiber.Ctx) error {
	stats, err := h.sweeper.RunOnce(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToSweepStatsDTO(stats))
}

func (h *ReorderHandler) respondAlert(c *fiber.Ctx, id string) error {
	alert, err := h.alertRepo.GetByID(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	if alert == nil {
		return domainError(c, domain.ErrNotFound)
	}
	return c.JSON(dto.ToReorderAlertDTO(alert))
}
