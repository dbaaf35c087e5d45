package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reposicion-api/internal/application/allocation"
	"github.com/jhoicas/Reposicion-api/internal/application/batch"
	"github.com/jhoicas/Reposicion-api/internal/application/forecast"
	"github.com/jhoicas/Reposicion-api/internal/application/reorder"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BatchUC      *batch.UseCase
	AllocationUC *allocation.UseCase
	ForecastUC   *forecast.UseCase
	Evaluator    *reorder.Evaluator
	Orchestrator *reorder.Orchestrator
	Reporter     *reorder.Reporter
	Sweeper      *reorder.Sweeper
	AlertRepo    repository.ReorderAlertRepository
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Registro de lotes
	batches := api.Group("/batches")
	batchHandler := NewBatchHandler(deps.BatchUC)
	batches.Post("/", batchHandler.Register)
	batches.Get("/", batchHandler.List)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Post("/:id/adjust", batchHandler.Adjust)

	// Motor de asignación
	allocationHandler := NewAllocationHandler(deps.AllocationUC)
	api.Post("/allocations", allocationHandler.Allocate)

	// Alertas, evaluación, reporte y barrido
	reorderHandler := NewReorderHandler(deps.Evaluator, deps.Orchestrator, deps.Reporter, deps.Sweeper, deps.AlertRepo)
	alerts := api.Group("/alerts")
	alerts.Get("/", reorderHandler.ListAlerts)
	alerts.Post("/:id/acknowledge", reorderHandler.AcknowledgeAlert)
	alerts.Post("/:id/dismiss", reorderHandler.DismissAlert)
	alerts.Post("/:id/create-po", reorderHandler.CreatePurchaseOrder)

	// Pronóstico y evaluación por ítem
	forecastHandler := NewForecastHandler(deps.ForecastUC)
	items := api.Group("/items")
	items.Get("/:id/forecast", forecastHandler.Forecast)
	items.Get("/:id/evaluation", reorderHandler.Evaluation)

	// Reportes
	reports := api.Group("/reports")
	reports.Get("/reorder", reorderHandler.ReorderReport)
	reports.Get("/batch-expiry", batchHandler.ExpiryReport)

	// Barrido manual
	api.Post("/sweep/run", reorderHandler.RunSweep)
}
