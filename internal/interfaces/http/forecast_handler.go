package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reposicion-api/internal/application/dto"
	"github.com/jhoicas/Reposicion-api/internal/application/forecast"
)

// ForecastHandler maneja las peticiones HTTP del pronóstico de demanda.
type ForecastHandler struct {
	uc *forecast.UseCase
}

// NewForecastHandler construye el handler.
func NewForecastHandler(uc *forecast.UseCase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// Forecast godoc
// @Summary      Pronóstico de demanda de un ítem
// @Description  Demanda histórica por periodo y proyección por promedio
//
//	móvil. Con menos de 2 periodos de historia devuelve
//	method=insufficient-data y proyección cero.
//
// @Tags         forecast
// @Produce      json
// @Param        id            path   string  true   "ID del ítem"
// @Param        warehouse_id  query  string  false  "Bodega. Vacío = consumo agregado."
// @Param        window_days   query  int     false  "Ventana de historia en días (default 90)"
// @Param        horizon       query  int     false  "Periodos a proyectar (default 4)"
// @Success      200  {object}  dto.ForecastDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/forecast [get]
func (h *ForecastHandler) Forecast(c *fiber.Ctx) error {
	windowDays := c.QueryInt("window_days")
	if windowDays <= 0 {
		windowDays = 90
	}
	horizon := c.QueryInt("horizon")
	if horizon <= 0 {
		horizon = 4
	}
	result, err := h.uc.ComputeForecast(c.Context(), c.Params("id"), c.Query("warehouse_id"), windowDays, horizon)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToForecastDTO(result))
}
