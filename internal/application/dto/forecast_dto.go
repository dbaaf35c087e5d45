package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
)

// ForecastPointDTO un periodo del pronóstico con su cantidad.
type ForecastPointDTO struct {
	PeriodStart time.Time       `json:"period_start"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ForecastDTO respuesta de GET /api/items/:id/forecast. Method
// "insufficient-data" señala un resultado degradado, no un error.
type ForecastDTO struct {
	ItemID           string             `json:"item_id"`
	WarehouseID      string             `json:"warehouse_id,omitempty"`
	Method           string             `json:"method"`
	PeriodDays       int                `json:"period_days"`
	HistoricalPoints []ForecastPointDTO `json:"historical_points"`
	ForecastPoints   []ForecastPointDTO `json:"forecast_points"`
}

// ToForecastDTO convierte el resultado de pronóstico a su forma HTTP.
func ToForecastDTO(f *entity.ForecastResult) ForecastDTO {
	toPoints := func(points []entity.ForecastPoint) []ForecastPointDTO {
		out := make([]ForecastPointDTO, 0, len(points))
		for _, p := range points {
			out = append(out, ForecastPointDTO{PeriodStart: p.PeriodStart, Quantity: p.Quantity})
		}
		return out
	}
	return ForecastDTO{
		ItemID:           f.ItemID,
		WarehouseID:      f.WarehouseID,
		Method:           f.Method,
		PeriodDays:       f.PeriodDays,
		HistoricalPoints: toPoints(f.HistoricalPoints),
		ForecastPoints:   toPoints(f.ForecastPoints),
	}
}
