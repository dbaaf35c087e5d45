package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pronóstico.
const (
	ForecastMethodMovingAverage    = "moving-average"
	ForecastMethodInsufficientData = "insufficient-data"
)

// ForecastPoint un periodo (histórico o proyectado) con su cantidad.
type ForecastPoint struct {
	PeriodStart time.Time
	Quantity    decimal.Decimal
}

// ForecastResult pronóstico de demanda de un ítem; transitorio, se calcula
// bajo demanda y no se persiste. Method = "insufficient-data" señala un
// resultado degradado (menos de 2 periodos históricos), no un error.
type ForecastResult struct {
	ItemID           string
	WarehouseID      string
	Method           string
	PeriodDays       int
	HistoricalPoints []ForecastPoint
	ForecastPoints   []ForecastPoint
}
