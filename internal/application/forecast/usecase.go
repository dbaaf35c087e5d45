package forecast

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// Valores por defecto del pronóstico: periodos semanales y media móvil
// sobre los últimos 4 periodos.
const (
	DefaultPeriodDays          = 7
	DefaultMovingAverageWindow = 4
)

// UseCase pronostica demanda a partir del historial de consumo del libro de
// inventario. La escritura del historial es propiedad del colaborador
// externo; aquí solo se agrega y proyecta.
type UseCase struct {
	ledger repository.StockLedgerReader
	window int              // periodos de la media móvil
	now    func() time.Time // inyectable para tests
}

// NewUseCase construye el pronosticador. movingAvgWindow <= 0 usa el default.
func NewUseCase(ledger repository.StockLedgerReader, movingAvgWindow int) *UseCase {
	if movingAvgWindow <= 0 {
		movingAvgWindow = DefaultMovingAverageWindow
	}
	return &UseCase{ledger: ledger, window: movingAvgWindow, now: time.Now}
}

// ComputeForecast agrupa el consumo histórico en periodos fijos (semanales)
// y proyecta horizonPeriods periodos futuros con la media móvil de los
// últimos N periodos históricos. Con menos de 2 periodos históricos devuelve
// pronóstico 0 marcado "insufficient-data": resultado degradado, no error.
func (uc *UseCase) ComputeForecast(ctx context.Context, itemID, warehouseID string, historyWindowDays, horizonPeriods int) (*entity.ForecastResult, error) {
	if itemID == "" || historyWindowDays <= 0 || horizonPeriods <= 0 {
		return nil, domain.ErrInvalidInput
	}

	end := uc.now()
	start := end.AddDate(0, 0, -historyWindowDays)
	records, err := uc.ledger.GetConsumptionHistory(ctx, itemID, warehouseID, start, end)
	if err != nil {
		return nil, err
	}

	historical := bucketize(records, start, end, DefaultPeriodDays)

	result := &entity.ForecastResult{
		ItemID:           itemID,
		WarehouseID:      warehouseID,
		Method:           entity.ForecastMethodMovingAverage,
		PeriodDays:       DefaultPeriodDays,
		HistoricalPoints: historical,
	}

	if len(historical) < 2 {
		result.Method = entity.ForecastMethodInsufficientData
		for i := 0; i < horizonPeriods; i++ {
			result.ForecastPoints = append(result.ForecastPoints, entity.ForecastPoint{
				PeriodStart: end.AddDate(0, 0, i*DefaultPeriodDays),
				Quantity:    decimal.Zero,
			})
		}
		return result, nil
	}

	avg := movingAverage(historical, uc.window)
	for i := 0; i < horizonPeriods; i++ {
		result.ForecastPoints = append(result.ForecastPoints, entity.ForecastPoint{
			PeriodStart: end.AddDate(0, 0, i*DefaultPeriodDays),
			Quantity:    avg,
		})
	}
	return result, nil
}

// AverageDailyDemand cantidad total consumida en la ventana dividida por
// windowDays. Con demanda cero devuelve 0; el caller debe tratar la
// cobertura con el centinela definido, nunca dividir por este valor.
func (uc *UseCase) AverageDailyDemand(ctx context.Context, itemID, warehouseID string, windowDays int) (decimal.Decimal, error) {
	if itemID == "" || windowDays <= 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	end := uc.now()
	start := end.AddDate(0, 0, -windowDays)
	records, err := uc.ledger.GetConsumptionHistory(ctx, itemID, warehouseID, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Quantity)
	}
	return total.Div(decimal.NewFromInt(int64(windowDays))), nil
}

// bucketize agrupa los registros en periodos de periodDays alineados al
// final de la ventana (el último periodo termina en end). Periodos sin
// consumo dentro del rango cubierto cuentan como 0.
func bucketize(records []repository.ConsumptionRecord, start, end time.Time, periodDays int) []entity.ForecastPoint {
	if len(records) == 0 {
		return nil
	}
	periodDur := time.Duration(periodDays) * 24 * time.Hour
	numPeriods := int(end.Sub(start) / periodDur)
	if numPeriods == 0 {
		numPeriods = 1
	}
	firstStart := end.Add(-time.Duration(numPeriods) * periodDur)

	points := make([]entity.ForecastPoint, numPeriods)
	for i := range points {
		points[i] = entity.ForecastPoint{
			PeriodStart: firstStart.Add(time.Duration(i) * periodDur),
			Quantity:    decimal.Zero,
		}
	}
	for _, r := range records {
		if r.Date.Before(firstStart) || !r.Date.Before(end) {
			continue
		}
		idx := int(r.Date.Sub(firstStart) / periodDur)
		if idx >= numPeriods {
			idx = numPeriods - 1
		}
		points[idx].Quantity = points[idx].Quantity.Add(r.Quantity)
	}

	// Recortar periodos vacíos al inicio: solo cuentan como históricos los
	// periodos desde el primer consumo observado.
	firstNonZero := 0
	for firstNonZero < len(points) && points[firstNonZero].Quantity.IsZero() {
		firstNonZero++
	}
	return points[firstNonZero:]
}

// movingAverage media de los últimos window puntos (o todos si hay menos).
func movingAverage(points []entity.ForecastPoint, window int) decimal.Decimal {
	if len(points) == 0 {
		return decimal.Zero
	}
	if window > len(points) {
		window = len(points)
	}
	sum := decimal.Zero
	for _, p := range points[len(points)-window:] {
		sum = sum.Add(p.Quantity)
	}
	return sum.Div(decimal.NewFromInt(int64(window)))
}
