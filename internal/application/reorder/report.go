package reorder

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// CoverageRow cobertura de stock de un ítem para el reporte (ordenable
// gracias al centinela finito de demanda cero).
type CoverageRow struct {
	ItemID       string
	WarehouseID  string
	SKU          string
	ItemName     string
	CurrentStock decimal.Decimal
	AvgDailyUse  decimal.Decimal
	CoverageDays decimal.Decimal
}

// ReportSummary totales del reporte de reorden.
type ReportSummary struct {
	ItemsBelowReorder int
	PendingAlerts     int
	POCreatedAlerts   int
	AutoReorderActive int
}

// Report reporte de reorden consumido por la UI (solo lectura).
type Report struct {
	GeneratedAt       time.Time
	ItemsBelowReorder []EvaluationResult
	StockCoverage     []CoverageRow
	Summary           ReportSummary
}

// Reporter arma el reporte de reorden sobre los candidatos configurados.
// No muta nada: conteos y cantidades sugeridas, sin detalle interno de
// reintentos ni locking.
type Reporter struct {
	settingRepo repository.ReorderSettingRepository
	alertRepo   repository.ReorderAlertRepository
	evaluator   *Evaluator
	now         func() time.Time
}

// NewReporter construye el generador del reporte.
func NewReporter(
	settingRepo repository.ReorderSettingRepository,
	alertRepo repository.ReorderAlertRepository,
	evaluator *Evaluator,
) *Reporter {
	return &Reporter{
		settingRepo: settingRepo,
		alertRepo:   alertRepo,
		evaluator:   evaluator,
		now:         time.Now,
	}
}

// Build genera el reporte. warehouseID vacío = todas las bodegas.
func (r *Reporter) Build(ctx context.Context, warehouseID string) (*Report, error) {
	candidates, err := r.settingRepo.ListCandidates(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("listar candidatos: %w", err)
	}

	report := &Report{GeneratedAt: r.now()}
	for _, c := range candidates {
		result, err := r.evaluator.Evaluate(ctx, c.ItemID, c.WarehouseID)
		if err != nil {
			return nil, fmt.Errorf("evaluar %s/%s: %w", c.ItemID, c.WarehouseID, err)
		}
		report.StockCoverage = append(report.StockCoverage, CoverageRow{
			ItemID:       result.ItemID,
			WarehouseID:  result.WarehouseID,
			SKU:          result.SKU,
			ItemName:     result.ItemName,
			CurrentStock: result.CurrentStock,
			AvgDailyUse:  result.AvgDailyUse,
			CoverageDays: result.CoverageDays,
		})
		if result.BelowReorder {
			report.ItemsBelowReorder = append(report.ItemsBelowReorder, result)
			if result.AutoReorder {
				report.Summary.AutoReorderActive++
			}
		}
	}

	// Menor cobertura primero: el quiebre más urgente encabeza el reporte.
	sort.SliceStable(report.StockCoverage, func(i, j int) bool {
		return report.StockCoverage[i].CoverageDays.LessThan(report.StockCoverage[j].CoverageDays)
	})
	sort.SliceStable(report.ItemsBelowReorder, func(i, j int) bool {
		return report.ItemsBelowReorder[i].CoverageDays.LessThan(report.ItemsBelowReorder[j].CoverageDays)
	})

	counts, err := r.alertRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar alertas: %w", err)
	}
	report.Summary.ItemsBelowReorder = len(report.ItemsBelowReorder)
	report.Summary.PendingAlerts = counts.Pending
	report.Summary.POCreatedAlerts = counts.POCreated
	return report, nil
}
