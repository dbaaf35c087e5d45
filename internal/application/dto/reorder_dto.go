package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/application/reorder"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
)

// ReorderAlertDTO representación HTTP de una alerta de reorden.
type ReorderAlertDTO struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	WarehouseID     string          `json:"warehouse_id"`
	Status          string          `json:"status"`
	SuggestedQty    decimal.Decimal `json:"suggested_qty"`
	PurchaseOrderID string          `json:"purchase_order_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
}

// ToReorderAlertDTO convierte la entidad de alerta a su forma HTTP.
func ToReorderAlertDTO(a *entity.ReorderAlert) ReorderAlertDTO {
	return ReorderAlertDTO{
		ID:              a.ID,
		ItemID:          a.ItemID,
		WarehouseID:     a.WarehouseID,
		Status:          a.Status,
		SuggestedQty:    a.SuggestedQty,
		PurchaseOrderID: a.PurchaseOrderID,
		CreatedAt:       a.CreatedAt,
		ResolvedAt:      a.ResolvedAt,
	}
}

// ToReorderAlertDTOs convierte una lista de alertas.
func ToReorderAlertDTOs(alerts []*entity.ReorderAlert) []ReorderAlertDTO {
	out := make([]ReorderAlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, ToReorderAlertDTO(a))
	}
	return out
}

// CreatePODTO respuesta de POST /api/alerts/:id/create-po.
type CreatePODTO struct {
	AlertID         string `json:"alert_id"`
	PurchaseOrderID string `json:"purchase_order_id"`
	Status          string `json:"status"`
}

// EvaluationDTO respuesta de GET /api/items/:id/evaluation.
type EvaluationDTO struct {
	ItemID        string          `json:"item_id"`
	WarehouseID   string          `json:"warehouse_id"`
	SKU           string          `json:"sku"`
	ItemName      string          `json:"item_name"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	BelowReorder  bool            `json:"below_reorder"`
	AvgDailyUse   decimal.Decimal `json:"avg_daily_use"`
	CoverageDays  decimal.Decimal `json:"coverage_days"`
	SuggestedQty  decimal.Decimal `json:"suggested_qty"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	AutoReorder   bool            `json:"auto_reorder"`
	VendorID      string          `json:"vendor_id,omitempty"`
	LeadTimeDays  int             `json:"lead_time_days"`
}

// ToEvaluationDTO convierte un resultado de evaluación de reorden.
func ToEvaluationDTO(r reorder.EvaluationResult) EvaluationDTO {
	return EvaluationDTO{
		ItemID:        r.ItemID,
		WarehouseID:   r.WarehouseID,
		SKU:           r.SKU,
		ItemName:      r.ItemName,
		CurrentStock:  r.CurrentStock,
		ReorderLevel:  r.ReorderLevel,
		BelowReorder:  r.BelowReorder,
		AvgDailyUse:   r.AvgDailyUse,
		CoverageDays:  r.CoverageDays,
		SuggestedQty:  r.SuggestedQty,
		EstimatedCost: r.EstimatedCost,
		AutoReorder:   r.AutoReorder,
		VendorID:      r.VendorID,
		LeadTimeDays:  r.LeadTimeDays,
	}
}

// CoverageRowDTO fila de cobertura del reporte de reorden.
type CoverageRowDTO struct {
	ItemID       string          `json:"item_id"`
	WarehouseID  string          `json:"warehouse_id"`
	SKU          string          `json:"sku"`
	ItemName     string          `json:"item_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	AvgDailyUse  decimal.Decimal `json:"avg_daily_use"`
	CoverageDays decimal.Decimal `json:"coverage_days"`
}

// ReorderReportDTO respuesta de GET /api/reports/reorder.
type ReorderReportDTO struct {
	GeneratedAt       time.Time        `json:"generated_at"`
	ItemsBelowReorder []EvaluationDTO  `json:"items_below_reorder"`
	StockCoverage     []CoverageRowDTO `json:"stock_coverage"`
	Summary           ReportSummaryDTO `json:"summary"`
}

// ReportSummaryDTO totales del reporte de reorden.
type ReportSummaryDTO struct {
	ItemsBelowReorder int `json:"items_below_reorder"`
	PendingAlerts     int `json:"pending_alerts"`
	POCreatedAlerts   int `json:"po_created_alerts"`
	AutoReorderActive int `json:"auto_reorder_active"`
}

// ToReorderReportDTO convierte el reporte de reorden a su forma HTTP.
func ToReorderReportDTO(r *reorder.Report) ReorderReportDTO {
	below := make([]EvaluationDTO, 0, len(r.ItemsBelowReorder))
	for _, e := range r.ItemsBelowReorder {
		below = append(below, ToEvaluationDTO(e))
	}
	coverage := make([]CoverageRowDTO, 0, len(r.StockCoverage))
	for _, c := range r.StockCoverage {
		coverage = append(coverage, CoverageRowDTO{
			ItemID:       c.ItemID,
			WarehouseID:  c.WarehouseID,
			SKU:          c.SKU,
			ItemName:     c.ItemName,
			CurrentStock: c.CurrentStock,
			AvgDailyUse:  c.AvgDailyUse,
			CoverageDays: c.CoverageDays,
		})
	}
	return ReorderReportDTO{
		GeneratedAt:       r.GeneratedAt,
		ItemsBelowReorder: below,
		StockCoverage:     coverage,
		Summary: ReportSummaryDTO{
			ItemsBelowReorder: r.Summary.ItemsBelowReorder,
			PendingAlerts:     r.Summary.PendingAlerts,
			POCreatedAlerts:   r.Summary.POCreatedAlerts,
			AutoReorderActive: r.Summary.AutoReorderActive,
		},
	}
}

// SweepStatsDTO respuesta de POST /api/sweep/run.
type SweepStatsDTO struct {
	StartedAt      time.Time `json:"started_at"`
	DurationMs     int64     `json:"duration_ms"`
	ExpiredBatches int64     `json:"expired_batches"`
	Evaluated      int       `json:"evaluated"`
	BelowReorder   int       `json:"below_reorder"`
	Failed         int       `json:"failed"`
}

// ToSweepStatsDTO convierte las estadísticas de una pasada del barrido.
func ToSweepStatsDTO(s reorder.SweepStats) SweepStatsDTO {
	return SweepStatsDTO{
		StartedAt:      s.StartedAt,
		DurationMs:     s.Duration.Milliseconds(),
		ExpiredBatches: s.ExpiredBatches,
		Evaluated:      s.Evaluated,
		BelowReorder:   s.BelowReorder,
		Failed:         s.Failed,
	}
}
