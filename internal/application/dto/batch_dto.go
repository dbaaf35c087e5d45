package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/application/batch"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
)

// RegisterBatchRequest body para POST /api/batches.
type RegisterBatchRequest struct {
	ItemID          string          `json:"item_id"`
	WarehouseID     string          `json:"warehouse_id"`
	BatchNumber     string          `json:"batch_number,omitempty"` // vacío = se autogenera
	Quantity        decimal.Decimal `json:"quantity"`
	ManufactureDate *time.Time      `json:"manufacture_date,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
}

// AdjustBatchRequest body para POST /api/batches/:id/adjust. El delta debe
// ser positivo: corrige una recepción registrada por debajo de lo real.
type AdjustBatchRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

// BatchQuery filtros para GET /api/batches.
type BatchQuery struct {
	ItemID        string     `query:"item_id"`
	WarehouseID   string     `query:"warehouse_id"`
	Status        string     `query:"status"`
	ExpiresBefore *time.Time `query:"expires_before"`
	ExpiresAfter  *time.Time `query:"expires_after"`
}

// BatchDTO representación HTTP de un lote.
type BatchDTO struct {
	ID                string          `json:"id"`
	ItemID            string          `json:"item_id"`
	WarehouseID       string          `json:"warehouse_id"`
	BatchNumber       string          `json:"batch_number"`
	QuantityRemaining decimal.Decimal `json:"quantity_remaining"`
	ManufactureDate   *time.Time      `json:"manufacture_date,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToBatchDTO convierte la entidad de dominio a su representación HTTP.
func ToBatchDTO(b *entity.Batch) BatchDTO {
	return BatchDTO{
		ID:                b.ID,
		ItemID:            b.ItemID,
		WarehouseID:       b.WarehouseID,
		BatchNumber:       b.BatchNumber,
		QuantityRemaining: b.QuantityRemaining,
		ManufactureDate:   b.ManufactureDate,
		ExpiryDate:        b.ExpiryDate,
		Status:            b.Status,
		CreatedAt:         b.CreatedAt,
	}
}

// ToBatchDTOs convierte una lista de lotes.
func ToBatchDTOs(batches []*entity.Batch) []BatchDTO {
	out := make([]BatchDTO, 0, len(batches))
	for _, b := range batches {
		out = append(out, ToBatchDTO(b))
	}
	return out
}

// ExpiringBatchDTO lote anotado del reporte de vencimientos.
type ExpiringBatchDTO struct {
	Batch           BatchDTO `json:"batch"`
	DaysUntilExpiry int      `json:"days_until_expiry,omitempty"`
	DaysExpired     int      `json:"days_expired,omitempty"`
}

// ExpiryReportDTO respuesta de GET /api/reports/batch-expiry.
type ExpiryReportDTO struct {
	AsOf         time.Time          `json:"as_of"`
	WithinDays   int                `json:"within_days"`
	ExpiringSoon []ExpiringBatchDTO `json:"expiring_soon"`
	Expired      []ExpiringBatchDTO `json:"expired"`
}

// ToExpiryReportDTO convierte el reporte de vencimientos a su forma HTTP.
func ToExpiryReportDTO(r *batch.ExpiryReport) ExpiryReportDTO {
	toRows := func(rows []batch.ExpiringBatch) []ExpiringBatchDTO {
		out := make([]ExpiringBatchDTO, 0, len(rows))
		for _, e := range rows {
			out = append(out, ExpiringBatchDTO{
				Batch:           ToBatchDTO(e.Batch),
				DaysUntilExpiry: e.DaysUntilExpiry,
				DaysExpired:     e.DaysExpired,
			})
		}
		return out
	}
	return ExpiryReportDTO{
		AsOf:         r.AsOf,
		WithinDays:   r.WithinDays,
		ExpiringSoon: toRows(r.ExpiringSoon),
		Expired:      toRows(r.Expired),
	}
}
