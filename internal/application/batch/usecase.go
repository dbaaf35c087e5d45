package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// UseCase registro de lotes: altas por recepción, ajustes, conciliación de
// vencimientos y superficie de consulta. El consumo de lotes es exclusivo
// del motor de asignación.
type UseCase struct {
	batchRepo   repository.BatchRepository
	horizonDays int // horizonte por defecto del reporte de vencimientos
	now         func() time.Time
}

// NewUseCase construye el caso de uso del registro de lotes.
// expiringSoonDays <= 0 usa 30 días como horizonte por defecto.
func NewUseCase(batchRepo repository.BatchRepository, expiringSoonDays int) *UseCase {
	if expiringSoonDays <= 0 {
		expiringSoonDays = 30
	}
	return &UseCase{batchRepo: batchRepo, horizonDays: expiringSoonDays, now: time.Now}
}

// RegisterInput entrada para registrar un lote recibido.
type RegisterInput struct {
	ItemID          string
	WarehouseID     string
	BatchNumber     string // vacío = se autogenera
	Quantity        decimal.Decimal
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
}

// Register da de alta un lote ACTIVE por recepción de mercadería.
// Cantidad <= 0 se rechaza en el borde con ErrInvalidBatchQuantity.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*entity.Batch, error) {
	if in.ItemID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidBatchQuantity
	}

	now := uc.now()
	batchNumber := in.BatchNumber
	if batchNumber == "" {
		batchNumber = fmt.Sprintf("LOTE-%s", now.Format("20060102-150405"))
	}

	b := &entity.Batch{
		ID:                uuid.New().String(),
		ItemID:            in.ItemID,
		WarehouseID:       in.WarehouseID,
		BatchNumber:       batchNumber,
		QuantityRemaining: in.Quantity,
		ManufactureDate:   in.ManufactureDate,
		ExpiryDate:        in.ExpiryDate,
		Status:            entity.BatchStatusActive,
		CreatedAt:         now,
	}
	if err := uc.batchRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Adjust aplica una corrección de recepción (delta positivo) sobre un lote.
func (uc *UseCase) Adjust(ctx context.Context, batchID string, delta decimal.Decimal) (*entity.Batch, error) {
	if batchID == "" {
		return nil, domain.ErrInvalidInput
	}
	if delta.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidBatchQuantity
	}
	if err := uc.batchRepo.AdjustQuantity(ctx, batchID, delta); err != nil {
		return nil, err
	}
	return uc.batchRepo.GetByID(ctx, batchID)
}

// ReconcileExpiry marca EXPIRED los lotes ACTIVE vencidos a la fecha dada.
// Idempotente; se ejecuta al inicio de cada pasada del barrido y es seguro
// volver a correrla.
func (uc *UseCase) ReconcileExpiry(ctx context.Context, asOf time.Time) (int64, error) {
	return uc.batchRepo.ReconcileExpiry(ctx, asOf)
}

// Get devuelve un lote por id.
func (uc *UseCase) Get(ctx context.Context, batchID string) (*entity.Batch, error) {
	b, err := uc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// List superficie de consulta: filtra por bodega, estado y ventana de vencimiento.
func (uc *UseCase) List(ctx context.Context, filter repository.BatchFilter) ([]*entity.Batch, error) {
	return uc.batchRepo.List(ctx, filter)
}

// ExpiringBatch lote anotado para el reporte de vencimientos.
type ExpiringBatch struct {
	Batch           *entity.Batch
	DaysUntilExpiry int // solo en la vista "por vencer"
	DaysExpired     int // solo en la vista "vencidos"
}

// ExpiryReport vistas "por vencer dentro de N días" y "ya vencidos".
type ExpiryReport struct {
	AsOf         time.Time
	WithinDays   int
	ExpiringSoon []ExpiringBatch
	Expired      []ExpiringBatch
}

// BuildExpiryReport arma el reporte de vencimientos de lotes con cantidad
// restante. warehouseID vacío = todas las bodegas.
func (uc *UseCase) BuildExpiryReport(ctx context.Context, warehouseID string, withinDays int) (*ExpiryReport, error) {
	if withinDays <= 0 {
		withinDays = uc.horizonDays
	}
	asOf := uc.now()
	horizon := asOf.AddDate(0, 0, withinDays)

	report := &ExpiryReport{AsOf: asOf, WithinDays: withinDays}

	// Por vencer: lotes ACTIVE con vencimiento dentro del horizonte.
	soon, err := uc.batchRepo.List(ctx, repository.BatchFilter{
		WarehouseID:   warehouseID,
		Status:        entity.BatchStatusActive,
		ExpiresBefore: &horizon,
	})
	if err != nil {
		return nil, err
	}
	for _, b := range soon {
		if b.ExpiryDate == nil || b.QuantityRemaining.LessThanOrEqual(decimal.Zero) {
			continue
		}
		days := int(b.ExpiryDate.Sub(asOf).Hours() / 24)
		if days < 0 {
			// vencido pero aún no conciliado: pertenece a la otra vista
			continue
		}
		report.ExpiringSoon = append(report.ExpiringSoon, ExpiringBatch{
			Batch:           b,
			DaysUntilExpiry: days,
		})
	}

	// Ya vencidos: lotes EXPIRED que conservan cantidad.
	expired, err := uc.batchRepo.List(ctx, repository.BatchFilter{
		WarehouseID: warehouseID,
		Status:      entity.BatchStatusExpired,
	})
	if err != nil {
		return nil, err
	}
	for _, b := range expired {
		if b.ExpiryDate == nil || b.QuantityRemaining.LessThanOrEqual(decimal.Zero) {
			continue
		}
		report.Expired = append(report.Expired, ExpiringBatch{
			Batch:       b,
			DaysExpired: int(asOf.Sub(*b.ExpiryDate).Hours() / 24),
		})
	}
	return report, nil
}
