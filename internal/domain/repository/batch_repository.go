package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
)

// BatchFilter filtros de la superficie de consulta de lotes.
// Campos vacíos/nulos no filtran.
type BatchFilter struct {
	ItemID        string
	WarehouseID   string
	Status        string
	ExpiresBefore *time.Time
	ExpiresAfter  *time.Time
}

// BatchRepository define el puerto de persistencia del registro de lotes.
// Los lotes nunca se eliminan físicamente (trazabilidad).
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	List(ctx context.Context, filter BatchFilter) ([]*entity.Batch, error)

	// ListAllocatable devuelve los lotes ACTIVE con cantidad restante > 0
	// de un ítem en una bodega, sin orden garantizado: el ordenamiento
	// (FEFO/FIFO) es responsabilidad del motor de asignación.
	ListAllocatable(ctx context.Context, itemID, warehouseID string) ([]*entity.Batch, error)

	// Deplete descuenta qty del lote con verificación condicional: falla con
	// domain.ErrInsufficientBatchQuantity si qty > cantidad restante al
	// momento del commit. Deja el lote en DEPLETED cuando llega a 0.
	Deplete(ctx context.Context, batchID string, qty decimal.Decimal) error

	// AdjustQuantity aplica un ajuste de recepción (delta > 0). No revive
	// lotes EXPIRED ni RECALLED; un DEPLETED que recibe cantidad vuelve a ACTIVE.
	AdjustQuantity(ctx context.Context, batchID string, delta decimal.Decimal) error

	// ReconcileExpiry marca EXPIRED todo lote ACTIVE con vencimiento <= asOf.
	// Idempotente; devuelve la cantidad de lotes afectados.
	ReconcileExpiry(ctx context.Context, asOf time.Time) (int64, error)
}
