package repository

import (
	"context"

	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
)

// ReorderCandidate par (ítem, bodega) con política de reorden configurada,
// candidato a evaluación en cada pasada del barrido.
type ReorderCandidate struct {
	ItemID      string
	WarehouseID string
}

// ReorderSettingRepository puerto de lectura de políticas de reposición.
// Las políticas son propiedad de configuración; este motor solo las lee.
type ReorderSettingRepository interface {
	// GetByItem devuelve la política del ítem o nil si no hay fila
	// (el evaluador cae a los umbrales del maestro de ítems).
	GetByItem(ctx context.Context, itemID string) (*entity.ReorderSetting, error)

	// ListCandidates devuelve los pares (ítem, bodega) a evaluar.
	// warehouseID vacío = todas las bodegas con posición de stock.
	ListCandidates(ctx context.Context, warehouseID string) ([]ReorderCandidate, error)
}

// AlertStatusCounts conteo de alertas por estado, para el resumen del reporte.
type AlertStatusCounts struct {
	Pending      int
	Acknowledged int
	POCreated    int
	Dismissed    int
}

// ReorderAlertRepository puerto de persistencia de alertas de reorden.
type ReorderAlertRepository interface {
	// Create inserta la alerta; devuelve domain.ErrDuplicate si ya existe
	// una alerta abierta para el mismo (ítem, bodega) — el índice único
	// parcial de la base es la garantía, no la memoria del proceso.
	Create(ctx context.Context, alert *entity.ReorderAlert) error

	GetByID(ctx context.Context, id string) (*entity.ReorderAlert, error)

	// GetByIDForUpdate obtiene la alerta bloqueando la fila (SELECT FOR
	// UPDATE); solo tiene sentido dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.ReorderAlert, error)

	// FindOpen devuelve la alerta no terminal del (ítem, bodega) o nil.
	FindOpen(ctx context.Context, itemID, warehouseID string) (*entity.ReorderAlert, error)

	// UpdateStatus persiste estado, ResolvedAt y PurchaseOrderID.
	UpdateStatus(ctx context.Context, alert *entity.ReorderAlert) error

	// List devuelve alertas filtradas por estado (vacío = todas), más reciente primero.
	List(ctx context.Context, status string, limit int) ([]*entity.ReorderAlert, error)

	CountByStatus(ctx context.Context) (AlertStatusCounts, error)
}
