package reorder

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// DemandSource demanda promedio diaria de un ítem, provista por el
// pronosticador. Demanda cero es un valor válido (centinela de cobertura).
type DemandSource interface {
	AverageDailyDemand(ctx context.Context, itemID, warehouseID string, windowDays int) (decimal.Decimal, error)
}

// AlertTxRunner ejecuta una función dentro de una transacción de BD con un
// repositorio de alertas atado a esa tx. Lo usa el orquestador para la
// transición protegida a PO_CREATED: el cambio de estado solo se confirma
// si la llamada a compras tuvo éxito.
type AlertTxRunner interface {
	RunAlerts(ctx context.Context, fn func(alertRepo repository.ReorderAlertRepository) error) error
}
