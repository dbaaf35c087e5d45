package reorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Reposicion-api/internal/domain"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
	"github.com/jhoicas/Reposicion-api/pkg/logger"
)

// DefaultPurchasingTimeout tope para la llamada al colaborador de compras.
const DefaultPurchasingTimeout = 10 * time.Second

// Orchestrator dueño del ciclo de vida de las alertas de reorden y del
// auto-reorden con creación de orden de compra exactamente-una-vez.
//
// Máquina de estados: PENDING → {ACKNOWLEDGED, PO_CREATED, DISMISSED};
// ACKNOWLEDGED → {PO_CREATED, DISMISSED}. PO_CREATED y DISMISSED son
// terminales; nunca se reabren.
type Orchestrator struct {
	alertRepo   repository.ReorderAlertRepository
	alertTx     AlertTxRunner
	settingRepo repository.ReorderSettingRepository
	purchasing  repository.Purchasing
	log         *logger.Logger
	poTimeout   time.Duration
	now         func() time.Time
}

// NewOrchestrator construye el orquestador. poTimeout <= 0 usa el default.
func NewOrchestrator(
	alertRepo repository.ReorderAlertRepository,
	alertTx AlertTxRunner,
	settingRepo repository.ReorderSettingRepository,
	purchasing repository.Purchasing,
	log *logger.Logger,
	poTimeout time.Duration,
) *Orchestrator {
	if poTimeout <= 0 {
		poTimeout = DefaultPurchasingTimeout
	}
	return &Orchestrator{
		alertRepo:   alertRepo,
		alertTx:     alertTx,
		settingRepo: settingRepo,
		purchasing:  purchasing,
		log:         log,
		poTimeout:   poTimeout,
		now:         time.Now,
	}
}

// HandleEvaluation procesa el resultado de una evaluación: si el ítem está
// bajo reorden y no hay alerta abierta para el (ítem, bodega), crea una en
// PENDING; si la política tiene auto-reorden y proveedor preferido, intenta
// la transición protegida a PO_CREATED. Una falla de compras deja la alerta
// en su estado no terminal y se reintenta en la próxima pasada del barrido.
func (o *Orchestrator) HandleEvaluation(ctx context.Context, result EvaluationResult) (*entity.ReorderAlert, error) {
	if !result.BelowReorder {
		return nil, nil
	}

	alert, err := o.ensureOpenAlert(ctx, result)
	if err != nil {
		return nil, err
	}

	if result.AutoReorder && result.VendorID != "" {
		if _, err := o.CreatePurchaseOrder(ctx, alert.ID); err != nil {
			switch {
			case errors.Is(err, domain.ErrPurchasingUnavailable):
				// Recuperable: la transición no se confirmó, el próximo
				// barrido reintenta sin riesgo de duplicar la orden.
				o.log.Warn().Err(err).
					Str("alert_id", alert.ID).
					Str("item_id", result.ItemID).
					Msg("compras no disponible; se reintentará en el próximo barrido")
			case errors.Is(err, domain.ErrAlertClosed):
				// Otro proceso completó la transición primero.
			default:
				return alert, err
			}
		}
	}
	return alert, nil
}

// ensureOpenAlert devuelve la alerta abierta del (ítem, bodega), creándola
// en PENDING si no existe. El índice único parcial de la base resuelve la
// carrera entre procesos: un duplicado perdido no es un error.
func (o *Orchestrator) ensureOpenAlert(ctx context.Context, result EvaluationResult) (*entity.ReorderAlert, error) {
	existing, err := o.alertRepo.FindOpen(ctx, result.ItemID, result.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("buscar alerta abierta: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	alert := &entity.ReorderAlert{
		ID:           uuid.New().String(),
		ItemID:       result.ItemID,
		WarehouseID:  result.WarehouseID,
		Status:       entity.AlertStatusPending,
		SuggestedQty: result.SuggestedQty,
		CreatedAt:    o.now(),
	}
	if err := o.alertRepo.Create(ctx, alert); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return o.alertRepo.FindOpen(ctx, result.ItemID, result.WarehouseID)
		}
		return nil, fmt.Errorf("crear alerta: %w", err)
	}
	o.log.Info().
		Str("alert_id", alert.ID).
		Str("item_id", alert.ItemID).
		Str("warehouse_id", alert.WarehouseID).
		Str("suggested_qty", alert.SuggestedQty.String()).
		Msg("alerta de reorden creada")
	return alert, nil
}

// CreatePurchaseOrder ejecuta la transición protegida PENDING|ACKNOWLEDGED →
// PO_CREATED. Dentro de una única transacción: bloquea la fila de la alerta
// (el id de la alerta actúa como clave de idempotencia), verifica que siga
// abierta, llama a compras con timeout acotado y recién entonces confirma el
// cambio de estado. Si compras falla, la transacción se revierte y la alerta
// queda intacta, por lo que un reintento posterior exitoso no duplica la
// orden: a lo sumo una transición PO_CREATED por alerta, incluso bajo
// invocaciones concurrentes o repetidas.
func (o *Orchestrator) CreatePurchaseOrder(ctx context.Context, alertID string) (string, error) {
	if alertID == "" {
		return "", domain.ErrInvalidInput
	}

	var poID string
	err := o.alertTx.RunAlerts(ctx, func(alertRepo repository.ReorderAlertRepository) error {
		alert, err := alertRepo.GetByIDForUpdate(ctx, alertID)
		if err != nil {
			return err
		}
		if alert == nil {
			return domain.ErrNotFound
		}
		if !alert.IsOpen() {
			return domain.ErrAlertClosed
		}

		setting, err := o.settingRepo.GetByItem(ctx, alert.ItemID)
		if err != nil {
			return fmt.Errorf("política de reorden: %w", err)
		}
		if setting == nil || setting.PreferredVendorID == "" {
			return fmt.Errorf("alerta %s sin proveedor preferido: %w", alertID, domain.ErrInvalidInput)
		}

		poCtx, cancel := context.WithTimeout(ctx, o.poTimeout)
		defer cancel()
		poID, err = o.purchasing.CreateDraftPurchaseOrder(poCtx, repository.PurchaseOrderRequest{
			VendorID:    setting.PreferredVendorID,
			ItemID:      alert.ItemID,
			WarehouseID: alert.WarehouseID,
			Quantity:    alert.SuggestedQty,
		})
		if err != nil {
			// Timeout o error se tratan igual: la transición no se confirma.
			return fmt.Errorf("crear orden de compra: %v: %w", err, domain.ErrPurchasingUnavailable)
		}

		now := o.now()
		alert.Status = entity.AlertStatusPOCreated
		alert.PurchaseOrderID = poID
		alert.ResolvedAt = &now
		return alertRepo.UpdateStatus(ctx, alert)
	})
	if err != nil {
		return "", err
	}

	o.log.Info().
		Str("alert_id", alertID).
		Str("purchase_order_id", poID).
		Msg("orden de compra borrador creada")
	return poID, nil
}

// Acknowledge transición manual PENDING → ACKNOWLEDGED.
func (o *Orchestrator) Acknowledge(ctx context.Context, alertID string) error {
	return o.manualTransition(ctx, alertID, entity.AlertStatusAcknowledged)
}

// Dismiss transición manual PENDING|ACKNOWLEDGED → DISMISSED (terminal).
func (o *Orchestrator) Dismiss(ctx context.Context, alertID string) error {
	return o.manualTransition(ctx, alertID, entity.AlertStatusDismissed)
}

func (o *Orchestrator) manualTransition(ctx context.Context, alertID, target string) error {
	if alertID == "" {
		return domain.ErrInvalidInput
	}
	return o.alertTx.RunAlerts(ctx, func(alertRepo repository.ReorderAlertRepository) error {
		alert, err := alertRepo.GetByIDForUpdate(ctx, alertID)
		if err != nil {
			return err
		}
		if alert == nil {
			return domain.ErrNotFound
		}
		if !alert.IsOpen() {
			return domain.ErrAlertClosed
		}
		alert.Status = target
		if target == entity.AlertStatusDismissed {
			now := o.now()
			alert.ResolvedAt = &now
		}
		return alertRepo.UpdateStatus(ctx, alert)
	})
}
