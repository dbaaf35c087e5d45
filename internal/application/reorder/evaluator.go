package reorder

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// SentinelNoDemandDays cobertura reportada cuando la demanda promedio es
// cero: una constante finita grande, ordenable y mostrable, en lugar de un
// infinito irrepresentable.
const SentinelNoDemandDays = 999

// DefaultDemandWindowDays ventana histórica por defecto para la demanda
// promedio diaria del evaluador.
const DefaultDemandWindowDays = 90

// EvaluationResult resultado de evaluar la posición de reorden de un ítem.
type EvaluationResult struct {
	ItemID        string
	WarehouseID   string
	SKU           string
	ItemName      string
	CurrentStock  decimal.Decimal
	ReorderLevel  decimal.Decimal
	BelowReorder  bool
	AvgDailyUse   decimal.Decimal
	CoverageDays  decimal.Decimal
	SuggestedQty  decimal.Decimal
	EstimatedCost decimal.Decimal
	AutoReorder   bool
	VendorID      string
	LeadTimeDays  int
}

// Evaluator combina posición de stock, política de reorden y demanda
// pronosticada para decidir "bajo reorden" y la cantidad sugerida.
type Evaluator struct {
	settingRepo repository.ReorderSettingRepository
	ledger      repository.StockLedgerReader
	items       repository.ItemMaster
	demand      DemandSource
	windowDays  int
}

// NewEvaluator construye el evaluador. demandWindowDays <= 0 usa el default.
func NewEvaluator(
	settingRepo repository.ReorderSettingRepository,
	ledger repository.StockLedgerReader,
	items repository.ItemMaster,
	demand DemandSource,
	demandWindowDays int,
) *Evaluator {
	if demandWindowDays <= 0 {
		demandWindowDays = DefaultDemandWindowDays
	}
	return &Evaluator{
		settingRepo: settingRepo,
		ledger:      ledger,
		items:       items,
		demand:      demand,
		windowDays:  demandWindowDays,
	}
}

// Evaluate calcula la posición de reorden de un (ítem, bodega):
//
//	currentStock  = físico − comprometido + en tránsito
//	belowReorder  = currentStock <= nivel de reorden
//	coverageDays  = currentStock / demanda diaria (o centinela si demanda 0)
//	suggestedQty  = max(reorderQuantity, safetyStock + ceil(demanda×leadTime) − currentStock)
//	               acotada en 0 por abajo y nunca menor a reorderQuantity
//	estimatedCost = suggestedQty × costo del ítem
//
// La política ReorderSetting manda; sin fila, se usan los umbrales del
// maestro de ítems (sin safety stock ni lead time).
func (e *Evaluator) Evaluate(ctx context.Context, itemID, warehouseID string) (EvaluationResult, error) {
	if itemID == "" || warehouseID == "" {
		return EvaluationResult{}, domain.ErrInvalidInput
	}

	item, err := e.items.GetItem(ctx, itemID)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("maestro de ítems: %w", err)
	}
	if item == nil {
		return EvaluationResult{}, domain.ErrNotFound
	}

	setting, err := e.effectiveSetting(ctx, item)
	if err != nil {
		return EvaluationResult{}, err
	}

	position, err := e.ledger.GetPosition(ctx, itemID, warehouseID)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("posición de stock: %w", err)
	}
	currentStock := position.Current()

	avgDaily, err := e.demand.AverageDailyDemand(ctx, itemID, warehouseID, e.windowDays)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("demanda promedio: %w", err)
	}

	coverage := decimal.NewFromInt(SentinelNoDemandDays)
	if avgDaily.GreaterThan(decimal.Zero) {
		coverage = currentStock.Div(avgDaily).Round(1)
	}

	// Necesidad por demanda durante el lead time, acotada en 0.
	leadDemand := avgDaily.Mul(decimal.NewFromInt(int64(setting.LeadTimeDays))).Ceil()
	need := setting.SafetyStock.Add(leadDemand).Sub(currentStock)
	if need.LessThan(decimal.Zero) {
		need = decimal.Zero
	}
	suggested := decimal.Max(setting.ReorderQuantity, need)
	if suggested.LessThan(decimal.Zero) {
		suggested = decimal.Zero
	}

	return EvaluationResult{
		ItemID:        itemID,
		WarehouseID:   warehouseID,
		SKU:           item.SKU,
		ItemName:      item.Name,
		CurrentStock:  currentStock,
		ReorderLevel:  setting.ReorderLevel,
		BelowReorder:  currentStock.LessThanOrEqual(setting.ReorderLevel),
		AvgDailyUse:   avgDaily,
		CoverageDays:  coverage,
		SuggestedQty:  suggested,
		EstimatedCost: suggested.Mul(item.CostPrice),
		AutoReorder:   setting.AutoReorder,
		VendorID:      setting.PreferredVendorID,
		LeadTimeDays:  setting.LeadTimeDays,
	}, nil
}

// effectiveSetting devuelve la política vigente: la fila de ReorderSetting
// si existe; sin fila (nil, nil), los umbrales de respaldo del maestro de
// ítems. Un error del almacén se propaga: evaluar con la política de
// respaldo cuando la real no se pudo leer daría un resultado falso.
func (e *Evaluator) effectiveSetting(ctx context.Context, item *repository.ItemInfo) (entity.ReorderSetting, error) {
	setting, err := e.settingRepo.GetByItem(ctx, item.ID)
	if err != nil {
		return entity.ReorderSetting{}, fmt.Errorf("política de reorden: %w", err)
	}
	if setting != nil {
		return *setting, nil
	}
	return entity.ReorderSetting{
		ItemID:          item.ID,
		ReorderLevel:    item.ReorderLevel,
		ReorderQuantity: item.ReorderQuantity,
		SafetyStock:     decimal.Zero,
		LeadTimeDays:    0,
	}, nil
}
