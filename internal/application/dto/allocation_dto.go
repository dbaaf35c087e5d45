package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/application/allocation"
	"github.com/jhoicas/Reposicion-api/internal/domain/inventory"
)

// AllocateRequest body para POST /api/allocations. Method admite FEFO o FIFO
// (vacío = FEFO). PlanOnly calcula el plan sin comprometer lotes.
type AllocateRequest struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Method      string          `json:"method,omitempty"`
	PlanOnly    bool            `json:"plan_only,omitempty"`
}

// AllocationLineDTO línea de un plan: cuánto consumir de cada lote.
type AllocationLineDTO struct {
	BatchID  string          `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// AllocationPlanDTO plan de asignación (comprometido o solo planificado).
type AllocationPlanDTO struct {
	ItemID      string              `json:"item_id"`
	WarehouseID string              `json:"warehouse_id"`
	Method      string              `json:"method"`
	RequiredQty decimal.Decimal     `json:"required_qty"`
	Lines       []AllocationLineDTO `json:"lines"`
	Allocated   decimal.Decimal     `json:"allocated"`
	Shortfall   decimal.Decimal     `json:"shortfall"`
	Committed   bool                `json:"committed"`
	Retried     bool                `json:"retried,omitempty"`
}

// ToAllocationPlanDTO convierte un plan no comprometido.
func ToAllocationPlanDTO(p inventory.AllocationPlan) AllocationPlanDTO {
	return AllocationPlanDTO{
		ItemID:      p.ItemID,
		WarehouseID: p.WarehouseID,
		Method:      p.Method,
		RequiredQty: p.RequiredQty,
		Lines:       toLineDTOs(p.Lines),
		Allocated:   p.Allocated(),
		Shortfall:   p.Shortfall,
		Committed:   false,
	}
}

// ToCommitResultDTO convierte el resultado de un commit de asignación.
func ToCommitResultDTO(r allocation.CommitResult) AllocationPlanDTO {
	return AllocationPlanDTO{
		ItemID:      r.Plan.ItemID,
		WarehouseID: r.Plan.WarehouseID,
		Method:      r.Plan.Method,
		RequiredQty: r.Plan.RequiredQty,
		Lines:       toLineDTOs(r.Plan.Lines),
		Allocated:   r.Allocated,
		Shortfall:   r.Shortfall,
		Committed:   true,
		Retried:     r.Retried,
	}
}

func toLineDTOs(lines []inventory.AllocationLine) []AllocationLineDTO {
	out := make([]AllocationLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, AllocationLineDTO{BatchID: l.BatchID, Quantity: l.Quantity})
	}
	return out
}
