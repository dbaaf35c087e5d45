package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
)

// Métodos de ordenamiento para la asignación de lotes.
const (
	MethodFEFO = "FEFO" // primero el que vence antes
	MethodFIFO = "FIFO" // primero el recibido antes
)

// AllocationLine consumo planificado sobre un lote concreto.
type AllocationLine struct {
	BatchID  string
	Quantity decimal.Decimal
}

// AllocationPlan resultado de planificar una asignación. Shortfall > 0 es un
// resultado normal de cumplimiento parcial, no un error: el caller decide si
// genera backorder.
type AllocationPlan struct {
	ItemID      string
	WarehouseID string
	Method      string
	RequiredQty decimal.Decimal
	Lines       []AllocationLine
	Shortfall   decimal.Decimal
}

// Allocated devuelve la cantidad total cubierta por las líneas del plan.
func (p AllocationPlan) Allocated() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Quantity)
	}
	return total
}

// PlanAllocation planifica el consumo de lotes para una cantidad requerida
// (servicio de dominio, puro). Considera solo lotes ACTIVE con restante > 0,
// los ordena según el método y consume en forma voraz min(restante, faltante)
// hasta satisfacer la cantidad o agotar los lotes.
//
// Orden FEFO: vencimiento ascendente, lotes sin vencimiento al final.
// Orden FIFO: fecha de creación ascendente. En ambos casos, los empates se
// resuelven por creación ascendente (stock más antiguo primero) y, en última
// instancia, por ID, para que el plan sea determinístico y reproducible.
func PlanAllocation(batches []*entity.Batch, itemID, warehouseID string, requiredQty decimal.Decimal, method string) AllocationPlan {
	plan := AllocationPlan{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Method:      method,
		RequiredQty: requiredQty,
		Shortfall:   decimal.Zero,
	}
	if requiredQty.LessThanOrEqual(decimal.Zero) {
		return plan
	}

	eligible := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.IsAllocatable() {
			eligible = append(eligible, b)
		}
	}
	sortBatches(eligible, method)

	remaining := requiredQty
	for _, b := range eligible {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(b.QuantityRemaining, remaining)
		plan.Lines = append(plan.Lines, AllocationLine{BatchID: b.ID, Quantity: take})
		remaining = remaining.Sub(take)
	}
	if remaining.GreaterThan(decimal.Zero) {
		plan.Shortfall = remaining
	}
	return plan
}

func sortBatches(batches []*entity.Batch, method string) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if method == MethodFEFO {
			switch {
			case a.ExpiryDate == nil && b.ExpiryDate == nil:
				// sin vencimiento: decide la antigüedad
			case a.ExpiryDate == nil:
				return false
			case b.ExpiryDate == nil:
				return true
			case !a.ExpiryDate.Equal(*b.ExpiryDate):
				return a.ExpiryDate.Before(*b.ExpiryDate)
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
