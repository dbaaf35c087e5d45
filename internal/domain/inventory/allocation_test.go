package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func batch(id string, qty int64, expiry *time.Time, createdAt time.Time) *entity.Batch {
	return &entity.Batch{
		ID:                id,
		ItemID:            "item-1",
		WarehouseID:       "wh-1",
		BatchNumber:       "BN-" + id,
		QuantityRemaining: decimal.NewFromInt(qty),
		ExpiryDate:        expiry,
		Status:            entity.BatchStatusActive,
		CreatedAt:         createdAt,
	}
}

func TestPlanAllocation_FEFOConsumeElQueVencePrimero(t *testing.T) {
	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	// Lote A vence antes que B: FEFO debe agotar A antes de tocar B.
	a := batch("a", 20, date("2025-01-01"), base.Add(48*time.Hour))
	b := batch("b", 30, date("2025-02-01"), base)

	plan := PlanAllocation([]*entity.Batch{b, a}, "item-1", "wh-1", decimal.NewFromInt(35), MethodFEFO)

	require.Len(t, plan.Lines, 2)
	assert.Equal(t, "a", plan.Lines[0].BatchID)
	assert.True(t, plan.Lines[0].Quantity.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "b", plan.Lines[1].BatchID)
	assert.True(t, plan.Lines[1].Quantity.Equal(decimal.NewFromInt(15)))
	assert.True(t, plan.Shortfall.IsZero())
}

func TestPlanAllocation_FIFOOrdenaPorCreacion(t *testing.T) {
	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	// El más nuevo vence antes, pero FIFO solo mira la fecha de recepción.
	viejo := batch("viejo", 10, date("2025-06-01"), base)
	nuevo := batch("nuevo", 10, date("2025-01-01"), base.Add(time.Hour))

	plan := PlanAllocation([]*entity.Batch{nuevo, viejo}, "item-1", "wh-1", decimal.NewFromInt(15), MethodFIFO)

	require.Len(t, plan.Lines, 2)
	assert.Equal(t, "viejo", plan.Lines[0].BatchID)
	assert.Equal(t, "nuevo", plan.Lines[1].BatchID)
}

func TestPlanAllocation_EmpateDeVencimientoDesempataPorCreacion(t *testing.T) {
	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	primero := batch("z-primero", 5, date("2025-03-01"), base)
	segundo := batch("a-segundo", 5, date("2025-03-01"), base.Add(time.Minute))

	plan := PlanAllocation([]*entity.Batch{segundo, primero}, "item-1", "wh-1", decimal.NewFromInt(6), MethodFEFO)

	require.Len(t, plan.Lines, 2)
	assert.Equal(t, "z-primero", plan.Lines[0].BatchID, "a igual vencimiento gana el stock más antiguo")
}

func TestPlanAllocation_SinVencimientoVaAlFinalEnFEFO(t *testing.T) {
	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	sinVto := batch("sin-vto", 50, nil, base)
	conVto := batch("con-vto", 10, date("2025-01-15"), base.Add(time.Hour))

	plan := PlanAllocation([]*entity.Batch{sinVto, conVto}, "item-1", "wh-1", decimal.NewFromInt(20), MethodFEFO)

	require.Len(t, plan.Lines, 2)
	assert.Equal(t, "con-vto", plan.Lines[0].BatchID)
	assert.Equal(t, "sin-vto", plan.Lines[1].BatchID)
}

func TestPlanAllocation_ShortfallEsResultadoNormal(t *testing.T) {
	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	a := batch("a", 20, date("2025-01-01"), base)

	plan := PlanAllocation([]*entity.Batch{a}, "item-1", "wh-1", decimal.NewFromInt(35), MethodFEFO)

	require.Len(t, plan.Lines, 1)
	assert.True(t, plan.Allocated().Equal(decimal.NewFromInt(20)))
	assert.True(t, plan.Shortfall.Equal(decimal.NewFromInt(15)))
}

func TestPlanAllocation_IgnoraLotesNoAsignables(t *testing.T) {
	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	vencido := batch("vencido", 40, date("2024-01-01"), base)
	vencido.Status = entity.BatchStatusExpired
	retirado := batch("retirado", 40, date("2025-05-01"), base)
	retirado.Status = entity.BatchStatusRecalled
	agotado := batch("agotado", 0, date("2025-05-01"), base)
	agotado.Status = entity.BatchStatusDepleted
	activo := batch("activo", 10, date("2025-05-01"), base)

	plan := PlanAllocation([]*entity.Batch{vencido, retirado, agotado, activo}, "item-1", "wh-1", decimal.NewFromInt(25), MethodFEFO)

	require.Len(t, plan.Lines, 1)
	assert.Equal(t, "activo", plan.Lines[0].BatchID)
	assert.True(t, plan.Shortfall.Equal(decimal.NewFromInt(15)))
}

func TestPlanAllocation_CantidadNoPositiva(t *testing.T) {
	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	a := batch("a", 20, nil, base)

	plan := PlanAllocation([]*entity.Batch{a}, "item-1", "wh-1", decimal.Zero, MethodFEFO)

	assert.Empty(t, plan.Lines)
	assert.True(t, plan.Shortfall.IsZero())
}
