package reorder

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reposicion-api/internal/domain"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func evaluatorFixture(setting *entity.ReorderSetting, position repository.StockPosition, avgDaily decimal.Decimal) *Evaluator {
	settings := &fakeSettings{byItem: map[string]*entity.ReorderSetting{}}
	if setting != nil {
		settings.byItem[setting.ItemID] = setting
	}
	return NewEvaluator(
		settings,
		&fakeLedger{positions: map[string]repository.StockPosition{"item-1|wh-1": position}},
		&fakeItems{items: map[string]*repository.ItemInfo{"item-1": {
			ID:              "item-1",
			SKU:             "SKU-1",
			Name:            "Ítem de prueba",
			CostPrice:       d(3),
			ReorderLevel:    d(2),
			ReorderQuantity: d(1),
		}}},
		&fakeDemand{avg: map[string]decimal.Decimal{"item-1|wh-1": avgDaily}},
		30,
	)
}

func TestEvaluate_EjemploDeReferencia(t *testing.T) {
	// reorderLevel=10, safetyStock=5, leadTime=7, demanda diaria=2, stock=8
	// → bajo reorden, cobertura 4 días, sugerido max(reorderQty, 5+14−8=11).
	setting := &entity.ReorderSetting{
		ItemID:          "item-1",
		ReorderLevel:    d(10),
		ReorderQuantity: d(6),
		SafetyStock:     d(5),
		LeadTimeDays:    7,
	}
	ev := evaluatorFixture(setting, repository.StockPosition{OnHand: d(8)}, d(2))

	res, err := ev.Evaluate(context.Background(), "item-1", "wh-1")
	require.NoError(t, err)

	assert.True(t, res.BelowReorder)
	assert.True(t, res.CoverageDays.Equal(d(4)), "cobertura esperada 4, obtuve %s", res.CoverageDays)
	assert.True(t, res.SuggestedQty.Equal(d(11)))
	assert.True(t, res.EstimatedCost.Equal(d(33)), "11 × costo 3")
}

func TestEvaluate_SugeridoNuncaBajoReorderQuantity(t *testing.T) {
	setting := &entity.ReorderSetting{
		ItemID:          "item-1",
		ReorderLevel:    d(10),
		ReorderQuantity: d(50),
		SafetyStock:     d(5),
		LeadTimeDays:    7,
	}
	ev := evaluatorFixture(setting, repository.StockPosition{OnHand: d(8)}, d(2))

	res, err := ev.Evaluate(context.Background(), "item-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, res.SuggestedQty.Equal(d(50)), "manda reorderQuantity cuando supera la necesidad")
}

func TestEvaluate_SugeridoNuncaNegativo(t *testing.T) {
	// Stock sobrado: la necesidad da negativa y se acota en 0; el sugerido
	// queda en reorderQuantity (el piso).
	setting := &entity.ReorderSetting{
		ItemID:          "item-1",
		ReorderLevel:    d(10),
		ReorderQuantity: d(0),
		SafetyStock:     d(5),
		LeadTimeDays:    7,
	}
	ev := evaluatorFixture(setting, repository.StockPosition{OnHand: d(500)}, d(2))

	res, err := ev.Evaluate(context.Background(), "item-1", "wh-1")
	require.NoError(t, err)
	assert.False(t, res.BelowReorder)
	assert.False(t, res.SuggestedQty.IsNegative())
	assert.True(t, res.SuggestedQty.IsZero())
}

func TestEvaluate_DemandaCeroUsaCentinela(t *testing.T) {
	setting := &entity.ReorderSetting{
		ItemID:          "item-1",
		ReorderLevel:    d(10),
		ReorderQuantity: d(5),
	}
	ev := evaluatorFixture(setting, repository.StockPosition{OnHand: d(8)}, decimal.Zero)

	res, err := ev.Evaluate(context.Background(), "item-1", "wh-1")
	require.NoError(t, err, "demanda cero jamás divide")
	assert.True(t, res.CoverageDays.Equal(d(SentinelNoDemandDays)))
}

func TestEvaluate_PosicionNetaDeComprometidoYTransito(t *testing.T) {
	setting := &entity.ReorderSetting{
		ItemID:          "item-1",
		ReorderLevel:    d(10),
		ReorderQuantity: d(5),
	}
	// onHand 20 − committed 15 + incoming 3 = 8 → bajo reorden.
	ev := evaluatorFixture(setting, repository.StockPosition{
		OnHand:    d(20),
		Committed: d(15),
		Incoming:  d(3),
	}, d(1))

	res, err := ev.Evaluate(context.Background(), "item-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, res.CurrentStock.Equal(d(8)))
	assert.True(t, res.BelowReorder)
}

func TestEvaluate_SinPoliticaCaeAlMaestroDeItems(t *testing.T) {
	// Sin fila de ReorderSetting: umbrales del ítem (nivel 2, cantidad 1).
	ev := evaluatorFixture(nil, repository.StockPosition{OnHand: d(1)}, d(1))

	res, err := ev.Evaluate(context.Background(), "item-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, res.BelowReorder)
	assert.True(t, res.ReorderLevel.Equal(d(2)))
	assert.True(t, res.SuggestedQty.Equal(d(1)))
	assert.False(t, res.AutoReorder)
}

func TestEvaluate_ItemInexistente(t *testing.T) {
	ev := evaluatorFixture(nil, repository.StockPosition{}, decimal.Zero)

	_, err := ev.Evaluate(context.Background(), "item-x", "wh-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEvaluate_ErrorDePoliticaSePropaga(t *testing.T) {
	// Un fallo del almacén de políticas no debe degradar al respaldo del
	// maestro de ítems: el resultado sería falso (p. ej. stock 8 contra una
	// política real con nivel 100 pasaría desapercibido).
	errAlmacen := errors.New("conexión perdida")
	ev := NewEvaluator(
		&fakeSettings{err: errAlmacen},
		&fakeLedger{positions: map[string]repository.StockPosition{"item-1|wh-1": {OnHand: d(8)}}},
		&fakeItems{items: map[string]*repository.ItemInfo{"item-1": {
			ID:              "item-1",
			SKU:             "SKU-1",
			Name:            "Ítem de prueba",
			CostPrice:       d(3),
			ReorderLevel:    d(2),
			ReorderQuantity: d(1),
		}}},
		&fakeDemand{avg: map[string]decimal.Decimal{"item-1|wh-1": d(2)}},
		30,
	)

	res, err := ev.Evaluate(context.Background(), "item-1", "wh-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, errAlmacen)
	assert.False(t, res.BelowReorder)
	assert.Empty(t, res.ItemID)
}

func TestEvaluate_LimiteExactoEsBajoReorden(t *testing.T) {
	// currentStock == reorderLevel cuenta como bajo reorden (<=).
	setting := &entity.ReorderSetting{
		ItemID:          "item-1",
		ReorderLevel:    d(10),
		ReorderQuantity: d(5),
	}
	ev := evaluatorFixture(setting, repository.StockPosition{OnHand: d(10)}, d(1))

	res, err := ev.Evaluate(context.Background(), "item-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, res.BelowReorder)
}
