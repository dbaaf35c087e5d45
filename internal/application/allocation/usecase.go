package allocation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain"
	"github.com/jhoicas/Reposicion-api/internal/domain/inventory"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// UseCase motor de asignación de lotes: planifica el consumo con orden
// FEFO/FIFO y lo compromete en una transacción atómica. Los commits del
// mismo (ítem, bodega) se serializan entre sí; claves distintas avanzan en
// paralelo sin bloquearse.
type UseCase struct {
	batchRepo repository.BatchRepository
	txRunner  TxRunner
	locks     keyedMutex
}

// NewUseCase construye el motor de asignación.
func NewUseCase(batchRepo repository.BatchRepository, txRunner TxRunner) *UseCase {
	return &UseCase{batchRepo: batchRepo, txRunner: txRunner}
}

// CommitResult resultado de un commit de asignación: las líneas aplicadas y
// el faltante. Shortfall > 0 no es un error; el caller decide el backorder.
type CommitResult struct {
	Plan      inventory.AllocationPlan
	Allocated decimal.Decimal
	Shortfall decimal.Decimal
	Retried   bool // hubo un replanteo por cambio concurrente
}

// Plan calcula el plan de asignación sin mutar nada: lee los lotes
// asignables y aplica el ordenamiento del método pedido.
func (uc *UseCase) Plan(ctx context.Context, itemID, warehouseID string, requiredQty decimal.Decimal, method string) (inventory.AllocationPlan, error) {
	if err := validateRequest(itemID, warehouseID, requiredQty, method); err != nil {
		return inventory.AllocationPlan{}, err
	}
	batches, err := uc.batchRepo.ListAllocatable(ctx, itemID, warehouseID)
	if err != nil {
		return inventory.AllocationPlan{}, fmt.Errorf("listar lotes asignables: %w", err)
	}
	return inventory.PlanAllocation(batches, itemID, warehouseID, requiredQty, method), nil
}

// Commit aplica cada línea del plan vía Deplete dentro de una única
// transacción, respetando exactamente el orden calculado. Si alguna línea
// falla por un cambio concurrente, la transacción completa se revierte, el
// plan se recalcula una sola vez contra el estado fresco y se reintenta; una
// segunda falla devuelve ErrAllocationConflict (el caller debe re-solicitar).
func (uc *UseCase) Commit(ctx context.Context, plan inventory.AllocationPlan) (CommitResult, error) {
	if err := validateRequest(plan.ItemID, plan.WarehouseID, plan.RequiredQty, plan.Method); err != nil {
		return CommitResult{}, err
	}

	unlock := uc.locks.lock(plan.ItemID + "|" + plan.WarehouseID)
	defer unlock()

	err := uc.apply(ctx, plan)
	if err == nil {
		return CommitResult{Plan: plan, Allocated: plan.Allocated(), Shortfall: plan.Shortfall}, nil
	}
	if !errors.Is(err, domain.ErrInsufficientBatchQuantity) {
		return CommitResult{}, err
	}

	// Replanteo único contra estado fresco.
	fresh, err := uc.Plan(ctx, plan.ItemID, plan.WarehouseID, plan.RequiredQty, plan.Method)
	if err != nil {
		return CommitResult{}, err
	}
	if err := uc.apply(ctx, fresh); err != nil {
		if errors.Is(err, domain.ErrInsufficientBatchQuantity) {
			return CommitResult{}, fmt.Errorf("commit tras replanteo: %w", domain.ErrAllocationConflict)
		}
		return CommitResult{}, err
	}
	return CommitResult{Plan: fresh, Allocated: fresh.Allocated(), Shortfall: fresh.Shortfall, Retried: true}, nil
}

// AllocateAndCommit atajo planificar + comprometer para la capa HTTP.
func (uc *UseCase) AllocateAndCommit(ctx context.Context, itemID, warehouseID string, requiredQty decimal.Decimal, method string) (CommitResult, error) {
	plan, err := uc.Plan(ctx, itemID, warehouseID, requiredQty, method)
	if err != nil {
		return CommitResult{}, err
	}
	return uc.Commit(ctx, plan)
}

// apply ejecuta las líneas del plan en orden dentro de una transacción.
func (uc *UseCase) apply(ctx context.Context, plan inventory.AllocationPlan) error {
	if len(plan.Lines) == 0 {
		return nil
	}
	return uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository) error {
		for _, line := range plan.Lines {
			if err := batchRepo.Deplete(ctx, line.BatchID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func validateRequest(itemID, warehouseID string, requiredQty decimal.Decimal, method string) error {
	if itemID == "" || warehouseID == "" {
		return domain.ErrInvalidInput
	}
	if requiredQty.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if method != inventory.MethodFEFO && method != inventory.MethodFIFO {
		return domain.ErrInvalidInput
	}
	return nil
}

// keyedMutex serializa secciones críticas por clave. El candado de proceso
// acota la contención local; la garantía multi-proceso la da la verificación
// condicional de Deplete en la base.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
