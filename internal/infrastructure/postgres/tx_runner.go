package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Reposicion-api/internal/application/allocation"
	"github.com/jhoicas/Reposicion-api/internal/application/reorder"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// Ensure TxRunner implements allocation.TxRunner and reorder.AlertTxRunner.
var _ allocation.TxRunner = (*TxRunner)(nil)
var _ reorder.AlertTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con un repositorio de lotes atado a
// la tx y hace Commit o Rollback. Si fn falla, ningún descuento de lote queda
// aplicado.
func (r *TxRunner) Run(ctx context.Context, fn func(batchRepo repository.BatchRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBatchRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAlerts inicia una transacción con el repositorio de alertas atado a la
// tx (para la transición check-and-set de CreatePurchaseOrder).
func (r *TxRunner) RunAlerts(ctx context.Context, fn func(alertRepo repository.ReorderAlertRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewReorderAlertRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
