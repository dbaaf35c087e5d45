package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, item_id, warehouse_id, batch_number, quantity_remaining,
	manufacture_date, expiry_date, status, created_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con
// pool o tx). Los lotes nunca se borran: toda mutación es UPDATE.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create inserta un lote nuevo (alta por recepción).
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (id, item_id, warehouse_id, batch_number, quantity_remaining,
			manufacture_date, expiry_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ItemID, b.WarehouseID, b.BatchNumber, b.QuantityRemaining,
		b.ManufactureDate, b.ExpiryDate, b.Status, b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insertar lote: %w", err)
	}
	return nil
}

// GetByID devuelve el lote o nil si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return b, nil
}

// List superficie de consulta de lotes: bodega, estado y ventana de vencimiento.
func (r *BatchRepo) List(ctx context.Context, filter repository.BatchFilter) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.ItemID != "" {
		query += ` AND item_id = ` + arg(filter.ItemID)
	}
	if filter.WarehouseID != "" {
		query += ` AND warehouse_id = ` + arg(filter.WarehouseID)
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(filter.Status)
	}
	if filter.ExpiresBefore != nil {
		query += ` AND expiry_date IS NOT NULL AND expiry_date <= ` + arg(*filter.ExpiresBefore)
	}
	if filter.ExpiresAfter != nil {
		query += ` AND expiry_date IS NOT NULL AND expiry_date >= ` + arg(*filter.ExpiresAfter)
	}
	query += ` ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar lotes: %w", err)
	}
	defer rows.Close()
	return collectBatches(rows)
}

// ListAllocatable devuelve los lotes ACTIVE con cantidad restante > 0, sin
// orden garantizado: el ordenamiento FEFO/FIFO lo aplica el motor de asignación.
func (r *BatchRepo) ListAllocatable(ctx context.Context, itemID, warehouseID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE item_id = $1 AND warehouse_id = $2
		  AND status = $3 AND quantity_remaining > 0`
	rows, err := r.q.Query(ctx, query, itemID, warehouseID, entity.BatchStatusActive)
	if err != nil {
		return nil, fmt.Errorf("listar lotes asignables: %w", err)
	}
	defer rows.Close()
	return collectBatches(rows)
}

// Deplete descuenta qty con verificación condicional en el mismo UPDATE:
// si la cantidad restante ya no alcanza, ninguna fila matchea y se devuelve
// ErrInsufficientBatchQuantity. El estado pasa a DEPLETED al llegar a 0.
func (r *BatchRepo) Deplete(ctx context.Context, batchID string, qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidBatchQuantity
	}
	query := `
		UPDATE batches
		SET quantity_remaining = quantity_remaining - $2,
		    status = CASE WHEN quantity_remaining - $2 = 0 THEN $3 ELSE status END
		WHERE id = $1
		  AND status = $4
		  AND quantity_remaining >= $2`
	tag, err := r.q.Exec(ctx, query, batchID, qty, entity.BatchStatusDepleted, entity.BatchStatusActive)
	if err != nil {
		return fmt.Errorf("deplete lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientBatchQuantity
	}
	return nil
}

// AdjustQuantity suma un delta de recepción. RECALLED no admite ajustes;
// EXPIRED acepta la cantidad pero no revive; un DEPLETED que recibe stock
// vuelve a ACTIVE.
func (r *BatchRepo) AdjustQuantity(ctx context.Context, batchID string, delta decimal.Decimal) error {
	if delta.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidBatchQuantity
	}
	query := `
		UPDATE batches
		SET quantity_remaining = quantity_remaining + $2,
		    status = CASE WHEN status = $3 THEN $4 ELSE status END
		WHERE id = $1 AND status <> $5`
	tag, err := r.q.Exec(ctx, query, batchID, delta,
		entity.BatchStatusDepleted, entity.BatchStatusActive, entity.BatchStatusRecalled)
	if err != nil {
		return fmt.Errorf("ajustar lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// o no existe, o está RECALLED
		b, err := r.GetByID(ctx, batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		return domain.ErrBatchNotAdjustable
	}
	return nil
}

// ReconcileExpiry marca EXPIRED todo lote ACTIVE ya vencido. Idempotente:
// re-ejecutar no toca lotes ya marcados.
func (r *BatchRepo) ReconcileExpiry(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE batches
		SET status = $1
		WHERE status = $2
		  AND expiry_date IS NOT NULL
		  AND expiry_date <= $3`
	tag, err := r.q.Exec(ctx, query, entity.BatchStatusExpired, entity.BatchStatusActive, asOf)
	if err != nil {
		return 0, fmt.Errorf("conciliar vencimientos: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(
		&b.ID, &b.ItemID, &b.WarehouseID, &b.BatchNumber, &b.QuantityRemaining,
		&b.ManufactureDate, &b.ExpiryDate, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBatches(rows pgx.Rows) ([]*entity.Batch, error) {
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
