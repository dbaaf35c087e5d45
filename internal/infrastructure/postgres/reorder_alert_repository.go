package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Reposicion-api/internal/domain"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

var _ repository.ReorderAlertRepository = (*ReorderAlertRepo)(nil)

const alertColumns = `id, item_id, warehouse_id, status, suggested_qty,
	purchase_order_id, created_at, resolved_at`

// ReorderAlertRepo implementación de ReorderAlertRepository sobre PostgreSQL.
// El invariante "a lo sumo una alerta abierta por (ítem, bodega)" lo
// garantiza un índice único parcial:
//
//	CREATE UNIQUE INDEX reorder_alerts_open_uq
//	    ON reorder_alerts (item_id, warehouse_id)
//	    WHERE status IN ('PENDING', 'ACKNOWLEDGED');
//
// Un existence-check en memoria no sirve: pueden correr barridos en varios
// procesos a la vez.
type ReorderAlertRepo struct {
	q Querier
}

// NewReorderAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReorderAlertRepository(q Querier) *ReorderAlertRepo {
	return &ReorderAlertRepo{q: q}
}

// Create inserta la alerta; un choque con el índice parcial se devuelve como
// domain.ErrDuplicate (carrera perdida, el caller relee la alerta abierta).
func (r *ReorderAlertRepo) Create(ctx context.Context, a *entity.ReorderAlert) error {
	query := `
		INSERT INTO reorder_alerts (id, item_id, warehouse_id, status, suggested_qty,
			purchase_order_id, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ItemID, a.WarehouseID, a.Status, a.SuggestedQty,
		nullIfEmpty(a.PurchaseOrderID), a.CreatedAt, a.ResolvedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insertar alerta: %w", err)
	}
	return nil
}

func (r *ReorderAlertRepo) GetByID(ctx context.Context, id string) (*entity.ReorderAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM reorder_alerts WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate bloquea la fila de la alerta (SELECT FOR UPDATE); es la
// base de la transición protegida a PO_CREATED.
func (r *ReorderAlertRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.ReorderAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM reorder_alerts WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *ReorderAlertRepo) FindOpen(ctx context.Context, itemID, warehouseID string) (*entity.ReorderAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM reorder_alerts
		WHERE item_id = $1 AND warehouse_id = $2
		  AND status IN ($3, $4)`
	return r.getOne(ctx, query, itemID, warehouseID,
		entity.AlertStatusPending, entity.AlertStatusAcknowledged)
}

func (r *ReorderAlertRepo) UpdateStatus(ctx context.Context, a *entity.ReorderAlert) error {
	query := `
		UPDATE reorder_alerts
		SET status = $2, purchase_order_id = $3, resolved_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, a.ID, a.Status, nullIfEmpty(a.PurchaseOrderID), a.ResolvedAt)
	if err != nil {
		return fmt.Errorf("actualizar alerta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReorderAlertRepo) List(ctx context.Context, status string, limit int) ([]*entity.ReorderAlert, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + alertColumns + ` FROM reorder_alerts`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar alertas: %w", err)
	}
	defer rows.Close()

	var list []*entity.ReorderAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alerta: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *ReorderAlertRepo) CountByStatus(ctx context.Context) (repository.AlertStatusCounts, error) {
	query := `SELECT status, COUNT(*) FROM reorder_alerts GROUP BY status`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return repository.AlertStatusCounts{}, fmt.Errorf("contar alertas: %w", err)
	}
	defer rows.Close()

	var counts repository.AlertStatusCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return repository.AlertStatusCounts{}, fmt.Errorf("scan conteo: %w", err)
		}
		switch status {
		case entity.AlertStatusPending:
			counts.Pending = n
		case entity.AlertStatusAcknowledged:
			counts.Acknowledged = n
		case entity.AlertStatusPOCreated:
			counts.POCreated = n
		case entity.AlertStatusDismissed:
			counts.Dismissed = n
		}
	}
	return counts, rows.Err()
}

func (r *ReorderAlertRepo) getOne(ctx context.Context, query string, args ...any) (*entity.ReorderAlert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alerta: %w", err)
	}
	return a, nil
}

func scanAlert(row pgx.Row) (*entity.ReorderAlert, error) {
	var a entity.ReorderAlert
	var poID *string
	err := row.Scan(
		&a.ID, &a.ItemID, &a.WarehouseID, &a.Status, &a.SuggestedQty,
		&poID, &a.CreatedAt, &a.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	if poID != nil {
		a.PurchaseOrderID = *poID
	}
	return &a, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
