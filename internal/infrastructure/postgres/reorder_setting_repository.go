package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

var _ repository.ReorderSettingRepository = (*ReorderSettingRepo)(nil)

// ReorderSettingRepo lectura de políticas de reposición sobre PostgreSQL.
// La escritura es del módulo de configuración; este motor solo consulta.
type ReorderSettingRepo struct {
	q Querier
}

// NewReorderSettingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReorderSettingRepository(q Querier) *ReorderSettingRepo {
	return &ReorderSettingRepo{q: q}
}

// GetByItem devuelve la política del ítem o nil si no hay fila.
func (r *ReorderSettingRepo) GetByItem(ctx context.Context, itemID string) (*entity.ReorderSetting, error) {
	query := `
		SELECT item_id, reorder_level, reorder_quantity, safety_stock,
		       lead_time_days, COALESCE(preferred_vendor_id, ''), auto_reorder, updated_at
		FROM reorder_settings WHERE item_id = $1`
	var s entity.ReorderSetting
	err := r.q.QueryRow(ctx, query, itemID).Scan(
		&s.ItemID, &s.ReorderLevel, &s.ReorderQuantity, &s.SafetyStock,
		&s.LeadTimeDays, &s.PreferredVendorID, &s.AutoReorder, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get política de reorden: %w", err)
	}
	return &s, nil
}

// ListCandidates pares (ítem, bodega) a evaluar: todo ítem con política de
// reorden cruzado con las bodegas donde tiene posición de stock.
// warehouseID vacío = todas las bodegas.
func (r *ReorderSettingRepo) ListCandidates(ctx context.Context, warehouseID string) ([]repository.ReorderCandidate, error) {
	query := `
		SELECT DISTINCT rs.item_id, sp.warehouse_id
		FROM reorder_settings rs
		JOIN stock_positions sp ON sp.item_id = rs.item_id`
	var args []any
	if warehouseID != "" {
		query += ` WHERE sp.warehouse_id = $1`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY rs.item_id, sp.warehouse_id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar candidatos de reorden: %w", err)
	}
	defer rows.Close()

	var list []repository.ReorderCandidate
	for rows.Next() {
		var c repository.ReorderCandidate
		if err := rows.Scan(&c.ItemID, &c.WarehouseID); err != nil {
			return nil, fmt.Errorf("scan candidato: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
