package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

var _ repository.StockLedgerReader = (*StockLedgerRepo)(nil)

// StockLedgerRepo adaptador de solo lectura sobre las tablas del libro de
// inventario (stock_positions y stock_ledger). La escritura es del módulo
// de movimientos, externo a este motor.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el lector. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// GetPosition posición de stock del ítem en la bodega: físico, comprometido
// y en tránsito. Sin fila = posición en cero (ítem nunca movido allí).
func (r *StockLedgerRepo) GetPosition(ctx context.Context, itemID, warehouseID string) (repository.StockPosition, error) {
	query := `
		SELECT on_hand, committed, incoming
		FROM stock_positions
		WHERE item_id = $1 AND warehouse_id = $2`
	var p repository.StockPosition
	err := r.q.QueryRow(ctx, query, itemID, warehouseID).Scan(&p.OnHand, &p.Committed, &p.Incoming)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.StockPosition{
				OnHand:    decimal.Zero,
				Committed: decimal.Zero,
				Incoming:  decimal.Zero,
			}, nil
		}
		return repository.StockPosition{}, fmt.Errorf("get posición de stock: %w", err)
	}
	return p, nil
}

// GetConsumptionHistory salidas del rango en orden cronológico. Las salidas
// se registran con cantidad negativa en el libro; aquí se devuelven en
// positivo como consumo. warehouseID vacío agrega todas las bodegas.
func (r *StockLedgerRepo) GetConsumptionHistory(ctx context.Context, itemID, warehouseID string, from, to time.Time) ([]repository.ConsumptionRecord, error) {
	query := `
		SELECT entry_date, ABS(quantity)
		FROM stock_ledger
		WHERE item_id = $1
		  AND entry_type = 'ISSUE'
		  AND entry_date >= $2 AND entry_date <= $3`
	args := []any{itemID, from, to}
	if warehouseID != "" {
		query += ` AND warehouse_id = $4`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY entry_date`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("historial de consumo: %w", err)
	}
	defer rows.Close()

	var records []repository.ConsumptionRecord
	for rows.Next() {
		var rec repository.ConsumptionRecord
		if err := rows.Scan(&rec.Date, &rec.Quantity); err != nil {
			return nil, fmt.Errorf("scan consumo: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
