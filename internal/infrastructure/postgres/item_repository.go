package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

var _ repository.ItemMaster = (*ItemRepo)(nil)

// ItemRepo lectura del maestro de ítems: solo los campos que consume el
// motor de reposición (costo, unidad y umbrales de respaldo).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// GetItem devuelve el ítem o nil si no existe.
func (r *ItemRepo) GetItem(ctx context.Context, itemID string) (*repository.ItemInfo, error) {
	query := `
		SELECT id, sku, name, COALESCE(unit_measure, ''), cost_price,
		       COALESCE(reorder_level, 0), COALESCE(reorder_quantity, 0)
		FROM items WHERE id = $1`
	var item repository.ItemInfo
	err := r.q.QueryRow(ctx, query, itemID).Scan(
		&item.ID, &item.SKU, &item.Name, &item.Unit, &item.CostPrice,
		&item.ReorderLevel, &item.ReorderQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ítem: %w", err)
	}
	return &item, nil
}
