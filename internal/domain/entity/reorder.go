package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una alerta de reorden. PO_CREATED y DISMISSED son terminales;
// una nueva condición de stock bajo crea siempre una alerta nueva, nunca
// reabre una terminal.
const (
	AlertStatusPending      = "PENDING"
	AlertStatusAcknowledged = "ACKNOWLEDGED"
	AlertStatusPOCreated    = "PO_CREATED"
	AlertStatusDismissed    = "DISMISSED"
)

// ReorderSetting política de reposición de un ítem. Es propiedad de
// configuración (externa a los algoritmos del motor) y la lee el evaluador.
// Cuando no existe fila para el ítem, el evaluador usa los umbrales del
// maestro de ítems como respaldo.
type ReorderSetting struct {
	ItemID            string
	ReorderLevel      decimal.Decimal
	ReorderQuantity   decimal.Decimal
	SafetyStock       decimal.Decimal
	LeadTimeDays      int
	PreferredVendorID string // vacío = sin proveedor preferido
	AutoReorder       bool
	UpdatedAt         time.Time
}

// ReorderAlert alerta de stock bajo para un (ítem, bodega). Invariante:
// a lo sumo una alerta en estado no terminal por (ItemID, WarehouseID),
// garantizada por índice único parcial en la base, no por memoria de proceso.
type ReorderAlert struct {
	ID              string
	ItemID          string
	WarehouseID     string
	Status          string
	SuggestedQty    decimal.Decimal
	PurchaseOrderID string // asignado al pasar a PO_CREATED
	CreatedAt       time.Time
	ResolvedAt      *time.Time
}

// IsOpen indica si la alerta sigue en un estado no terminal.
func (a *ReorderAlert) IsOpen() bool {
	return a.Status == AlertStatusPending || a.Status == AlertStatusAcknowledged
}
