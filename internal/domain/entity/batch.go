package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote. EXPIRED es monotónico: una vez vencido, un ajuste
// posterior de cantidad nunca lo devuelve a ACTIVE.
const (
	BatchStatusActive   = "ACTIVE"
	BatchStatusExpired  = "EXPIRED"
	BatchStatusDepleted = "DEPLETED"
	BatchStatusRecalled = "RECALLED"
)

// Batch representa un lote físico de un ítem en una bodega, con su propia
// fecha de vencimiento y cantidad restante. Los lotes nunca se eliminan
// (trazabilidad); QuantityRemaining solo baja vía compromisos del motor de
// asignación y solo sube vía ajustes explícitos de recepción.
type Batch struct {
	ID                string
	ItemID            string
	WarehouseID       string
	BatchNumber       string
	QuantityRemaining decimal.Decimal
	ManufactureDate   *time.Time
	ExpiryDate        *time.Time
	Status            string
	CreatedAt         time.Time
}

// IsAllocatable indica si el lote puede participar en una asignación:
// solo lotes ACTIVE con cantidad restante positiva.
func (b *Batch) IsAllocatable() bool {
	return b.Status == BatchStatusActive && b.QuantityRemaining.GreaterThan(decimal.Zero)
}

// ExpiresOnOrBefore indica si el lote tiene fecha de vencimiento y esta es
// anterior o igual a la fecha dada. Lotes sin vencimiento nunca vencen.
func (b *Batch) ExpiresOnOrBefore(asOf time.Time) bool {
	return b.ExpiryDate != nil && !b.ExpiryDate.After(asOf)
}
