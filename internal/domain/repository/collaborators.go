package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Puertos de colaboradores externos al motor de reposición. Interfaces
// explícitas, sin grafos de objetos embebidos: todo se resuelve por id.

// StockPosition posición de stock de un ítem en una bodega según el libro
// de inventario: disponible físico, comprometido y en tránsito.
type StockPosition struct {
	OnHand    decimal.Decimal
	Committed decimal.Decimal
	Incoming  decimal.Decimal
}

// Current stock efectivo: físico − comprometido + en tránsito.
func (p StockPosition) Current() decimal.Decimal {
	return p.OnHand.Sub(p.Committed).Add(p.Incoming)
}

// ConsumptionRecord transacción histórica de salida, propiedad del libro de
// inventario externo; este motor solo la lee como insumo de pronóstico.
type ConsumptionRecord struct {
	Date     time.Time
	Quantity decimal.Decimal
}

// StockLedgerReader lector del libro de inventario (colaborador externo).
type StockLedgerReader interface {
	GetPosition(ctx context.Context, itemID, warehouseID string) (StockPosition, error)

	// GetConsumptionHistory devuelve las salidas del rango en orden cronológico.
	// warehouseID vacío = consumo agregado de todas las bodegas.
	GetConsumptionHistory(ctx context.Context, itemID, warehouseID string, from, to time.Time) ([]ConsumptionRecord, error)
}

// ItemInfo datos mínimos del maestro de ítems que consume este motor,
// incluidos los umbrales de reorden de respaldo a nivel de ítem.
type ItemInfo struct {
	ID              string
	SKU             string
	Name            string
	Unit            string
	CostPrice       decimal.Decimal
	ReorderLevel    decimal.Decimal
	ReorderQuantity decimal.Decimal
}

// ItemMaster maestro de ítems (colaborador externo).
type ItemMaster interface {
	GetItem(ctx context.Context, itemID string) (*ItemInfo, error)
}

// PurchaseOrderRequest solicitud de orden de compra borrador.
type PurchaseOrderRequest struct {
	VendorID    string
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
}

// Purchasing colaborador de compras. El orquestador garantiza a lo sumo una
// llamada por alerta (transición protegida con la alerta como clave de
// idempotencia), por lo que este puerto no necesita ser idempotente.
// Un timeout se trata igual que cualquier otra falla, nunca como éxito.
type Purchasing interface {
	CreateDraftPurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (string, error)
}
