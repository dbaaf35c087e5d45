package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                  = errors.New("recurso no encontrado")
	ErrInvalidInput              = errors.New("entrada inválida")
	ErrDuplicate                 = errors.New("recurso duplicado")
	ErrInvalidBatchQuantity      = errors.New("cantidad de lote inválida")
	ErrInsufficientBatchQuantity = errors.New("cantidad insuficiente en el lote")
	ErrBatchNotAdjustable        = errors.New("el lote no admite ajustes")
	ErrAllocationConflict        = errors.New("conflicto de asignación concurrente")
	ErrAlertClosed               = errors.New("la alerta ya está en estado terminal")
	ErrPurchasingUnavailable     = errors.New("servicio de compras no disponible")
)
