package dto

// DefaultListLimit límite por defecto para listados.
const DefaultListLimit = 50

// MaxListLimit tope duro para listados.
const MaxListLimit = 200

// ClampLimit normaliza un límite de listado al rango [1, MaxListLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
