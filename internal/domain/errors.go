package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrDeviceNotMapped   = errors.New("el dispositivo no está mapeado al stock de la bodega de origen")
)

// InsufficientStockError indica que la cantidad solicitada supera la disponible
// en la bodega de origen. Conserva las cantidades para diagnóstico.
type InsufficientStockError struct {
	SKU       string
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para SKU %s: disponible %s, requerido %s",
		e.SKU, e.Available.String(), e.Required.String())
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StockNotFoundError indica que el SKU no existe en la bodega indicada.
type StockNotFoundError struct {
	SKU         string
	WarehouseID string
}

func (e *StockNotFoundError) Error() string {
	return fmt.Sprintf("el SKU %s no existe en la bodega %s", e.SKU, e.WarehouseID)
}

// Is permite errors.Is(err, ErrNotFound).
func (e *StockNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
