package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Razones de movimiento de stock generadas por el motor de traslados.
const (
	MovementReasonTransferOut = "transfer_out" // salida en bodega origen
	MovementReasonTransferIn  = "transfer_in"  // entrada en bodega destino
)

// RefType de los movimientos generados por traslados.
const MovementRefTransfers = "transfers"

// StockMovement es una línea del libro de movimientos: un delta de cantidad
// con signo aplicado a una fila de stock, con razón y referencia al traslado
// que lo causó. Cada traslado completado produce exactamente un movimiento
// de salida y uno de entrada por item.
type StockMovement struct {
	ID          string
	CompanyID   string
	SKU         string
	WarehouseID string
	IsPart      bool
	Quantity    decimal.Decimal // con signo: negativo salida, positivo entrada
	Reason      string
	RefType     string
	RefID       string
	CreatedAt   time.Time
	CreatedBy   string // UserID
}
