package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la existencia de un SKU en una bodega de una empresa.
// Clave lógica: (company_id, warehouse_id, sku). El motor de traslados crea
// filas placeholder en cantidad 0 en la bodega destino; nunca inventa cantidad.
type Stock struct {
	ID          string
	CompanyID   string
	WarehouseID string
	SKU         string
	IsPart      bool
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
