package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferItem es una línea de un traslado: un SKU con cantidad, o un
// dispositivo serializado (IsPart=false con DeviceID resuelto).
// El CompanyID siempre coincide con el del traslado padre; el ciclo de vida
// del item está atado al padre (se crea con él, su estado cambia al completar).
type TransferItem struct {
	ID         string
	TransferID string
	CompanyID  string
	SKU        string
	DeviceID   *string // solo para items de dispositivo (IsPart=false)
	IsPart     bool
	Quantity   decimal.Decimal // >= 1; por defecto 1
	Status     TransferStatus
	CreatedAt  time.Time
}

// IsDevice indica si el item referencia un dispositivo serializado resuelto.
func (i *TransferItem) IsDevice() bool {
	return !i.IsPart && i.DeviceID != nil && *i.DeviceID != ""
}
