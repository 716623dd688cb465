package entity

import "time"

// Tipos de evento de ciclo de vida de un dispositivo.
const (
	DeviceEventTransferOut = "transfer_out"
	DeviceEventTransferIn  = "transfer_in"
)

// DeviceEvent es un registro append-only del ciclo de vida de un dispositivo
// (salida/entrada por traslado), con referencia al traslado causante.
type DeviceEvent struct {
	ID        string
	CompanyID string
	DeviceID  string
	Type      string
	RefType   string
	RefID     string
	CreatedBy string // UserID
	CreatedAt time.Time
}
