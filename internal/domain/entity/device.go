package entity

import "time"

// Device representa un dispositivo serializado (celular, equipo) identificable
// por IMEI o serial, asignado a una bodega. La asociación con la fila de stock
// que lo respalda vive en la tabla device_stock (ver DeviceRepository).
type Device struct {
	ID          string
	CompanyID   string
	SKU         string
	Serial      string
	IMEI        string
	WarehouseID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
