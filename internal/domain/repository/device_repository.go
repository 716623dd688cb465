package repository

import "github.com/jhoicas/Traslados-api/internal/domain/entity"

// DeviceRepository define el puerto de lectura de dispositivos y de su mapeo
// a filas de stock (tabla device_stock).
type DeviceRepository interface {
	GetByID(id string) (*entity.Device, error)
	// FindByIdentifier busca por IMEI o serial igual al identificador.
	// companyID vacío = búsqueda global (administrador). nil, nil si no hay match.
	FindByIdentifier(companyID, identifier string) (*entity.Device, error)
	// IsMappedToStock verifica que el dispositivo esté asociado a la fila de stock dada.
	IsMappedToStock(deviceID, stockID string) (bool, error)
	// MoveStockMapping borra el mapeo al stock origen, inserta el mapeo al stock
	// destino y actualiza la bodega del dispositivo. Pensado para ejecutarse
	// dentro de una transacción; los tres pasos comparten suerte.
	MoveStockMapping(deviceID, fromStockID, toStockID, toWarehouseID string) error
}
