package repository

import "github.com/jhoicas/Traslados-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar stock por
// empresa+bodega+SKU. Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve nil, nil si la fila no existe.
	Get(companyID, warehouseID, sku string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). nil, nil si no existe.
	GetForUpdate(companyID, warehouseID, sku string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// EnsureRow inserta una fila placeholder en cantidad 0 si no existe.
	// Contrato tolerante a carreras: una violación de constraint único
	// (creación concurrente) se trata como "ya existe", no como error.
	EnsureRow(companyID, warehouseID, sku string, isPart bool) error
}
