package repository

import "github.com/jhoicas/Traslados-api/internal/domain/entity"

// WarehouseRepository define el puerto de lectura de bodegas (DIP).
// El CRUD de bodegas vive en otro servicio; aquí solo se valida y se proyecta.
type WarehouseRepository interface {
	GetByID(id string) (*entity.Warehouse, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error)
}
