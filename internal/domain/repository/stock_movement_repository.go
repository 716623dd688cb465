package repository

import "github.com/jhoicas/Traslados-api/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia del libro de movimientos.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByRef(refType, refID string) ([]*entity.StockMovement, error)
}
