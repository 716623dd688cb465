package entity

import "time"

// Estados de un traslado. Enumeración explícita en lugar de boolean para
// dejar espacio a estados futuros (ej. en tránsito, cancelado).
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
)

// Transfer representa la intención (y luego el registro completado) de mover
// items de una bodega origen a una bodega destino, dentro de una empresa.
// Invariantes: FromWarehouseID != ToWarehouseID; CompletedBy/CompletedAt se
// llenan si y solo si Status == completed; un traslado completado solo se lee.
type Transfer struct {
	ID              string
	CompanyID       string
	FromWarehouseID string
	ToWarehouseID   string
	Status          TransferStatus
	Reference       string // guía, remisión u otra referencia de seguimiento
	CreatedBy       string // UserID
	CompletedBy     *string
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsCompleted indica si el traslado ya generó movimientos de stock.
func (t *Transfer) IsCompleted() bool {
	return t.Status == TransferStatusCompleted
}
