package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// TransferFilter filtros y paginación para el listado de traslados.
// CompanyID vacío = administrador multi-empresa (sin filtro de empresa).
type TransferFilter struct {
	CompanyID       string
	FromWarehouseID string
	ToWarehouseID   string
	Status          entity.TransferStatus // "" = todos
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
	Page            int // >= 1
	Limit           int // [1,100]
	SortBy          string
	SortOrder       string // asc | desc
}

// TransferRow fila del listado: traslado + nombres de bodegas y agregados de
// items. El detalle de items se omite a propósito en el listado.
type TransferRow struct {
	Transfer          entity.Transfer
	FromWarehouseName string
	ToWarehouseName   string
	ItemCount         int
	TotalQuantity     decimal.Decimal
}

// TransferItemDetail item del traslado decorado con datos del dispositivo si aplica.
type TransferItemDetail struct {
	Item         entity.TransferItem
	DeviceSerial *string
	DeviceIMEI   *string
}

// TransferDetail proyección completa de un traslado (get por ID y respuesta de creación).
type TransferDetail struct {
	TransferRow
	Items []TransferItemDetail
}

// WarehouseTransferCount desglose por bodega de traslados salientes y entrantes.
type WarehouseTransferCount struct {
	WarehouseID   string
	WarehouseName string
	Outbound      int
	Inbound       int
}

// TransferSummary resumen para el dashboard de traslados.
type TransferSummary struct {
	Total          int
	Pending        int
	Completed      int
	ItemsInTransit decimal.Decimal // suma de cantidades de items en traslados pendientes
	Warehouses     []WarehouseTransferCount
}

// TransferRepository define el puerto de persistencia para traslados e items (DIP).
// Las escrituras se usan dentro de transacciones (ver TxRunner).
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	CreateItems(items []*entity.TransferItem) error
	GetByID(id string) (*entity.Transfer, error)
	GetDetail(id string) (*TransferDetail, error)
	ListItems(transferID string) ([]*entity.TransferItem, error)
	List(filter TransferFilter) ([]*TransferRow, int, error)
	Summary(companyID string) (*TransferSummary, error)
	MarkCompleted(id, completedBy string, completedAt time.Time) error
	// DeleteWithItems borra primero los items y luego el traslado (misma tx).
	DeleteWithItems(id string) error
}
