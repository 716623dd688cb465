package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferItemRequest línea de un traslado con items.
// Para dispositivos sin DeviceID, SKU puede traer un IMEI o serial que el
// motor resuelve al dispositivo y a su SKU canónico.
type TransferItemRequest struct {
	SKU      string          `json:"sku" validate:"required"`
	DeviceID string          `json:"device_id,omitempty"`
	IsPart   bool            `json:"is_part"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
// Items vacío crea solo la cabecera (traslado pendiente sin líneas).
type CreateTransferRequest struct {
	FromWarehouseID string                `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string                `json:"to_warehouse_id" validate:"required"`
	Reference       string                `json:"reference,omitempty"`
	Items           []TransferItemRequest `json:"items,omitempty"`
}

// MoveDeviceMappingRequest body para el movimiento correctivo de mapeo
// dispositivo-stock entre bodegas.
type MoveDeviceMappingRequest struct {
	DeviceID        string `json:"device_id" validate:"required"`
	SKU             string `json:"sku" validate:"required"`
	FromWarehouseID string `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string `json:"to_warehouse_id" validate:"required"`
}

// ListTransfersQuery query params para GET /api/transfers.
type ListTransfersQuery struct {
	PageQuery
	FromWarehouseID string `query:"from_warehouse_id"`
	ToWarehouseID   string `query:"to_warehouse_id"`
	Status          string `query:"status"`
	CreatedFrom     string `query:"created_from"` // YYYY-MM-DD
	CreatedTo       string `query:"created_to"`   // YYYY-MM-DD
	SortBy          string `query:"sort_by"`
	SortOrder       string `query:"sort_order"`
}

// TransferItemResponse item en el detalle de un traslado.
type TransferItemResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	DeviceID     *string         `json:"device_id,omitempty"`
	DeviceSerial *string         `json:"device_serial,omitempty"`
	DeviceIMEI   *string         `json:"device_imei,omitempty"`
	IsPart       bool            `json:"is_part"`
	Quantity     decimal.Decimal `json:"quantity"`
	Status       string          `json:"status"`
}

// TransferResponse traslado con nombres de bodegas y agregados de items.
type TransferResponse struct {
	ID                string                 `json:"id"`
	CompanyID         string                 `json:"company_id"`
	FromWarehouseID   string                 `json:"from_warehouse_id"`
	FromWarehouseName string                 `json:"from_warehouse_name"`
	ToWarehouseID     string                 `json:"to_warehouse_id"`
	ToWarehouseName   string                 `json:"to_warehouse_name"`
	Status            string                 `json:"status"`
	Reference         string                 `json:"reference,omitempty"`
	ItemCount         int                    `json:"item_count"`
	TotalQuantity     decimal.Decimal        `json:"total_quantity"`
	CreatedBy         string                 `json:"created_by"`
	CompletedBy       *string                `json:"completed_by,omitempty"`
	CompletedAt       *time.Time             `json:"completed_at,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	Items             []TransferItemResponse `json:"items,omitempty"`
}

// TransferListResponse listado paginado de traslados.
type TransferListResponse struct {
	Rows  []TransferResponse `json:"rows"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ItemOutcomeResponse resultado por item al completar un traslado.
type ItemOutcomeResponse struct {
	ItemID   string          `json:"item_id"`
	SKU      string          `json:"sku"`
	Quantity decimal.Decimal `json:"quantity"`
	OK       bool            `json:"ok"`
	Reason   string          `json:"reason,omitempty"`
}

// CompleteTransferResponse resumen de una completación.
type CompleteTransferResponse struct {
	TransferID          string                `json:"transfer_id"`
	FromWarehouseID     string                `json:"from_warehouse_id"`
	ToWarehouseID       string                `json:"to_warehouse_id"`
	MovementsCreated    int                   `json:"movements_created"`
	ItemsTransferred    int                   `json:"items_transferred"`
	QuantityTransferred decimal.Decimal       `json:"quantity_transferred"`
	DeviceEventsCreated int                   `json:"device_events_created"`
	Items               []ItemOutcomeResponse `json:"items"`
	Message             string                `json:"message"`
}

// WarehouseTransferCountResponse desglose por bodega del resumen.
type WarehouseTransferCountResponse struct {
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Outbound      int    `json:"outbound"`
	Inbound       int    `json:"inbound"`
}

// TransferSummaryResponse resumen de traslados para el dashboard.
type TransferSummaryResponse struct {
	Total          int                              `json:"total"`
	Pending        int                              `json:"pending"`
	Completed      int                              `json:"completed"`
	ItemsInTransit decimal.Decimal                  `json:"items_in_transit"`
	Warehouses     []WarehouseTransferCountResponse `json:"warehouses"`
}

// DeviceResponse salida de la búsqueda de dispositivo por IMEI/serial.
type DeviceResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	SKU         string `json:"sku"`
	Serial      string `json:"serial"`
	IMEI        string `json:"imei"`
	WarehouseID string `json:"warehouse_id"`
}
