package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
	"github.com/jhoicas/Traslados-api/pkg/logger"
)

// TransferUseCase orquesta el motor de traslados: creación (con y sin items),
// completación con libro de movimientos dual, listado, resumen, borrado y
// movimiento correctivo de mapeo dispositivo-stock.
type TransferUseCase struct {
	txRunner      TxRunner
	transferRepo  repository.TransferRepository
	warehouseRepo repository.WarehouseRepository
	deviceRepo    repository.DeviceRepository
	movements     MovementLedger
	deviceEvents  DeviceEventRecorder
	log           *logger.Logger
}

// NewTransferUseCase construye el caso de uso. transferRepo y deviceRepo van
// atados al pool (lecturas); las escrituras transaccionales pasan por txRunner.
func NewTransferUseCase(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	warehouseRepo repository.WarehouseRepository,
	deviceRepo repository.DeviceRepository,
	movements MovementLedger,
	deviceEvents DeviceEventRecorder,
	log *logger.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:      txRunner,
		transferRepo:  transferRepo,
		warehouseRepo: warehouseRepo,
		deviceRepo:    deviceRepo,
		movements:     movements,
		deviceEvents:  deviceEvents,
		log:           log,
	}
}

// Create crea un traslado pendiente, con items (transaccional) o solo la
// cabecera si el request no trae líneas.
func (uc *TransferUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkWarehouses(companyID, in.FromWarehouseID, in.ToWarehouseID); err != nil {
		return nil, err
	}

	now := time.Now()
	transfer := &entity.Transfer{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Status:          entity.TransferStatusPending,
		Reference:       in.Reference,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if len(in.Items) == 0 {
		if err := uc.transferRepo.Create(transfer); err != nil {
			return nil, err
		}
	} else {
		items, err := buildItems(transfer, in.Items, now)
		if err != nil {
			return nil, err
		}
		if err := uc.createWithItems(ctx, transfer, items); err != nil {
			return nil, err
		}
	}

	detail, err := uc.transferRepo.GetDetail(transfer.ID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}
	resp := toTransferResponse(detail)
	return &resp, nil
}

// buildItems materializa las líneas del request. Cantidad cero toma el valor
// por defecto 1; cualquier cantidad menor a 1 (negativa o fraccionaria) es
// inválida.
func buildItems(transfer *entity.Transfer, in []dto.TransferItemRequest, now time.Time) ([]*entity.TransferItem, error) {
	one := decimal.NewFromInt(1)
	items := make([]*entity.TransferItem, 0, len(in))
	for _, line := range in {
		qty := line.Quantity
		if qty.IsZero() {
			qty = one
		}
		if qty.LessThan(one) {
			return nil, domain.ErrInvalidInput
		}
		var deviceID *string
		if !line.IsPart && line.DeviceID != "" {
			id := line.DeviceID
			deviceID = &id
		}
		items = append(items, &entity.TransferItem{
			ID:         uuid.New().String(),
			TransferID: transfer.ID,
			CompanyID:  transfer.CompanyID,
			SKU:        line.SKU,
			DeviceID:   deviceID,
			IsPart:     line.IsPart,
			Quantity:   qty,
			Status:     entity.TransferStatusPending,
			CreatedAt:  now,
		})
	}
	return items, nil
}

// createWithItems ejecuta la creación atómica: resolver dispositivos, validar
// stock en origen, crear cabecera, asegurar filas de stock en destino, crear
// items y verificar el mapeo dispositivo-stock. Cualquier error revierte todo;
// un traslado a medias nunca es observable.
func (uc *TransferUseCase) createWithItems(ctx context.Context, transfer *entity.Transfer, items []*entity.TransferItem) error {
	return uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		stockRepo repository.StockRepository,
		deviceRepo repository.DeviceRepository,
	) error {
		// 1. Resolver items de dispositivo sin DeviceID: el campo SKU puede
		// traer un IMEI o serial; se adopta el ID y el SKU canónico.
		for _, item := range items {
			if !item.IsPart && item.DeviceID == nil {
				device, err := deviceRepo.FindByIdentifier(transfer.CompanyID, item.SKU)
				if err != nil {
					return err
				}
				if device != nil {
					id := device.ID
					item.DeviceID = &id
					item.SKU = device.SKU
				}
			}
			if item.SKU == "" {
				return domain.ErrInvalidInput
			}
		}

		// 2. Validar stock en la bodega origen. Chequeo consultivo: no se
		// descuenta aquí, el descuento real ocurre al completar vía libro de
		// movimientos, que vuelve a validar.
		sourceStock := make(map[string]*entity.Stock, len(items))
		for _, item := range items {
			stock, err := stockRepo.Get(transfer.CompanyID, transfer.FromWarehouseID, item.SKU)
			if err != nil {
				return err
			}
			if stock == nil {
				return &domain.StockNotFoundError{SKU: item.SKU, WarehouseID: transfer.FromWarehouseID}
			}
			if stock.Quantity.LessThan(item.Quantity) {
				return &domain.InsufficientStockError{
					SKU:       item.SKU,
					Available: stock.Quantity,
					Required:  item.Quantity,
				}
			}
			sourceStock[item.SKU] = stock
		}

		// 3. Cabecera.
		if err := transferRepo.Create(transfer); err != nil {
			return err
		}

		// 4. Asegurar filas de stock en destino (placeholder en 0). Una
		// creación concurrente de la misma fila no es error (ver EnsureRow).
		for _, item := range items {
			if err := stockRepo.EnsureRow(transfer.CompanyID, transfer.ToWarehouseID, item.SKU, item.IsPart); err != nil {
				return err
			}
		}

		// 5. Items.
		if err := transferRepo.CreateItems(items); err != nil {
			return err
		}

		// 6. Verificar que cada dispositivo esté mapeado al stock de origen:
		// protege contra dispositivos cuya contabilidad no coincide con su
		// SKU/bodega declarados.
		for _, item := range items {
			if !item.IsDevice() {
				continue
			}
			stock := sourceStock[item.SKU]
			mapped, err := deviceRepo.IsMappedToStock(*item.DeviceID, stock.ID)
			if err != nil {
				return err
			}
			if !mapped {
				return domain.ErrDeviceNotMapped
			}
		}
		return nil
	})
}

// GetByID devuelve el detalle completo de un traslado, items incluidos.
// companyID vacío = administrador multi-empresa (sin chequeo de pertenencia).
func (uc *TransferUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.TransferResponse, error) {
	detail, err := uc.transferRepo.GetDetail(id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}
	if companyID != "" && detail.Transfer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	resp := toTransferResponse(detail)
	return &resp, nil
}

// List lista traslados con filtros, orden y paginación. Las filas no traen
// detalle de items, solo agregados.
func (uc *TransferUseCase) List(ctx context.Context, companyID string, q dto.ListTransfersQuery) (*dto.TransferListResponse, error) {
	q.Normalize()
	filter := repository.TransferFilter{
		CompanyID:       companyID,
		FromWarehouseID: q.FromWarehouseID,
		ToWarehouseID:   q.ToWarehouseID,
		Page:            q.Page,
		Limit:           q.Limit,
		SortBy:          q.SortBy,
		SortOrder:       q.SortOrder,
	}
	switch q.Status {
	case "":
	case string(entity.TransferStatusPending), string(entity.TransferStatusCompleted):
		filter.Status = entity.TransferStatus(q.Status)
	default:
		return nil, domain.ErrInvalidInput
	}
	if q.CreatedFrom != "" {
		from, err := time.Parse("2006-01-02", q.CreatedFrom)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.CreatedFrom = &from
	}
	if q.CreatedTo != "" {
		to, err := time.Parse("2006-01-02", q.CreatedTo)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		// Inclusivo hasta el final del día
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.CreatedTo = &to
	}

	rows, total, err := uc.transferRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransferResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTransferRowResponse(row))
	}
	return &dto.TransferListResponse{
		Rows:  out,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}, nil
}

// Summary arma el resumen para el dashboard: totales por estado, items en
// tránsito y desglose saliente/entrante por bodega.
func (uc *TransferUseCase) Summary(ctx context.Context, companyID string) (*dto.TransferSummaryResponse, error) {
	summary, err := uc.transferRepo.Summary(companyID)
	if err != nil {
		return nil, err
	}
	warehouses := make([]dto.WarehouseTransferCountResponse, 0, len(summary.Warehouses))
	for _, w := range summary.Warehouses {
		warehouses = append(warehouses, dto.WarehouseTransferCountResponse{
			WarehouseID:   w.WarehouseID,
			WarehouseName: w.WarehouseName,
			Outbound:      w.Outbound,
			Inbound:       w.Inbound,
		})
	}
	return &dto.TransferSummaryResponse{
		Total:          summary.Total,
		Pending:        summary.Pending,
		Completed:      summary.Completed,
		ItemsInTransit: summary.ItemsInTransit,
		Warehouses:     warehouses,
	}, nil
}

// Delete borra un traslado pendiente y sus items en una transacción.
// Un traslado completado no se borra: ya generó movimientos de stock y
// deshacerlo requeriría movimientos compensatorios que este motor no implementa.
func (uc *TransferUseCase) Delete(ctx context.Context, companyID, id string) error {
	transfer, err := uc.transferRepo.GetByID(id)
	if err != nil {
		return err
	}
	if transfer == nil {
		return domain.ErrNotFound
	}
	if companyID != "" && transfer.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if transfer.IsCompleted() {
		return domain.ErrConflict
	}
	return uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.StockRepository,
		_ repository.DeviceRepository,
	) error {
		return transferRepo.DeleteWithItems(id)
	})
}

// LookupDevice resuelve un dispositivo por IMEI o serial.
func (uc *TransferUseCase) LookupDevice(ctx context.Context, companyID, identifier string) (*dto.DeviceResponse, error) {
	if identifier == "" {
		return nil, domain.ErrInvalidInput
	}
	device, err := uc.deviceRepo.FindByIdentifier(companyID, identifier)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.DeviceResponse{
		ID:          device.ID,
		CompanyID:   device.CompanyID,
		SKU:         device.SKU,
		Serial:      device.Serial,
		IMEI:        device.IMEI,
		WarehouseID: device.WarehouseID,
	}, nil
}

// MoveDeviceMapping mueve el mapeo dispositivo-stock de una bodega a otra en
// una sola transacción (operación correctiva, no la invoca la completación).
func (uc *TransferUseCase) MoveDeviceMapping(ctx context.Context, companyID string, in dto.MoveDeviceMappingRequest) error {
	if in.DeviceID == "" || in.SKU == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return domain.ErrInvalidInput
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunTransfer(ctx, func(
		_ repository.TransferRepository,
		stockRepo repository.StockRepository,
		deviceRepo repository.DeviceRepository,
	) error {
		source, err := stockRepo.Get(companyID, in.FromWarehouseID, in.SKU)
		if err != nil {
			return err
		}
		if source == nil {
			return &domain.StockNotFoundError{SKU: in.SKU, WarehouseID: in.FromWarehouseID}
		}
		dest, err := stockRepo.Get(companyID, in.ToWarehouseID, in.SKU)
		if err != nil {
			return err
		}
		if dest == nil {
			return &domain.StockNotFoundError{SKU: in.SKU, WarehouseID: in.ToWarehouseID}
		}
		return deviceRepo.MoveStockMapping(in.DeviceID, source.ID, dest.ID, in.ToWarehouseID)
	})
}

// checkWarehouses valida que ambas bodegas existan y pertenezcan a la empresa.
func (uc *TransferUseCase) checkWarehouses(companyID, fromID, toID string) error {
	from, err := uc.warehouseRepo.GetByID(fromID)
	if err != nil {
		return err
	}
	to, err := uc.warehouseRepo.GetByID(toID)
	if err != nil {
		return err
	}
	if from == nil || to == nil {
		return domain.ErrNotFound
	}
	if from.CompanyID != companyID || to.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

func toTransferRowResponse(row *repository.TransferRow) dto.TransferResponse {
	t := row.Transfer
	return dto.TransferResponse{
		ID:                t.ID,
		CompanyID:         t.CompanyID,
		FromWarehouseID:   t.FromWarehouseID,
		FromWarehouseName: row.FromWarehouseName,
		ToWarehouseID:     t.ToWarehouseID,
		ToWarehouseName:   row.ToWarehouseName,
		Status:            string(t.Status),
		Reference:         t.Reference,
		ItemCount:         row.ItemCount,
		TotalQuantity:     row.TotalQuantity,
		CreatedBy:         t.CreatedBy,
		CompletedBy:       t.CompletedBy,
		CompletedAt:       t.CompletedAt,
		CreatedAt:         t.CreatedAt,
	}
}

func toTransferResponse(detail *repository.TransferDetail) dto.TransferResponse {
	resp := toTransferRowResponse(&detail.TransferRow)
	items := make([]dto.TransferItemResponse, 0, len(detail.Items))
	for _, it := range detail.Items {
		items = append(items, dto.TransferItemResponse{
			ID:           it.Item.ID,
			SKU:          it.Item.SKU,
			DeviceID:     it.Item.DeviceID,
			DeviceSerial: it.DeviceSerial,
			DeviceIMEI:   it.DeviceIMEI,
			IsPart:       it.Item.IsPart,
			Quantity:     it.Item.Quantity,
			Status:       string(it.Item.Status),
		})
	}
	resp.Items = items
	return resp
}
