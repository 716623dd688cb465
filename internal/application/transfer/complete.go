package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/application/ledger"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// itemOutcome resultado de procesar un item durante la completación.
type itemOutcome struct {
	item   *entity.TransferItem
	ok     bool
	reason string
}

// Complete completa un traslado: por cada item registra un movimiento de
// salida en origen (actor = creador del traslado) y uno de entrada en destino
// (actor = quien completa), y para dispositivos los dos eventos de ciclo de
// vida. El loop es best-effort a propósito: el par de movimientos de cada
// item es una unidad independiente, un SKU problemático no bloquea el resto
// del traslado. Solo los pares completos suman a los contadores. Al final el
// traslado queda marcado como completado; completarlo de nuevo es ErrConflict.
func (uc *TransferUseCase) Complete(ctx context.Context, companyID, actorID, id string) (*dto.CompleteTransferResponse, error) {
	t, err := uc.transferRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if companyID != "" && t.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if t.IsCompleted() {
		return nil, domain.ErrConflict
	}

	items, err := uc.transferRepo.ListItems(id)
	if err != nil {
		return nil, err
	}

	movementsCreated := 0
	deviceEventsCreated := 0
	itemsTransferred := 0
	quantityTransferred := decimal.Zero
	outcomes := make([]itemOutcome, 0, len(items))

	for _, item := range items {
		outcome := uc.completeItem(ctx, t, item, actorID, &movementsCreated)
		if outcome.ok {
			itemsTransferred++
			quantityTransferred = quantityTransferred.Add(item.Quantity)
			deviceEventsCreated += uc.recordDeviceEvents(ctx, t, item, actorID)
		} else {
			uc.log.Warn().
				Str("transfer_id", t.ID).
				Str("item_id", item.ID).
				Str("sku", item.SKU).
				Str("reason", outcome.reason).
				Msg("item de traslado no movido")
		}
		outcomes = append(outcomes, outcome)
	}

	// Cabecera e items cambian de estado en la misma transacción: nunca queda
	// un traslado completado con items pendientes a medio marcar.
	now := time.Now()
	err = uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.StockRepository,
		_ repository.DeviceRepository,
	) error {
		return transferRepo.MarkCompleted(t.ID, actorID, now)
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.CompleteTransferResponse{
		TransferID:          t.ID,
		FromWarehouseID:     t.FromWarehouseID,
		ToWarehouseID:       t.ToWarehouseID,
		MovementsCreated:    movementsCreated,
		ItemsTransferred:    itemsTransferred,
		QuantityTransferred: quantityTransferred,
		DeviceEventsCreated: deviceEventsCreated,
		Items:               make([]dto.ItemOutcomeResponse, 0, len(outcomes)),
		Message:             fmt.Sprintf("Traslado completado: %d de %d items movidos", itemsTransferred, len(items)),
	}
	for _, o := range outcomes {
		resp.Items = append(resp.Items, dto.ItemOutcomeResponse{
			ItemID:   o.item.ID,
			SKU:      o.item.SKU,
			Quantity: o.item.Quantity,
			OK:       o.ok,
			Reason:   o.reason,
		})
	}
	return resp, nil
}

// completeItem registra el par de movimientos de un item. Cada llamada al
// libro corre en su propia transacción; si la salida falla no se intenta la
// entrada. movementsCreated cuenta cada movimiento persistido, aunque el par
// quede incompleto.
func (uc *TransferUseCase) completeItem(ctx context.Context, t *entity.Transfer, item *entity.TransferItem, actorID string, movementsCreated *int) itemOutcome {
	out := ledger.MovementInput{
		CompanyID:   t.CompanyID,
		SKU:         item.SKU,
		WarehouseID: t.FromWarehouseID,
		IsPart:      item.IsPart,
		Quantity:    item.Quantity.Neg(),
		Reason:      entity.MovementReasonTransferOut,
		RefType:     entity.MovementRefTransfers,
		RefID:       t.ID,
		CreatedBy:   t.CreatedBy, // la salida se atribuye al creador del traslado
		UpdateStock: true,
	}
	if _, err := uc.movements.Register(ctx, out); err != nil {
		return itemOutcome{item: item, reason: err.Error()}
	}
	*movementsCreated++

	in := ledger.MovementInput{
		CompanyID:   t.CompanyID,
		SKU:         item.SKU,
		WarehouseID: t.ToWarehouseID,
		IsPart:      item.IsPart,
		Quantity:    item.Quantity,
		Reason:      entity.MovementReasonTransferIn,
		RefType:     entity.MovementRefTransfers,
		RefID:       t.ID,
		CreatedBy:   actorID, // la entrada se atribuye a quien completa
		UpdateStock: true,
	}
	if _, err := uc.movements.Register(ctx, in); err != nil {
		return itemOutcome{item: item, reason: err.Error()}
	}
	*movementsCreated++

	return itemOutcome{item: item, ok: true}
}

// recordDeviceEvents registra los eventos transfer_out/transfer_in para items
// de dispositivo. Errores aquí se registran en el log y no abortan.
func (uc *TransferUseCase) recordDeviceEvents(ctx context.Context, t *entity.Transfer, item *entity.TransferItem, actorID string) int {
	if !item.IsDevice() {
		return 0
	}
	created := 0
	if event, err := uc.deviceEvents.TransferOut(ctx, t.CompanyID, *item.DeviceID, t.CreatedBy, t.ID); err != nil {
		uc.log.Warn().Err(err).Str("device_id", *item.DeviceID).Msg("evento transfer_out no registrado")
	} else if event != nil {
		created++
	}
	if event, err := uc.deviceEvents.TransferIn(ctx, t.CompanyID, *item.DeviceID, actorID, t.ID); err != nil {
		uc.log.Warn().Err(err).Str("device_id", *item.DeviceID).Msg("evento transfer_in no registrado")
	} else if event != nil {
		created++
	}
	return created
}
