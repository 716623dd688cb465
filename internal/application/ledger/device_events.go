package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// DeviceEventUseCase registra eventos de ciclo de vida de dispositivos
// (transfer_out / transfer_in) referenciando el traslado causante.
type DeviceEventUseCase struct {
	repo repository.DeviceEventRepository
}

// NewDeviceEventUseCase construye el caso de uso.
func NewDeviceEventUseCase(repo repository.DeviceEventRepository) *DeviceEventUseCase {
	return &DeviceEventUseCase{repo: repo}
}

// TransferOut registra la salida de un dispositivo por traslado.
// El actor es el creador del traslado.
func (uc *DeviceEventUseCase) TransferOut(ctx context.Context, companyID, deviceID, actorID, transferID string) (*entity.DeviceEvent, error) {
	return uc.create(companyID, deviceID, actorID, transferID, entity.DeviceEventTransferOut)
}

// TransferIn registra la entrada de un dispositivo por traslado.
// El actor es quien completa el traslado.
func (uc *DeviceEventUseCase) TransferIn(ctx context.Context, companyID, deviceID, actorID, transferID string) (*entity.DeviceEvent, error) {
	return uc.create(companyID, deviceID, actorID, transferID, entity.DeviceEventTransferIn)
}

func (uc *DeviceEventUseCase) create(companyID, deviceID, actorID, transferID, eventType string) (*entity.DeviceEvent, error) {
	event := &entity.DeviceEvent{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		DeviceID:  deviceID,
		Type:      eventType,
		RefType:   entity.MovementRefTransfers,
		RefID:     transferID,
		CreatedBy: actorID,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}
