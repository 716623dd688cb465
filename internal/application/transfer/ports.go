package transfer

import (
	"context"

	"github.com/jhoicas/Traslados-api/internal/application/ledger"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la frontera de atomicidad de la creación
// con items, del movimiento de mapeo y del borrado: cualquier error dentro
// de fn revierte todo lo escrito en esa llamada.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		transferRepo repository.TransferRepository,
		stockRepo repository.StockRepository,
		deviceRepo repository.DeviceRepository,
	) error) error
}

// MovementLedger es el libro de movimientos: registra un delta con signo
// sobre una fila de stock. La completación lo invoca dos veces por item
// (salida en origen, entrada en destino), cada llamada en su propia
// transacción.
type MovementLedger interface {
	Register(ctx context.Context, input ledger.MovementInput) (*entity.StockMovement, error)
}

// DeviceEventRecorder registra eventos de ciclo de vida de dispositivos.
type DeviceEventRecorder interface {
	TransferOut(ctx context.Context, companyID, deviceID, actorID, transferID string) (*entity.DeviceEvent, error)
	TransferIn(ctx context.Context, companyID, deviceID, actorID, transferID string) (*entity.DeviceEvent, error)
}
