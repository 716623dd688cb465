package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// MovementInput entrada para registrar un movimiento de stock.
// Quantity lleva signo: negativo para salidas, positivo para entradas.
type MovementInput struct {
	CompanyID   string
	SKU         string
	WarehouseID string
	IsPart      bool
	Quantity    decimal.Decimal
	Reason      string // entity.MovementReasonTransferOut | TransferIn
	RefType     string // entity.MovementRefTransfers
	RefID       string
	CreatedBy   string
	// UpdateStock aplica el delta a la fila de stock (bloqueada con
	// SELECT FOR UPDATE) además de registrar el movimiento.
	UpdateStock bool
}

// RegisterMovementUseCase registra movimientos de stock de forma transaccional:
// bloquea la fila de stock, valida disponibilidad en salidas, aplica el delta
// y persiste la línea del libro. Commit o Rollback por movimiento.
type RegisterMovementUseCase struct {
	txRunner TxRunner
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner}
}

// Register valida la entrada, inicia una transacción y registra el movimiento.
// La fila de stock debe existir de antemano (el motor de traslados crea
// placeholders en destino al crear el traslado); si no existe retorna
// StockNotFoundError. Una salida que supere lo disponible retorna
// InsufficientStockError: esta es la validación definitiva, la de creación
// del traslado es solo consultiva y el stock pudo cambiar entre ambas.
func (uc *RegisterMovementUseCase) Register(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if input.SKU == "" || input.WarehouseID == "" || input.CompanyID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	switch input.Reason {
	case entity.MovementReasonTransferOut, entity.MovementReasonTransferIn:
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		CompanyID:   input.CompanyID,
		SKU:         input.SKU,
		WarehouseID: input.WarehouseID,
		IsPart:      input.IsPart,
		Quantity:    input.Quantity,
		Reason:      input.Reason,
		RefType:     input.RefType,
		RefID:       input.RefID,
		CreatedAt:   now,
		CreatedBy:   input.CreatedBy,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
	) error {
		if input.UpdateStock {
			stock, err := stockRepo.GetForUpdate(input.CompanyID, input.WarehouseID, input.SKU)
			if err != nil {
				return err
			}
			if stock == nil {
				return &domain.StockNotFoundError{SKU: input.SKU, WarehouseID: input.WarehouseID}
			}
			newQty := stock.Quantity.Add(input.Quantity)
			if newQty.IsNegative() {
				return &domain.InsufficientStockError{
					SKU:       input.SKU,
					Available: stock.Quantity,
					Required:  input.Quantity.Neg(),
				}
			}
			stock.Quantity = newQty
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}
