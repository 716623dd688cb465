package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.DeviceRepository = (*DeviceRepo)(nil)

// DeviceRepo implementación de DeviceRepository sobre PostgreSQL (usable con pool o tx).
type DeviceRepo struct {
	q Querier
}

// NewDeviceRepository construye el adaptador de dispositivos. Pasar pool o tx (Querier).
func NewDeviceRepository(q Querier) *DeviceRepo {
	return &DeviceRepo{q: q}
}

const deviceColumns = `id, company_id, sku, serial, imei, warehouse_id, created_at, updated_at`

// GetByID obtiene un dispositivo por ID. nil si no existe.
func (r *DeviceRepo) GetByID(id string) (*entity.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1`
	return r.scanOne(query, id)
}

// FindByIdentifier busca un dispositivo cuyo IMEI o serial coincida con el
// identificador. companyID vacío = búsqueda global. nil si no hay match.
func (r *DeviceRepo) FindByIdentifier(companyID, identifier string) (*entity.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE (imei = $1 OR serial = $1)`
	args := []any{identifier}
	if companyID != "" {
		query += ` AND company_id = $2`
		args = append(args, companyID)
	}
	query += ` LIMIT 1`
	return r.scanOne(query, args...)
}

func (r *DeviceRepo) scanOne(query string, args ...any) (*entity.Device, error) {
	var d entity.Device
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&d.ID, &d.CompanyID, &d.SKU, &d.Serial, &d.IMEI, &d.WarehouseID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device: %w", err)
	}
	return &d, nil
}

// IsMappedToStock verifica que el dispositivo esté asociado a la fila de stock dada.
func (r *DeviceRepo) IsMappedToStock(deviceID, stockID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM device_stock WHERE device_id = $1 AND stock_id = $2)`
	var mapped bool
	if err := r.q.QueryRow(context.Background(), query, deviceID, stockID).Scan(&mapped); err != nil {
		return false, fmt.Errorf("check device mapping: %w", err)
	}
	return mapped, nil
}

// MoveStockMapping mueve el mapeo dispositivo-stock: borra el mapeo origen,
// inserta el destino y actualiza la bodega del dispositivo. Los tres pasos
// comparten la transacción del Querier; sin mapeo origen retorna ErrNotFound.
func (r *DeviceRepo) MoveStockMapping(deviceID, fromStockID, toStockID, toWarehouseID string) error {
	ctx := context.Background()
	cmd, err := r.q.Exec(ctx, `DELETE FROM device_stock WHERE device_id = $1 AND stock_id = $2`,
		deviceID, fromStockID)
	if err != nil {
		return fmt.Errorf("delete device mapping: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	_, err = r.q.Exec(ctx, `INSERT INTO device_stock (device_id, stock_id) VALUES ($1, $2)`,
		deviceID, toStockID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert device mapping: %w", err)
	}
	_, err = r.q.Exec(ctx, `UPDATE devices SET warehouse_id = $2, updated_at = now() WHERE id = $1`,
		deviceID, toWarehouseID)
	if err != nil {
		return fmt.Errorf("update device warehouse: %w", err)
	}
	return nil
}
