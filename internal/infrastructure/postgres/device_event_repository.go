package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.DeviceEventRepository = (*DeviceEventRepo)(nil)

// DeviceEventRepo implementación del registro de eventos de dispositivo
// sobre PostgreSQL (append-only).
type DeviceEventRepo struct {
	q Querier
}

// NewDeviceEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeviceEventRepository(q Querier) *DeviceEventRepo {
	return &DeviceEventRepo{q: q}
}

// Create persiste un evento de dispositivo.
func (r *DeviceEventRepo) Create(event *entity.DeviceEvent) error {
	query := `
		INSERT INTO device_events (id, company_id, device_id, type, ref_type, ref_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.CompanyID, event.DeviceID, event.Type,
		event.RefType, event.RefID, event.CreatedBy, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create device event: %w", err)
	}
	return nil
}

// ListByDevice lista el historial de eventos de un dispositivo, más reciente primero.
func (r *DeviceEventRepo) ListByDevice(deviceID string, limit, offset int) ([]*entity.DeviceEvent, error) {
	query := `
		SELECT id, company_id, device_id, type, ref_type, ref_id, created_by, created_at
		FROM device_events WHERE device_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, deviceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list device events: %w", err)
	}
	defer rows.Close()
	var list []*entity.DeviceEvent
	for rows.Next() {
		var e entity.DeviceEvent
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.DeviceID, &e.Type,
			&e.RefType, &e.RefID, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan device event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
