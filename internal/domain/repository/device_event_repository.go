package repository

import "github.com/jhoicas/Traslados-api/internal/domain/entity"

// DeviceEventRepository define el puerto de persistencia de eventos de dispositivo (append-only).
type DeviceEventRepository interface {
	Create(event *entity.DeviceEvent) error
	ListByDevice(deviceID string, limit, offset int) ([]*entity.DeviceEvent, error)
}
