package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/application/transfer"
)

// DeviceHandler maneja la búsqueda de dispositivos (protegido).
type DeviceHandler struct {
	uc *transfer.TransferUseCase
}

// NewDeviceHandler construye el handler.
func NewDeviceHandler(uc *transfer.TransferUseCase) *DeviceHandler {
	return &DeviceHandler{uc: uc}
}

// Lookup godoc
// @Summary      Buscar dispositivo por IMEI o serial
// @Description  Resuelve el dispositivo y su SKU canónico. Lo usa el frontend
//               al armar un traslado con equipos escaneados.
// @Tags         devices
// @Security     Bearer
// @Produce      json
// @Param        identifier  query  string  true  "IMEI o serial"
// @Success      200  {object}  dto.DeviceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/devices/lookup [get]
func (h *DeviceHandler) Lookup(c *fiber.Ctx) error {
	identifier := c.Query("identifier")
	if identifier == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifier es requerido"})
	}
	out, err := h.uc.LookupDevice(c.Context(), ScopeCompanyID(c), identifier)
	if err != nil {
		return transferError(c, err)
	}
	return c.JSON(out)
}
