package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/application/transfer"
	"github.com/jhoicas/Traslados-api/internal/domain"
)

// TransferHandler maneja las peticiones HTTP de traslados (protegido).
type TransferHandler struct {
	uc *transfer.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear traslado entre bodegas
// @Description  Con items la creación es transaccional: resuelve dispositivos
//               por IMEI/serial, valida stock en origen y asegura filas de
//               stock en destino. Sin items crea solo la cabecera pendiente.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "from_warehouse_id, to_warehouse_id, items opcionales"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), companyID, userID, in)
	if err != nil {
		return transferError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        page               query  int     false  "Página"  default(1)
// @Param        limit              query  int     false  "Límite [1,100]"  default(20)
// @Param        from_warehouse_id  query  string  false  "Filtrar por bodega origen"
// @Param        to_warehouse_id    query  string  false  "Filtrar por bodega destino"
// @Param        status             query  string  false  "pending | completed"
// @Param        created_from       query  string  false  "Desde (YYYY-MM-DD)"
// @Param        created_to         query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        sort_by            query  string  false  "created_at | status | from_warehouse_name | to_warehouse_name | item_count | total_quantity"
// @Param        sort_order         query  string  false  "asc | desc"
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var q dto.ListTransfersQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	out, err := h.uc.List(c.Context(), ScopeCompanyID(c), q)
	if err != nil {
		return transferError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de traslados
// @Description  Totales por estado, items en tránsito y desglose saliente/entrante por bodega.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TransferSummaryResponse
// @Router       /api/transfers/summary [get]
func (h *TransferHandler) Summary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Summary(c.Context(), companyID)
	if err != nil {
		return transferError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener traslado por ID (detalle con items)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), ScopeCompanyID(c), id)
	if err != nil {
		return transferError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar un traslado
// @Description  Por cada item registra el par de movimientos (salida en origen,
//               entrada en destino) y los eventos de dispositivo. Best-effort
//               por item; un traslado ya completado es conflicto.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.CompleteTransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	out, err := h.uc.Complete(c.Context(), ScopeCompanyID(c), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_COMPLETED", Message: "el traslado ya fue completado"})
		}
		return transferError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar un traslado pendiente
// @Description  Borra items y cabecera. Un traslado completado no se elimina:
//               ya generó movimientos de stock.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [delete]
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Delete(c.Context(), ScopeCompanyID(c), id); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_COMPLETED", Message: "el traslado ya generó movimientos de stock"})
		}
		return transferError(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

// MoveDeviceMapping godoc
// @Summary      Mover el mapeo dispositivo-stock entre bodegas (correctivo)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MoveDeviceMappingRequest  true  "device_id, sku, from/to warehouse"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers/device-mapping [post]
func (h *TransferHandler) MoveDeviceMapping(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.MoveDeviceMappingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.MoveDeviceMapping(c.Context(), companyID, in); err != nil {
		return transferError(c, err)
	}
	return c.JSON(fiber.Map{"device_id": in.DeviceID, "warehouse_id": in.ToWarehouseID})
}

// transferError traduce errores de dominio a respuestas HTTP. Los errores de
// disponibilidad de stock en la creación son 400 (culpa del request), no 404:
// el recurso pedido es el traslado, no la fila de stock. Nada inesperado se
// expone tal cual al cliente.
func transferError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()})
	}
	var noStock *domain.StockNotFoundError
	if errors.As(err, &noStock) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SKU_NOT_IN_WAREHOUSE", Message: noStock.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrDeviceNotMapped):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "DEVICE_NOT_MAPPED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
