package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Traslados-api/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TransferUC *transfer.TransferUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/summary", transferHandler.Summary)
	transfers.Post("/device-mapping", transferHandler.MoveDeviceMapping)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/complete", transferHandler.Complete)
	transfers.Delete("/:id", transferHandler.Delete)

	devices := protected.Group("/devices")
	deviceHandler := NewDeviceHandler(deps.TransferUC)
	devices.Get("/lookup", deviceHandler.Lookup)
}
