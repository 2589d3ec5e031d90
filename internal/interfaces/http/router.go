package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Invoices    InvoiceService
	WorkOrders  WorkOrderService
	JWTSecret   string // vacío: rutas /api sin autenticación
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: deps.ServiceName})
	})

	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
	}

	invoices := api.Group("/facturas")
	invoiceHandler := NewInvoiceHandler(deps.Invoices)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/eliminadas", invoiceHandler.ListDeleted)
	invoices.Get("/:folio", invoiceHandler.GetByID)
	invoices.Put("/:folio", invoiceHandler.Update)
	invoices.Delete("/:folio", invoiceHandler.Delete)
	invoices.Get("/:folio/documento", invoiceHandler.Document)

	orders := api.Group("/ordenes-trabajo")
	orderHandler := NewWorkOrderHandler(deps.WorkOrders)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/eliminadas", orderHandler.ListDeleted)
	orders.Get("/:folio", orderHandler.GetByID)
	orders.Put("/:folio", orderHandler.Update)
	orders.Delete("/:folio", orderHandler.Delete)
	orders.Get("/:folio/documento", orderHandler.Document)
}
