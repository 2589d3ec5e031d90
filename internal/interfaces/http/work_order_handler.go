package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
)

// WorkOrderService operaciones de órdenes de trabajo que expone el handler.
type WorkOrderService interface {
	Create(ctx context.Context, in dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error)
	GetByID(ctx context.Context, folio int64) (*dto.WorkOrderResponse, error)
	GetAll(ctx context.Context) ([]*dto.WorkOrderResponse, error)
	GetAllDeleted(ctx context.Context) ([]*dto.WorkOrderResponse, error)
	Delete(ctx context.Context, folio int64) (*dto.WorkOrderResponse, error)
	Update(ctx context.Context, folio int64, in dto.UpdateWorkOrderRequest) (*dto.WorkOrderResponse, error)
	Document(ctx context.Context, folio int64) ([]byte, string, error)
}

// WorkOrderHandler maneja las peticiones HTTP de órdenes de trabajo.
type WorkOrderHandler struct {
	svc WorkOrderService
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(svc WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{svc: svc}
}

// Create POST /api/ordenes-trabajo
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkOrderRequest
	if err := BindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/ordenes-trabajo
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListDeleted GET /api/ordenes-trabajo/eliminadas
func (h *WorkOrderHandler) ListDeleted(c *fiber.Ctx) error {
	out, err := h.svc.GetAllDeleted(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID GET /api/ordenes-trabajo/:folio
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	folio, err := parseFolio(c)
	if err != nil {
		return err
	}
	out, err := h.svc.GetByID(c.UserContext(), folio)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update PUT /api/ordenes-trabajo/:folio
func (h *WorkOrderHandler) Update(c *fiber.Ctx) error {
	folio, err := parseFolio(c)
	if err != nil {
		return err
	}
	var in dto.UpdateWorkOrderRequest
	if err := BindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Update(c.UserContext(), folio, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete DELETE /api/ordenes-trabajo/:folio
func (h *WorkOrderHandler) Delete(c *fiber.Ctx) error {
	folio, err := parseFolio(c)
	if err != nil {
		return err
	}
	out, err := h.svc.Delete(c.UserContext(), folio)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Document GET /api/ordenes-trabajo/:folio/documento
func (h *WorkOrderHandler) Document(c *fiber.Ctx) error {
	folio, err := parseFolio(c)
	if err != nil {
		return err
	}
	pdfBytes, filename, err := h.svc.Document(c.UserContext(), folio)
	if err != nil {
		return err
	}
	return sendPDF(c, pdfBytes, filename)
}
