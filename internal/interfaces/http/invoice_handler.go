package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
)

// InvoiceService operaciones de facturas que expone el handler.
type InvoiceService interface {
	Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetByID(ctx context.Context, folio int64) (*dto.InvoiceResponse, error)
	GetAll(ctx context.Context) ([]*dto.InvoiceResponse, error)
	GetAllDeleted(ctx context.Context) ([]*dto.InvoiceResponse, error)
	Delete(ctx context.Context, folio int64) (*dto.InvoiceResponse, error)
	Update(ctx context.Context, folio int64, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	Document(ctx context.Context, folio int64) ([]byte, string, error)
}

// InvoiceHandler maneja las peticiones HTTP de facturas.
type InvoiceHandler struct {
	svc InvoiceService
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(svc InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// Create crea una factura con sus servicios.
// POST /api/facturas
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := BindAndValidate(c, &in); err != nil {
		return err
	}
	if err := requireAuthor(c, in.UserEmail); err != nil {
		return err
	}
	out, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/facturas
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListDeleted GET /api/facturas/eliminadas
func (h *InvoiceHandler) ListDeleted(c *fiber.Ctx) error {
	out, err := h.svc.GetAllDeleted(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID GET /api/facturas/:folio
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
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

// Update reemplaza la factura completa.
// PUT /api/facturas/:folio
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	folio, err := parseFolio(c)
	if err != nil {
		return err
	}
	var in dto.UpdateInvoiceRequest
	if err := BindAndValidate(c, &in); err != nil {
		return err
	}
	if err := requireAuthor(c, in.UserEmail); err != nil {
		return err
	}
	out, err := h.svc.Update(c.UserContext(), folio, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete marca la factura como eliminada.
// DELETE /api/facturas/:folio
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
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

// Document descarga el PDF de la factura.
// GET /api/facturas/:folio/documento
func (h *InvoiceHandler) Document(c *fiber.Ctx) error {
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

func sendPDF(c *fiber.Ctx, pdfBytes []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
