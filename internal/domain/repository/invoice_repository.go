package repository

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas y sus líneas de servicio.
// Las lecturas devuelven la factura hidratada con sus líneas; (nil, nil) si el folio no existe.
type InvoiceRepository interface {
	// Create inserta la cabecera y asigna invoice.Folio con el valor generado.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update reemplaza todos los campos escalares de la factura.
	Update(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, folio int64, status string) error
	UpdateDocument(ctx context.Context, folio int64, path string) error
	GetByID(ctx context.Context, folio int64) (*entity.Invoice, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Invoice, error)
	// ReplaceLines borra todas las líneas del folio y vuelve a insertar las entregadas.
	ReplaceLines(ctx context.Context, folio int64, lines []entity.InvoiceLine) error
}
