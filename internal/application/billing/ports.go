package billing

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// BillingTxRunner ejecuta fn dentro de una transacción con los repos de facturas y órdenes atados a ella.
// Si fn retorna error se hace rollback.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		orderRepo repository.WorkOrderRepository,
	) error) error
}

// InvoiceDocument datos finales que necesita el renderizador para la factura.
type InvoiceDocument struct {
	Invoice          *entity.Invoice
	IssuerName       string
	ReceiverName     string
	BusinessLineName string
}

// WorkOrderDocument datos finales que necesita el renderizador para la orden de trabajo.
type WorkOrderDocument struct {
	Order        *entity.WorkOrder
	ClientName   string
	ProvinceName string
	CommuneName  string
}

// DocumentRenderer genera la representación PDF y la guarda; devuelve la ruta relativa almacenada.
type DocumentRenderer interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) (string, error)
	RenderWorkOrder(ctx context.Context, doc WorkOrderDocument) (string, error)
	// Load lee un documento previamente guardado a partir de su ruta relativa.
	Load(ctx context.Context, path string) ([]byte, error)
}

// IssuerConfig identidad fija del emisor de las facturas.
type IssuerConfig struct {
	RUT  string
	Name string
}
