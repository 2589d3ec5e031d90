package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de facturas y órdenes de trabajo (tabla estados).
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// Valores de exento_iva.
const (
	VATExemptYes = "yes"
	VATExemptNo  = "no"
)

// Invoice representa la cabecera de una factura.
type Invoice struct {
	Folio            int64 // asignado por la base de datos
	NetPayment       decimal.Decimal
	VAT              decimal.Decimal
	IssuedAt         time.Time
	IssuerRUT        string // constante de configuración, nunca viene del cliente
	ReceiverRUT      string
	BusinessLineCode string
	DocumentPath     string // vacío hasta que el PDF se genera
	Status           string
	UserEmail        string
	VATExempt        string
	Lines            []InvoiceLine
}

// IsExempt indica si la factura está exenta de IVA.
func (i *Invoice) IsExempt() bool {
	return i.VATExempt == VATExemptYes
}

// InvoiceLine es una línea de servicio de la factura: (folio, servicio, precio neto).
type InvoiceLine struct {
	Folio       int64
	ServiceName string
	NetPrice    decimal.Decimal
}
