package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/facturas.
type CreateInvoiceRequest struct {
	NetPayment       decimal.Decimal      `json:"pago_neto" validate:"gt=0"`
	VAT              decimal.Decimal      `json:"iva" validate:"gte=0"`
	ReceiverRUT      string               `json:"rut_receptor" validate:"required,max=12"`
	BusinessLineCode string               `json:"codigo_giro" validate:"required,max=10"`
	UserEmail        string               `json:"correo_usuario" validate:"required,email"`
	VATExempt        string               `json:"exento_iva" validate:"required,oneof=yes no"`
	Lines            []InvoiceLineRequest `json:"precio_por_servicio" validate:"required,min=1,dive"`
}

// InvoiceLineRequest servicio facturado con su precio neto.
type InvoiceLineRequest struct {
	ServiceName string          `json:"nombre_servicio" validate:"required,max=100"`
	NetPrice    decimal.Decimal `json:"precio_neto" validate:"gt=0"`
}

// UpdateInvoiceRequest body para PUT /api/facturas/:folio (reemplazo completo).
type UpdateInvoiceRequest struct {
	CreateInvoiceRequest
	Status string `json:"estado" validate:"required,max=20"`
}

// InvoiceResponse factura hidratada con sus líneas.
type InvoiceResponse struct {
	Folio            int64                 `json:"folio"`
	NetPayment       decimal.Decimal       `json:"pago_neto"`
	VAT              decimal.Decimal       `json:"iva"`
	IssuedAt         time.Time             `json:"fecha_emision"`
	IssuerRUT        string                `json:"rut_emisor"`
	ReceiverRUT      string                `json:"rut_receptor"`
	BusinessLineCode string                `json:"codigo_giro"`
	DocumentPath     *string               `json:"documento"`
	Status           string                `json:"estado"`
	UserEmail        string                `json:"correo_usuario"`
	VATExempt        string                `json:"exento_iva"`
	Lines            []InvoiceLineResponse `json:"precio_por_servicio"`
}

// InvoiceLineResponse línea de servicio en la respuesta.
type InvoiceLineResponse struct {
	ServiceName string          `json:"nombre_servicio"`
	NetPrice    decimal.Decimal `json:"precio_neto"`
}
