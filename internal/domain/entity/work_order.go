package entity

import "time"

// WorkOrder representa una orden de trabajo. El folio lo entrega el cliente.
type WorkOrder struct {
	Folio        int64
	RequestedAt  time.Time
	DeliveryAt   time.Time
	Observation  string
	ClientRUT    string
	Address      string
	ProvinceID   int
	CommuneID    int
	Description  string
	Status       string
	DocumentPath string
	Services     []string // sin precio, comparte tabla de detalle con facturas
}
