package dto

import "time"

// WorkOrderFields campos editables de una orden de trabajo.
type WorkOrderFields struct {
	RequestedAt time.Time `json:"fecha_solicitud"`
	DeliveryAt  time.Time `json:"fecha_entrega"`
	Observation string    `json:"observacion" validate:"max=500"`
	ClientRUT   string    `json:"rut_cliente" validate:"required,max=12"`
	Address     string    `json:"direccion" validate:"required,max=200"`
	ProvinceID  int       `json:"id_provincia" validate:"gt=0"`
	CommuneID   int       `json:"id_comuna" validate:"gt=0"`
	Description string    `json:"descripcion" validate:"required,max=500"`
	Services    []string  `json:"servicios" validate:"required,min=1,dive,required,max=100"`
}

// CreateWorkOrderRequest body para POST /api/ordenes-trabajo. El folio lo define el cliente.
type CreateWorkOrderRequest struct {
	Folio int64 `json:"folio" validate:"gt=0"`
	WorkOrderFields
}

// UpdateWorkOrderRequest body para PUT /api/ordenes-trabajo/:folio.
type UpdateWorkOrderRequest struct {
	WorkOrderFields
	Status string `json:"estado" validate:"required,max=20"`
}

// WorkOrderResponse orden de trabajo con sus servicios.
type WorkOrderResponse struct {
	Folio        int64     `json:"folio"`
	RequestedAt  time.Time `json:"fecha_solicitud"`
	DeliveryAt   time.Time `json:"fecha_entrega"`
	Observation  string    `json:"observacion"`
	ClientRUT    string    `json:"rut_cliente"`
	Address      string    `json:"direccion"`
	ProvinceID   int       `json:"id_provincia"`
	CommuneID    int       `json:"id_comuna"`
	Description  string    `json:"descripcion"`
	Status       string    `json:"estado"`
	DocumentPath *string   `json:"documento"`
	Services     []string  `json:"servicios"`
}
