package entity

// ReferenceKind identifica una tabla de referencia (solo lectura para el núcleo).
type ReferenceKind string

const (
	KindCompany      ReferenceKind = "empresa"
	KindService      ReferenceKind = "servicio"
	KindBusinessLine ReferenceKind = "giro"
	KindRegion       ReferenceKind = "region"
	KindProvince     ReferenceKind = "provincia"
	KindCommune      ReferenceKind = "comuna"
	KindUser         ReferenceKind = "usuario"
	KindStatus       ReferenceKind = "estado"
)

// Reference es un registro de referencia identificado por su clave natural
// (RUT de empresa, nombre de servicio, código de giro, id geográfico, correo, nombre de estado).
type Reference struct {
	Kind      ReferenceKind
	Key       string
	Name      string
	ParentKey string // provincia -> región, comuna -> provincia; vacío en el resto
}
