package billing

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// LineItem servicio con su precio neto, tal como llega del cliente.
type LineItem struct {
	ServiceName string
	NetPrice    decimal.Decimal
}

// Reconciliation resultado de validar las líneas: total exacto y líneas normalizadas.
type Reconciliation struct {
	Total decimal.Decimal
	Lines []entity.InvoiceLine
}

// Reconciler valida listas de servicios (duplicados y existencia) y suma sus precios.
// No escribe en la base de datos.
type Reconciler struct {
	refs *ReferenceValidator
}

// NewReconciler construye el reconciliador.
func NewReconciler(refs *ReferenceValidator) *Reconciler {
	return &Reconciler{refs: refs}
}

// Reconcile valida las líneas de una factura y devuelve la suma de sus precios netos.
// path es el nombre del campo que se reporta en los errores.
func (r *Reconciler) Reconcile(ctx context.Context, items []LineItem, path string) (*Reconciliation, error) {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.ServiceName
	}
	names, err := r.CheckServices(ctx, names, path)
	if err != nil {
		return nil, err
	}
	out := &Reconciliation{Total: decimal.Zero, Lines: make([]entity.InvoiceLine, 0, len(items))}
	for i, it := range items {
		out.Total = out.Total.Add(it.NetPrice)
		out.Lines = append(out.Lines, entity.InvoiceLine{ServiceName: names[i], NetPrice: it.NetPrice})
	}
	return out, nil
}

// CheckServices rechaza nombres repetidos y luego verifica que cada servicio exista, en el orden
// de entrada. La pasada de duplicados termina antes de la primera consulta, de modo que un nombre
// repetido nunca llega a buscarse. Devuelve los nombres normalizados.
func (r *Reconciler) CheckServices(ctx context.Context, names []string, path string) ([]string, error) {
	normalized := make([]string, len(names))
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		n := normalizeServiceName(name)
		if _, dup := seen[n]; dup {
			return nil, domain.BusinessRule(path, name, domain.LocationBody, "servicio duplicado en la lista")
		}
		seen[n] = struct{}{}
		normalized[i] = n
	}
	for _, n := range normalized {
		if _, err := r.refs.Require(ctx, entity.KindService, n, path, domain.LocationBody); err != nil {
			return nil, err
		}
	}
	return normalized, nil
}

// normalizeServiceName recorta espacios y lleva el nombre a NFC para que "Instalación"
// compuesto y descompuesto se traten como el mismo servicio.
func normalizeServiceName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
