// Package pdf genera la representación impresa de facturas y órdenes de trabajo con Maroto v2
// y la guarda en el directorio de documentos.
//
// Layout de la factura (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + RUT        │  FACTURA N° + Fecha           │
//	│  RECEPTOR: Razón social + RUT + Giro                         │
//	│  TABLA: Servicio | Precio neto                               │
//	│  TOTALES: Neto / IVA 19% / TOTAL                             │
//	│  FOOTER: QR con folio + leyenda                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/Gestion-api/internal/application/billing"
)

var _ appbilling.DocumentRenderer = (*MarotoRenderer)(nil)

const (
	invoicesDir   = "facturas"
	workOrdersDir = "ordenes_trabajo"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// MarotoRenderer implementa billing.DocumentRenderer. Los archivos quedan bajo baseDir y
// se identifican por su ruta relativa.
type MarotoRenderer struct {
	baseDir string
}

// NewMarotoRenderer construye el renderizador sobre el directorio indicado.
func NewMarotoRenderer(baseDir string) *MarotoRenderer {
	return &MarotoRenderer{baseDir: baseDir}
}

// RenderInvoice genera el PDF de la factura y lo guarda en facturas/factura_<folio>.pdf.
func (r *MarotoRenderer) RenderInvoice(ctx context.Context, doc appbilling.InvoiceDocument) (string, error) {
	if doc.Invoice == nil {
		return "", fmt.Errorf("pdf: factura nula")
	}
	m := newDocument("Factura "+strconv.FormatInt(doc.Invoice.Folio, 10), doc.IssuerName)
	addInvoiceRows(m, doc)
	rel := filepath.Join(invoicesDir, "factura_"+strconv.FormatInt(doc.Invoice.Folio, 10)+".pdf")
	return rel, r.generate(ctx, m, rel)
}

// RenderWorkOrder genera el PDF de la orden y lo guarda en ordenes_trabajo/orden_<folio>.pdf.
func (r *MarotoRenderer) RenderWorkOrder(ctx context.Context, doc appbilling.WorkOrderDocument) (string, error) {
	if doc.Order == nil {
		return "", fmt.Errorf("pdf: orden nula")
	}
	m := newDocument("Orden de trabajo "+strconv.FormatInt(doc.Order.Folio, 10), doc.ClientName)
	addWorkOrderRows(m, doc)
	rel := filepath.Join(workOrdersDir, "orden_"+strconv.FormatInt(doc.Order.Folio, 10)+".pdf")
	return rel, r.generate(ctx, m, rel)
}

// Load lee un documento guardado. Rechaza rutas que salgan de baseDir.
func (r *MarotoRenderer) Load(_ context.Context, rel string) ([]byte, error) {
	full, err := r.resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("pdf: leer %s: %w", rel, err)
	}
	return data, nil
}

func (r *MarotoRenderer) generate(ctx context.Context, m core.Maroto, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	full, err := r.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("pdf: crear directorio: %w", err)
	}
	if err := os.WriteFile(full, doc.GetBytes(), 0o644); err != nil {
		return fmt.Errorf("pdf: guardar %s: %w", rel, err)
	}
	return nil
}

func (r *MarotoRenderer) resolve(rel string) (string, error) {
	clean := filepath.Clean(rel)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("pdf: ruta inválida %q", rel)
	}
	return filepath.Join(r.baseDir, clean), nil
}

// newDocument crea un documento A4 con la configuración común.
func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(nonEmpty(author, "-"), true).
		Build()
	return maroto.New(cfg)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}

// splitEvery divide s en trozos de max n caracteres (runas, no bytes).
func splitEvery(s string, n int) []string {
	r := []rune(s)
	var parts []string
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
