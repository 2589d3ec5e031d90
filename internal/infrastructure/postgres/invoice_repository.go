package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceSelect = `
	SELECT f.folio, f.pago_neto, f.iva, f.fecha_emision, f.rut_emisor, f.rut_receptor,
	       f.codigo_giro, f.documento, f.estado, f.correo_usuario, f.exento_iva,
	       d.nombre_servicio, d.precio_neto
	FROM facturas f
	LEFT JOIN detalle_servicios d ON d.folio_factura = f.folio`

// Create persiste la cabecera de la factura; el folio lo asigna la secuencia.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO facturas (pago_neto, iva, fecha_emision, rut_emisor, rut_receptor, codigo_giro,
		                      documento, estado, correo_usuario, exento_iva)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING folio`
	err := r.q.QueryRow(ctx, query,
		invoice.NetPayment, invoice.VAT, invoice.IssuedAt, invoice.IssuerRUT, invoice.ReceiverRUT,
		invoice.BusinessLineCode, nullIfEmpty(invoice.DocumentPath), invoice.Status, invoice.UserEmail,
		invoice.VATExempt,
	).Scan(&invoice.Folio)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert factura: %w: %v", domain.ErrNotFound, err)
		}
		return fmt.Errorf("insert factura: %w", err)
	}
	return nil
}

// Update reemplaza los campos escalares de la factura.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE facturas
		SET pago_neto = $2, iva = $3, rut_receptor = $4, codigo_giro = $5,
		    estado = $6, correo_usuario = $7, exento_iva = $8
		WHERE folio = $1`
	tag, err := r.q.Exec(ctx, query,
		invoice.Folio, invoice.NetPayment, invoice.VAT, invoice.ReceiverRUT, invoice.BusinessLineCode,
		invoice.Status, invoice.UserEmail, invoice.VATExempt,
	)
	if err != nil {
		return fmt.Errorf("update factura: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update factura %d: %w", invoice.Folio, domain.ErrNotFound)
	}
	return nil
}

// UpdateStatus cambia solo el estado (eliminación lógica).
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, folio int64, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE facturas SET estado = $2 WHERE folio = $1`, folio, status)
	if err != nil {
		return fmt.Errorf("update estado factura: %w", err)
	}
	return nil
}

// UpdateDocument registra la ruta del PDF generado.
func (r *InvoiceRepo) UpdateDocument(ctx context.Context, folio int64, path string) error {
	_, err := r.q.Exec(ctx, `UPDATE facturas SET documento = $2 WHERE folio = $1`, folio, nullIfEmpty(path))
	if err != nil {
		return fmt.Errorf("update documento factura: %w", err)
	}
	return nil
}

// GetByID obtiene la factura con sus líneas; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, folio int64) (*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, invoiceSelect+` WHERE f.folio = $1 ORDER BY d.nombre_servicio`, folio)
	if err != nil {
		return nil, fmt.Errorf("get factura: %w", err)
	}
	list, err := scanInvoices(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListByStatus lista facturas de un estado, ordenadas por folio, con sus líneas.
func (r *InvoiceRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, invoiceSelect+` WHERE f.estado = $1 ORDER BY f.folio, d.nombre_servicio`, status)
	if err != nil {
		return nil, fmt.Errorf("list facturas: %w", err)
	}
	return scanInvoices(rows)
}

// ReplaceLines borra las líneas del folio e inserta las nuevas.
func (r *InvoiceRepo) ReplaceLines(ctx context.Context, folio int64, lines []entity.InvoiceLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM detalle_servicios WHERE folio_factura = $1`, folio); err != nil {
		return fmt.Errorf("delete detalle factura: %w", err)
	}
	query := `
		INSERT INTO detalle_servicios (folio_factura, nombre_servicio, precio_neto)
		VALUES ($1, $2, $3)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, query, folio, l.ServiceName, l.NetPrice); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert detalle factura %q: %w", l.ServiceName, domain.ErrConflict)
			}
			return fmt.Errorf("insert detalle factura: %w", err)
		}
	}
	return nil
}

// scanInvoices agrupa las filas del LEFT JOIN por folio conservando el orden de llegada.
func scanInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	defer rows.Close()
	var list []*entity.Invoice
	byFolio := make(map[int64]*entity.Invoice)
	for rows.Next() {
		var (
			inv         entity.Invoice
			documento   *string
			serviceName *string
			netPrice    decimal.NullDecimal
		)
		if err := rows.Scan(
			&inv.Folio, &inv.NetPayment, &inv.VAT, &inv.IssuedAt, &inv.IssuerRUT, &inv.ReceiverRUT,
			&inv.BusinessLineCode, &documento, &inv.Status, &inv.UserEmail, &inv.VATExempt,
			&serviceName, &netPrice,
		); err != nil {
			return nil, fmt.Errorf("scan factura: %w", err)
		}
		current, ok := byFolio[inv.Folio]
		if !ok {
			inv.DocumentPath = derefStr(documento)
			inv.Lines = []entity.InvoiceLine{}
			current = &inv
			byFolio[inv.Folio] = current
			list = append(list, current)
		}
		if serviceName != nil {
			current.Lines = append(current.Lines, entity.InvoiceLine{
				Folio:       current.Folio,
				ServiceName: *serviceName,
				NetPrice:    netPrice.Decimal,
			})
		}
	}
	return list, rows.Err()
}
