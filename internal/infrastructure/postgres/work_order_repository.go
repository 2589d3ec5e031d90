package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo implementación de WorkOrderRepository (usable con pool o tx).
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

const workOrderSelect = `
	SELECT o.folio, o.fecha_solicitud, o.fecha_entrega, o.observacion, o.rut_cliente, o.direccion,
	       o.id_provincia, o.id_comuna, o.descripcion, o.estado, o.documento,
	       d.nombre_servicio
	FROM ordenes_trabajo o
	LEFT JOIN detalle_servicios d ON d.folio_orden = o.folio`

// Create persiste la orden con el folio entregado por el cliente.
func (r *WorkOrderRepo) Create(ctx context.Context, order *entity.WorkOrder) error {
	query := `
		INSERT INTO ordenes_trabajo (folio, fecha_solicitud, fecha_entrega, observacion, rut_cliente,
		                             direccion, id_provincia, id_comuna, descripcion, estado, documento)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		order.Folio, order.RequestedAt, order.DeliveryAt, order.Observation, order.ClientRUT,
		order.Address, order.ProvinceID, order.CommuneID, order.Description, order.Status,
		nullIfEmpty(order.DocumentPath),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert orden %d: %w", order.Folio, domain.ErrConflict)
		}
		return fmt.Errorf("insert orden: %w", err)
	}
	return nil
}

// Update reemplaza los campos escalares de la orden.
func (r *WorkOrderRepo) Update(ctx context.Context, order *entity.WorkOrder) error {
	query := `
		UPDATE ordenes_trabajo
		SET fecha_solicitud = $2, fecha_entrega = $3, observacion = $4, rut_cliente = $5,
		    direccion = $6, id_provincia = $7, id_comuna = $8, descripcion = $9, estado = $10
		WHERE folio = $1`
	tag, err := r.q.Exec(ctx, query,
		order.Folio, order.RequestedAt, order.DeliveryAt, order.Observation, order.ClientRUT,
		order.Address, order.ProvinceID, order.CommuneID, order.Description, order.Status,
	)
	if err != nil {
		return fmt.Errorf("update orden: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update orden %d: %w", order.Folio, domain.ErrNotFound)
	}
	return nil
}

// UpdateStatus cambia solo el estado (eliminación lógica).
func (r *WorkOrderRepo) UpdateStatus(ctx context.Context, folio int64, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE ordenes_trabajo SET estado = $2 WHERE folio = $1`, folio, status)
	if err != nil {
		return fmt.Errorf("update estado orden: %w", err)
	}
	return nil
}

// UpdateDocument registra la ruta del PDF generado.
func (r *WorkOrderRepo) UpdateDocument(ctx context.Context, folio int64, path string) error {
	_, err := r.q.Exec(ctx, `UPDATE ordenes_trabajo SET documento = $2 WHERE folio = $1`, folio, nullIfEmpty(path))
	if err != nil {
		return fmt.Errorf("update documento orden: %w", err)
	}
	return nil
}

// GetByID obtiene la orden con sus servicios; (nil, nil) si no existe.
func (r *WorkOrderRepo) GetByID(ctx context.Context, folio int64) (*entity.WorkOrder, error) {
	rows, err := r.q.Query(ctx, workOrderSelect+` WHERE o.folio = $1 ORDER BY d.nombre_servicio`, folio)
	if err != nil {
		return nil, fmt.Errorf("get orden: %w", err)
	}
	list, err := scanWorkOrders(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListByStatus lista órdenes de un estado con sus servicios.
func (r *WorkOrderRepo) ListByStatus(ctx context.Context, status string) ([]*entity.WorkOrder, error) {
	rows, err := r.q.Query(ctx, workOrderSelect+` WHERE o.estado = $1 ORDER BY o.folio, d.nombre_servicio`, status)
	if err != nil {
		return nil, fmt.Errorf("list ordenes: %w", err)
	}
	return scanWorkOrders(rows)
}

// ReplaceServices borra los servicios del folio e inserta los nuevos (sin precio).
func (r *WorkOrderRepo) ReplaceServices(ctx context.Context, folio int64, services []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM detalle_servicios WHERE folio_orden = $1`, folio); err != nil {
		return fmt.Errorf("delete servicios orden: %w", err)
	}
	for _, name := range services {
		_, err := r.q.Exec(ctx, `INSERT INTO detalle_servicios (folio_orden, nombre_servicio) VALUES ($1, $2)`, folio, name)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert servicio orden %q: %w", name, domain.ErrConflict)
			}
			return fmt.Errorf("insert servicio orden: %w", err)
		}
	}
	return nil
}

func scanWorkOrders(rows pgx.Rows) ([]*entity.WorkOrder, error) {
	defer rows.Close()
	var list []*entity.WorkOrder
	byFolio := make(map[int64]*entity.WorkOrder)
	for rows.Next() {
		var (
			o           entity.WorkOrder
			observacion *string
			documento   *string
			serviceName *string
		)
		if err := rows.Scan(
			&o.Folio, &o.RequestedAt, &o.DeliveryAt, &observacion, &o.ClientRUT, &o.Address,
			&o.ProvinceID, &o.CommuneID, &o.Description, &o.Status, &documento,
			&serviceName,
		); err != nil {
			return nil, fmt.Errorf("scan orden: %w", err)
		}
		current, ok := byFolio[o.Folio]
		if !ok {
			o.Observation = derefStr(observacion)
			o.DocumentPath = derefStr(documento)
			o.Services = []string{}
			current = &o
			byFolio[o.Folio] = current
			list = append(list, current)
		}
		if serviceName != nil {
			current.Services = append(current.Services, *serviceName)
		}
	}
	return list, rows.Err()
}
