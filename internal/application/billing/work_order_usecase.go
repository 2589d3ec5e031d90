package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

const servicesPath = "servicios"

// WorkOrderUseCase maneja el ciclo de vida de las órdenes de trabajo. Es paralelo a
// InvoiceUseCase pero con folio entregado por el cliente y sin montos.
type WorkOrderUseCase struct {
	txRunner   BillingTxRunner
	orderRepo  repository.WorkOrderRepository
	refs       *ReferenceValidator
	reconciler *Reconciler
	renderer   DocumentRenderer
	log        zerolog.Logger
}

// NewWorkOrderUseCase construye el caso de uso.
func NewWorkOrderUseCase(
	txRunner BillingTxRunner,
	orderRepo repository.WorkOrderRepository,
	refs *ReferenceValidator,
	renderer DocumentRenderer,
	log zerolog.Logger,
) *WorkOrderUseCase {
	return &WorkOrderUseCase{
		txRunner:   txRunner,
		orderRepo:  orderRepo,
		refs:       refs,
		reconciler: NewReconciler(refs),
		renderer:   renderer,
		log:        log,
	}
}

type workOrderRefs struct {
	client   *entity.Reference
	province *entity.Reference
	commune  *entity.Reference
	services []string
}

// Create persiste una orden nueva. El folio repetido se rechaza antes de cualquier otra validación.
func (uc *WorkOrderUseCase) Create(ctx context.Context, in dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	if in.Folio <= 0 {
		return nil, domain.Invalid("folio", in.Folio, domain.LocationBody, "el folio debe ser un entero positivo")
	}
	existing, err := uc.orderRepo.GetByID(ctx, in.Folio)
	if err != nil {
		return nil, fmt.Errorf("obtener orden de trabajo: %w", err)
	}
	if existing != nil {
		return nil, domain.Conflict("folio", in.Folio, domain.LocationBody, "ya existe una orden de trabajo con ese folio")
	}
	refs, err := uc.validate(ctx, in.WorkOrderFields)
	if err != nil {
		return nil, err
	}

	order := newWorkOrder(in.Folio, in.WorkOrderFields, entity.StatusActive, refs.services)
	err = uc.txRunner.RunBilling(ctx, func(_ repository.InvoiceRepository, orderRepo repository.WorkOrderRepository) error {
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return orderRepo.ReplaceServices(ctx, order.Folio, order.Services)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict("folio", in.Folio, domain.LocationBody, "ya existe una orden de trabajo con ese folio")
		}
		return nil, fmt.Errorf("crear orden de trabajo: %w", err)
	}
	uc.log.Info().Int64("folio", order.Folio).Str("cliente", order.ClientRUT).Msg("orden de trabajo creada")

	uc.render(ctx, order, refs)
	return toWorkOrderResponse(order), nil
}

// GetByID obtiene una orden por folio, cualquiera sea su estado.
func (uc *WorkOrderUseCase) GetByID(ctx context.Context, folio int64) (*dto.WorkOrderResponse, error) {
	order, err := uc.mustGet(ctx, folio)
	if err != nil {
		return nil, err
	}
	return toWorkOrderResponse(order), nil
}

// GetAll lista las órdenes activas; vacío se informa como NotFound.
func (uc *WorkOrderUseCase) GetAll(ctx context.Context) ([]*dto.WorkOrderResponse, error) {
	return uc.listByStatus(ctx, entity.StatusActive, "no hay órdenes de trabajo activas")
}

// GetAllDeleted lista las órdenes eliminadas; vacío se informa como NotFound.
func (uc *WorkOrderUseCase) GetAllDeleted(ctx context.Context) ([]*dto.WorkOrderResponse, error) {
	return uc.listByStatus(ctx, entity.StatusDeleted, "no hay órdenes de trabajo eliminadas")
}

func (uc *WorkOrderUseCase) listByStatus(ctx context.Context, status, emptyMsg string) ([]*dto.WorkOrderResponse, error) {
	list, err := uc.orderRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes de trabajo: %w", err)
	}
	if len(list) == 0 {
		return nil, domain.NotFound("estado", status, domain.LocationParams, emptyMsg)
	}
	out := make([]*dto.WorkOrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toWorkOrderResponse(o))
	}
	return out, nil
}

// Delete marca la orden como eliminada; si ya lo estaba responde Conflict.
func (uc *WorkOrderUseCase) Delete(ctx context.Context, folio int64) (*dto.WorkOrderResponse, error) {
	order, err := uc.mustGet(ctx, folio)
	if err != nil {
		return nil, err
	}
	if order.Status == entity.StatusDeleted {
		return nil, domain.Conflict("folio", folio, domain.LocationParams, "la orden de trabajo ya está eliminada")
	}
	if err := uc.orderRepo.UpdateStatus(ctx, folio, entity.StatusDeleted); err != nil {
		return nil, fmt.Errorf("eliminar orden de trabajo: %w", err)
	}
	order.Status = entity.StatusDeleted
	uc.log.Info().Int64("folio", folio).Msg("orden de trabajo eliminada")
	return toWorkOrderResponse(order), nil
}

// Update reemplaza los campos y servicios de una orden existente.
func (uc *WorkOrderUseCase) Update(ctx context.Context, folio int64, in dto.UpdateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	current, err := uc.mustGet(ctx, folio)
	if err != nil {
		return nil, err
	}
	refs, err := uc.validate(ctx, in.WorkOrderFields)
	if err != nil {
		return nil, err
	}
	if _, err := uc.refs.Require(ctx, entity.KindStatus, in.Status, "estado", domain.LocationBody); err != nil {
		return nil, err
	}

	order := newWorkOrder(folio, in.WorkOrderFields, in.Status, refs.services)
	order.DocumentPath = current.DocumentPath
	err = uc.txRunner.RunBilling(ctx, func(_ repository.InvoiceRepository, orderRepo repository.WorkOrderRepository) error {
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		return orderRepo.ReplaceServices(ctx, folio, order.Services)
	})
	if err != nil {
		return nil, fmt.Errorf("actualizar orden de trabajo: %w", err)
	}
	uc.log.Info().Int64("folio", folio).Str("estado", order.Status).Msg("orden de trabajo actualizada")

	uc.render(ctx, order, refs)
	return toWorkOrderResponse(order), nil
}

// Document devuelve el PDF almacenado de la orden.
func (uc *WorkOrderUseCase) Document(ctx context.Context, folio int64) (pdfBytes []byte, filename string, err error) {
	order, err := uc.mustGet(ctx, folio)
	if err != nil {
		return nil, "", err
	}
	if order.DocumentPath == "" {
		return nil, "", domain.NotFound("documento", folio, domain.LocationParams, "la orden de trabajo no tiene documento generado")
	}
	pdfBytes, err = uc.renderer.Load(ctx, order.DocumentPath)
	if err != nil {
		return nil, "", fmt.Errorf("leer documento: %w", err)
	}
	return pdfBytes, "orden_trabajo_" + strconv.FormatInt(folio, 10) + ".pdf", nil
}

// validate: fechas, cliente, provincia, comuna (y pertenencia a la provincia), servicios.
func (uc *WorkOrderUseCase) validate(ctx context.Context, in dto.WorkOrderFields) (*workOrderRefs, error) {
	if in.RequestedAt.IsZero() {
		return nil, domain.Invalid("fecha_solicitud", nil, domain.LocationBody, "la fecha de solicitud es obligatoria")
	}
	if in.DeliveryAt.IsZero() {
		return nil, domain.Invalid("fecha_entrega", nil, domain.LocationBody, "la fecha de entrega es obligatoria")
	}
	if len(in.Services) == 0 {
		return nil, domain.Invalid(servicesPath, nil, domain.LocationBody, "debe incluir al menos un servicio")
	}
	client, err := uc.refs.Require(ctx, entity.KindCompany, in.ClientRUT, "rut_cliente", domain.LocationBody)
	if err != nil {
		return nil, err
	}
	provinceKey := strconv.Itoa(in.ProvinceID)
	province, err := uc.refs.Require(ctx, entity.KindProvince, provinceKey, "id_provincia", domain.LocationBody)
	if err != nil {
		return nil, err
	}
	commune, err := uc.refs.Require(ctx, entity.KindCommune, strconv.Itoa(in.CommuneID), "id_comuna", domain.LocationBody)
	if err != nil {
		return nil, err
	}
	if commune.ParentKey != "" && commune.ParentKey != provinceKey {
		return nil, domain.BusinessRule("id_comuna", in.CommuneID, domain.LocationBody, "la comuna no pertenece a la provincia indicada")
	}
	services, err := uc.reconciler.CheckServices(ctx, in.Services, servicesPath)
	if err != nil {
		return nil, err
	}
	return &workOrderRefs{client: client, province: province, commune: commune, services: services}, nil
}

func (uc *WorkOrderUseCase) mustGet(ctx context.Context, folio int64) (*entity.WorkOrder, error) {
	order, err := uc.orderRepo.GetByID(ctx, folio)
	if err != nil {
		return nil, fmt.Errorf("obtener orden de trabajo: %w", err)
	}
	if order == nil {
		return nil, domain.NotFound("folio", folio, domain.LocationParams, "la orden de trabajo no existe")
	}
	return order, nil
}

// render es de mejor esfuerzo: el fallo solo se registra.
func (uc *WorkOrderUseCase) render(ctx context.Context, order *entity.WorkOrder, refs *workOrderRefs) {
	path, err := uc.renderer.RenderWorkOrder(ctx, WorkOrderDocument{
		Order:        order,
		ClientName:   refs.client.Name,
		ProvinceName: refs.province.Name,
		CommuneName:  refs.commune.Name,
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("folio", order.Folio).Msg("no se pudo generar el PDF de la orden de trabajo")
		return
	}
	if err := uc.orderRepo.UpdateDocument(ctx, order.Folio, path); err != nil {
		uc.log.Warn().Err(err).Int64("folio", order.Folio).Msg("no se pudo registrar la ruta del PDF")
		return
	}
	order.DocumentPath = path
}

func newWorkOrder(folio int64, in dto.WorkOrderFields, status string, services []string) *entity.WorkOrder {
	return &entity.WorkOrder{
		Folio:       folio,
		RequestedAt: toStoredTime(in.RequestedAt),
		DeliveryAt:  toStoredTime(in.DeliveryAt),
		Observation: in.Observation,
		ClientRUT:   in.ClientRUT,
		Address:     in.Address,
		ProvinceID:  in.ProvinceID,
		CommuneID:   in.CommuneID,
		Description: in.Description,
		Status:      status,
		Services:    services,
	}
}

// toStoredTime lleva la fecha a la precisión de TIMESTAMPTZ (microsegundos, UTC) para que
// la respuesta de Create sea igual a la que luego devuelve GetByID.
func toStoredTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func toWorkOrderResponse(o *entity.WorkOrder) *dto.WorkOrderResponse {
	services := make([]string, len(o.Services))
	copy(services, o.Services)
	return &dto.WorkOrderResponse{
		Folio:        o.Folio,
		RequestedAt:  o.RequestedAt,
		DeliveryAt:   o.DeliveryAt,
		Observation:  o.Observation,
		ClientRUT:    o.ClientRUT,
		Address:      o.Address,
		ProvinceID:   o.ProvinceID,
		CommuneID:    o.CommuneID,
		Description:  o.Description,
		Status:       o.Status,
		DocumentPath: nullableString(o.DocumentPath),
		Services:     services,
	}
}
