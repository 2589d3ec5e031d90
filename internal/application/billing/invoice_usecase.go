package billing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

const linesPath = "precio_por_servicio"

// InvoiceUseCase maneja el ciclo de vida de las facturas: creación, consulta,
// actualización completa y eliminación lógica.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	refs        *ReferenceValidator
	reconciler  *Reconciler
	renderer    DocumentRenderer
	issuer      IssuerConfig
	log         zerolog.Logger
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	refs *ReferenceValidator,
	renderer DocumentRenderer,
	issuer IssuerConfig,
	log zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		refs:        refs,
		reconciler:  NewReconciler(refs),
		renderer:    renderer,
		issuer:      issuer,
		log:         log,
		now:         time.Now,
	}
}

// invoiceRefs registros de referencia resueltos durante la validación (se usan en el PDF).
type invoiceRefs struct {
	receiver     *entity.Reference
	businessLine *entity.Reference
	lines        []entity.InvoiceLine
}

// Create valida y persiste una factura nueva con sus líneas, genera el PDF y devuelve la factura hidratada.
// Ninguna escritura ocurre si alguna validación falla.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	refs, err := uc.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		NetPayment:       in.NetPayment,
		VAT:              in.VAT,
		IssuedAt:         toStoredTime(uc.now()),
		IssuerRUT:        uc.issuer.RUT,
		ReceiverRUT:      in.ReceiverRUT,
		BusinessLineCode: in.BusinessLineCode,
		Status:           entity.StatusActive,
		UserEmail:        in.UserEmail,
		VATExempt:        in.VATExempt,
	}
	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.WorkOrderRepository) error {
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		inv.Lines = withFolio(refs.lines, inv.Folio)
		return invoiceRepo.ReplaceLines(ctx, inv.Folio, inv.Lines)
	})
	if err != nil {
		return nil, fmt.Errorf("crear factura: %w", err)
	}
	uc.log.Info().Int64("folio", inv.Folio).Str("receptor", inv.ReceiverRUT).Msg("factura creada")

	uc.render(ctx, inv, refs)
	return toInvoiceResponse(inv), nil
}

// GetByID obtiene una factura por folio, cualquiera sea su estado.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, folio int64) (*dto.InvoiceResponse, error) {
	inv, err := uc.mustGet(ctx, folio)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// GetAll lista las facturas activas. Un resultado vacío se informa como NotFound.
func (uc *InvoiceUseCase) GetAll(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	return uc.listByStatus(ctx, entity.StatusActive, "no hay facturas activas")
}

// GetAllDeleted lista las facturas eliminadas. Un resultado vacío se informa como NotFound.
func (uc *InvoiceUseCase) GetAllDeleted(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	return uc.listByStatus(ctx, entity.StatusDeleted, "no hay facturas eliminadas")
}

func (uc *InvoiceUseCase) listByStatus(ctx context.Context, status, emptyMsg string) ([]*dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	if len(list) == 0 {
		return nil, domain.NotFound("estado", status, domain.LocationParams, emptyMsg)
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

// Delete marca la factura como eliminada. Eliminar una factura ya eliminada es un conflicto.
func (uc *InvoiceUseCase) Delete(ctx context.Context, folio int64) (*dto.InvoiceResponse, error) {
	inv, err := uc.mustGet(ctx, folio)
	if err != nil {
		return nil, err
	}
	if inv.Status == entity.StatusDeleted {
		return nil, domain.Conflict("folio", folio, domain.LocationParams, "la factura ya está eliminada")
	}
	if err := uc.invoiceRepo.UpdateStatus(ctx, folio, entity.StatusDeleted); err != nil {
		return nil, fmt.Errorf("eliminar factura: %w", err)
	}
	inv.Status = entity.StatusDeleted
	uc.log.Info().Int64("folio", folio).Msg("factura eliminada")
	return toInvoiceResponse(inv), nil
}

// Update reemplaza todos los campos y líneas de la factura. Repite cada validación de Create
// y además exige que el estado exista.
func (uc *InvoiceUseCase) Update(ctx context.Context, folio int64, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	current, err := uc.mustGet(ctx, folio)
	if err != nil {
		return nil, err
	}
	refs, err := uc.validate(ctx, in.CreateInvoiceRequest)
	if err != nil {
		return nil, err
	}
	if _, err := uc.refs.Require(ctx, entity.KindStatus, in.Status, "estado", domain.LocationBody); err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		Folio:            folio,
		NetPayment:       in.NetPayment,
		VAT:              in.VAT,
		IssuedAt:         current.IssuedAt,
		IssuerRUT:        current.IssuerRUT,
		ReceiverRUT:      in.ReceiverRUT,
		BusinessLineCode: in.BusinessLineCode,
		DocumentPath:     current.DocumentPath,
		Status:           in.Status,
		UserEmail:        in.UserEmail,
		VATExempt:        in.VATExempt,
		Lines:            withFolio(refs.lines, folio),
	}
	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.WorkOrderRepository) error {
		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		return invoiceRepo.ReplaceLines(ctx, folio, inv.Lines)
	})
	if err != nil {
		return nil, fmt.Errorf("actualizar factura: %w", err)
	}
	uc.log.Info().Int64("folio", folio).Str("estado", inv.Status).Msg("factura actualizada")

	uc.render(ctx, inv, refs)
	return toInvoiceResponse(inv), nil
}

// Document devuelve el PDF almacenado de la factura.
func (uc *InvoiceUseCase) Document(ctx context.Context, folio int64) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.mustGet(ctx, folio)
	if err != nil {
		return nil, "", err
	}
	if inv.DocumentPath == "" {
		return nil, "", domain.NotFound("documento", folio, domain.LocationParams, "la factura no tiene documento generado")
	}
	pdfBytes, err = uc.renderer.Load(ctx, inv.DocumentPath)
	if err != nil {
		return nil, "", fmt.Errorf("leer documento: %w", err)
	}
	return pdfBytes, "factura_" + strconv.FormatInt(folio, 10) + ".pdf", nil
}

// validate corre las validaciones en orden fijo: receptor, giro, líneas, total, IVA, usuario.
// Se detiene en la primera falla.
func (uc *InvoiceUseCase) validate(ctx context.Context, in dto.CreateInvoiceRequest) (*invoiceRefs, error) {
	if err := validateInvoiceShape(in); err != nil {
		return nil, err
	}
	receiver, err := uc.refs.Require(ctx, entity.KindCompany, in.ReceiverRUT, "rut_receptor", domain.LocationBody)
	if err != nil {
		return nil, err
	}
	businessLine, err := uc.refs.Require(ctx, entity.KindBusinessLine, in.BusinessLineCode, "codigo_giro", domain.LocationBody)
	if err != nil {
		return nil, err
	}

	items := make([]LineItem, len(in.Lines))
	for i, l := range in.Lines {
		items[i] = LineItem{ServiceName: l.ServiceName, NetPrice: l.NetPrice}
	}
	rec, err := uc.reconciler.Reconcile(ctx, items, linesPath)
	if err != nil {
		return nil, err
	}
	if !rec.Total.Equal(in.NetPayment) {
		return nil, domain.BusinessRule(linesPath, rec.Total.String(), domain.LocationBody,
			"la suma de los precios por servicio ("+rec.Total.String()+") no coincide con el pago neto ("+in.NetPayment.String()+")")
	}
	if err := checkVAT(in.NetPayment, in.VAT, in.VATExempt); err != nil {
		return nil, err
	}
	if _, err := uc.refs.Require(ctx, entity.KindUser, in.UserEmail, "correo_usuario", domain.LocationBody); err != nil {
		return nil, err
	}
	return &invoiceRefs{receiver: receiver, businessLine: businessLine, lines: rec.Lines}, nil
}

func validateInvoiceShape(in dto.CreateInvoiceRequest) error {
	if in.VATExempt != entity.VATExemptYes && in.VATExempt != entity.VATExemptNo {
		return domain.Invalid("exento_iva", in.VATExempt, domain.LocationBody, "exento_iva debe ser yes o no")
	}
	if in.NetPayment.IsNegative() {
		return domain.Invalid("pago_neto", in.NetPayment.String(), domain.LocationBody, "el pago neto no puede ser negativo")
	}
	if in.VAT.IsNegative() {
		return domain.Invalid("iva", in.VAT.String(), domain.LocationBody, "el IVA no puede ser negativo")
	}
	if !isWholePesos(in.NetPayment) {
		return domain.Invalid("pago_neto", in.NetPayment.String(), domain.LocationBody, "el pago neto debe ser un monto entero en pesos")
	}
	if !isWholePesos(in.VAT) {
		return domain.Invalid("iva", in.VAT.String(), domain.LocationBody, "el IVA debe ser un monto entero en pesos")
	}
	if len(in.Lines) == 0 {
		return domain.Invalid(linesPath, nil, domain.LocationBody, "debe incluir al menos un servicio")
	}
	for i, l := range in.Lines {
		if !isWholePesos(l.NetPrice) {
			return domain.Invalid(linesPath+"["+strconv.Itoa(i)+"].precio_neto", l.NetPrice.String(), domain.LocationBody,
				"el precio neto debe ser un monto entero en pesos")
		}
	}
	return nil
}

// isWholePesos: los montos se guardan como NUMERIC(14,0); "100.0" es válido, "100.5" no.
func isWholePesos(v decimal.Decimal) bool {
	return v.Equal(v.Truncate(0))
}

func (uc *InvoiceUseCase) mustGet(ctx context.Context, folio int64) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, folio)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.NotFound("folio", folio, domain.LocationParams, "la factura no existe")
	}
	return inv, nil
}

// render genera el PDF después del commit. Un fallo se registra y no revierte la factura.
func (uc *InvoiceUseCase) render(ctx context.Context, inv *entity.Invoice, refs *invoiceRefs) {
	path, err := uc.renderer.RenderInvoice(ctx, InvoiceDocument{
		Invoice:          inv,
		IssuerName:       uc.issuer.Name,
		ReceiverName:     refs.receiver.Name,
		BusinessLineName: refs.businessLine.Name,
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("folio", inv.Folio).Msg("no se pudo generar el PDF de la factura")
		return
	}
	if err := uc.invoiceRepo.UpdateDocument(ctx, inv.Folio, path); err != nil {
		uc.log.Warn().Err(err).Int64("folio", inv.Folio).Msg("no se pudo registrar la ruta del PDF")
		return
	}
	inv.DocumentPath = path
}

func withFolio(lines []entity.InvoiceLine, folio int64) []entity.InvoiceLine {
	out := make([]entity.InvoiceLine, len(lines))
	for i, l := range lines {
		l.Folio = folio
		out[i] = l
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		Folio:            inv.Folio,
		NetPayment:       inv.NetPayment,
		VAT:              inv.VAT,
		IssuedAt:         inv.IssuedAt,
		IssuerRUT:        inv.IssuerRUT,
		ReceiverRUT:      inv.ReceiverRUT,
		BusinessLineCode: inv.BusinessLineCode,
		DocumentPath:     nullableString(inv.DocumentPath),
		Status:           inv.Status,
		UserEmail:        inv.UserEmail,
		VATExempt:        inv.VATExempt,
		Lines:            make([]dto.InvoiceLineResponse, 0, len(inv.Lines)),
	}
	for _, l := range inv.Lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{ServiceName: l.ServiceName, NetPrice: l.NetPrice})
	}
	return resp
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
