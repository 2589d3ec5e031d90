package billing

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// ── referencias ───────────────────────────────────────────────────────────────

type fakeRefs struct {
	data    map[entity.ReferenceKind]map[string]entity.Reference
	lookups []string // "kind:key" en orden de consulta
}

func newFakeRefs() *fakeRefs {
	r := &fakeRefs{data: map[entity.ReferenceKind]map[string]entity.Reference{}}
	r.add(entity.KindCompany, "76.000.000-1", "Cliente SpA", "")
	r.add(entity.KindBusinessLine, "620100", "Servicios informáticos", "")
	r.add(entity.KindUser, "ana@empresa.cl", "Ana", "")
	r.add(entity.KindService, "Mantención", "Mantención", "")
	r.add(entity.KindService, "Instalación", "Instalación", "")
	r.add(entity.KindService, "Soporte", "Soporte", "")
	r.add(entity.KindStatus, entity.StatusActive, entity.StatusActive, "")
	r.add(entity.KindStatus, entity.StatusDeleted, entity.StatusDeleted, "")
	r.add(entity.KindProvince, "131", "Santiago", "13")
	r.add(entity.KindProvince, "132", "Cordillera", "13")
	r.add(entity.KindCommune, "13101", "Santiago", "131")
	r.add(entity.KindCommune, "13201", "Puente Alto", "132")
	return r
}

func (r *fakeRefs) add(kind entity.ReferenceKind, key, name, parent string) {
	if r.data[kind] == nil {
		r.data[kind] = map[string]entity.Reference{}
	}
	r.data[kind][key] = entity.Reference{Kind: kind, Key: key, Name: name, ParentKey: parent}
}

func (r *fakeRefs) Lookup(_ context.Context, kind entity.ReferenceKind, key string) (*entity.Reference, error) {
	r.lookups = append(r.lookups, string(kind)+":"+key)
	ref, ok := r.data[kind][key]
	if !ok {
		return nil, nil
	}
	return &ref, nil
}

// ── facturas ──────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	rows      map[int64]*entity.Invoice
	nextFolio int64
	writes    int
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{rows: map[int64]*entity.Invoice{}, nextFolio: 1}
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.Lines = append([]entity.InvoiceLine{}, inv.Lines...)
	return &c
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.writes++
	inv.Folio = r.nextFolio
	r.nextFolio++
	r.rows[inv.Folio] = cloneInvoice(inv)
	return nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.writes++
	cur, ok := r.rows[inv.Folio]
	if !ok {
		return domain.ErrNotFound
	}
	lines := cur.Lines
	r.rows[inv.Folio] = cloneInvoice(inv)
	r.rows[inv.Folio].Lines = lines
	return nil
}

func (r *fakeInvoiceRepo) UpdateStatus(_ context.Context, folio int64, status string) error {
	r.writes++
	r.rows[folio].Status = status
	return nil
}

func (r *fakeInvoiceRepo) UpdateDocument(_ context.Context, folio int64, path string) error {
	r.rows[folio].DocumentPath = path
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, folio int64) (*entity.Invoice, error) {
	inv, ok := r.rows[folio]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *fakeInvoiceRepo) ListByStatus(_ context.Context, status string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.rows {
		if inv.Status == status {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Folio < out[j].Folio })
	return out, nil
}

func (r *fakeInvoiceRepo) ReplaceLines(_ context.Context, folio int64, lines []entity.InvoiceLine) error {
	r.writes++
	r.rows[folio].Lines = append([]entity.InvoiceLine{}, lines...)
	return nil
}

// ── órdenes de trabajo ────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	rows   map[int64]*entity.WorkOrder
	writes int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{rows: map[int64]*entity.WorkOrder{}}
}

func cloneOrder(o *entity.WorkOrder) *entity.WorkOrder {
	c := *o
	c.Services = append([]string{}, o.Services...)
	return &c
}

func (r *fakeOrderRepo) Create(_ context.Context, o *entity.WorkOrder) error {
	r.writes++
	if _, ok := r.rows[o.Folio]; ok {
		return fmt.Errorf("insert orden %d: %w", o.Folio, domain.ErrConflict)
	}
	r.rows[o.Folio] = cloneOrder(o)
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *entity.WorkOrder) error {
	r.writes++
	cur, ok := r.rows[o.Folio]
	if !ok {
		return domain.ErrNotFound
	}
	services := cur.Services
	r.rows[o.Folio] = cloneOrder(o)
	r.rows[o.Folio].Services = services
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, folio int64, status string) error {
	r.writes++
	r.rows[folio].Status = status
	return nil
}

func (r *fakeOrderRepo) UpdateDocument(_ context.Context, folio int64, path string) error {
	r.rows[folio].DocumentPath = path
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, folio int64) (*entity.WorkOrder, error) {
	o, ok := r.rows[folio]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) ListByStatus(_ context.Context, status string) ([]*entity.WorkOrder, error) {
	var out []*entity.WorkOrder
	for _, o := range r.rows {
		if o.Status == status {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Folio < out[j].Folio })
	return out, nil
}

func (r *fakeOrderRepo) ReplaceServices(_ context.Context, folio int64, services []string) error {
	r.writes++
	r.rows[folio].Services = append([]string{}, services...)
	return nil
}

// ── transacción y renderizador ────────────────────────────────────────────────

type fakeTx struct {
	invoices repository.InvoiceRepository
	orders   repository.WorkOrderRepository
	runs     int
}

func (t *fakeTx) RunBilling(_ context.Context, fn func(repository.InvoiceRepository, repository.WorkOrderRepository) error) error {
	t.runs++
	return fn(t.invoices, t.orders)
}

type fakeRenderer struct {
	err      error
	rendered []string
	files    map[string][]byte
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{files: map[string][]byte{}}
}

func (r *fakeRenderer) RenderInvoice(_ context.Context, doc InvoiceDocument) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	path := "facturas/factura_" + strconv.FormatInt(doc.Invoice.Folio, 10) + ".pdf"
	r.rendered = append(r.rendered, path)
	r.files[path] = []byte("%PDF factura " + doc.ReceiverName)
	return path, nil
}

func (r *fakeRenderer) RenderWorkOrder(_ context.Context, doc WorkOrderDocument) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	path := "ordenes_trabajo/orden_" + strconv.FormatInt(doc.Order.Folio, 10) + ".pdf"
	r.rendered = append(r.rendered, path)
	r.files[path] = []byte("%PDF orden " + doc.CommuneName)
	return path, nil
}

func (r *fakeRenderer) Load(_ context.Context, path string) ([]byte, error) {
	b, ok := r.files[path]
	if !ok {
		return nil, fmt.Errorf("no existe %s", path)
	}
	return b, nil
}

// ── armado ────────────────────────────────────────────────────────────────────

type invoiceFixture struct {
	uc       *InvoiceUseCase
	refs     *fakeRefs
	repo     *fakeInvoiceRepo
	tx       *fakeTx
	renderer *fakeRenderer
}

func newInvoiceFixture() *invoiceFixture {
	refs := newFakeRefs()
	repo := newFakeInvoiceRepo()
	tx := &fakeTx{invoices: repo, orders: newFakeOrderRepo()}
	renderer := newFakeRenderer()
	uc := NewInvoiceUseCase(tx, repo, NewReferenceValidator(refs), renderer,
		IssuerConfig{RUT: "76.123.456-7", Name: "Emisor Ltda."}, zerolog.Nop())
	return &invoiceFixture{uc: uc, refs: refs, repo: repo, tx: tx, renderer: renderer}
}

type orderFixture struct {
	uc       *WorkOrderUseCase
	refs     *fakeRefs
	repo     *fakeOrderRepo
	tx       *fakeTx
	renderer *fakeRenderer
}

func newOrderFixture() *orderFixture {
	refs := newFakeRefs()
	repo := newFakeOrderRepo()
	tx := &fakeTx{invoices: newFakeInvoiceRepo(), orders: repo}
	renderer := newFakeRenderer()
	uc := NewWorkOrderUseCase(tx, repo, NewReferenceValidator(refs), renderer, zerolog.Nop())
	return &orderFixture{uc: uc, refs: refs, repo: repo, tx: tx, renderer: renderer}
}
