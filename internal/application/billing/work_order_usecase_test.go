package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

func validOrderFields() dto.WorkOrderFields {
	return dto.WorkOrderFields{
		RequestedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DeliveryAt:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Observation: "Acceso por portería",
		ClientRUT:   "76.000.000-1",
		Address:     "Av. Siempre Viva 742",
		ProvinceID:  131,
		CommuneID:   13101,
		Description: "Revisión de equipos",
		Services:    []string{"Mantención", "Soporte"},
	}
}

func validOrderRequest(folio int64) dto.CreateWorkOrderRequest {
	return dto.CreateWorkOrderRequest{Folio: folio, WorkOrderFields: validOrderFields()}
}

func TestWorkOrderCreate_Success(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	out, err := f.uc.Create(ctx, validOrderRequest(100))
	require.NoError(t, err)
	assert.Equal(t, int64(100), out.Folio)
	assert.Equal(t, entity.StatusActive, out.Status)
	assert.Equal(t, []string{"Mantención", "Soporte"}, out.Services)
	require.NotNil(t, out.DocumentPath)

	got, err := f.uc.GetByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, out, got)

	data, name, err := f.uc.Document(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "orden_trabajo_100.pdf", name)
	assert.Equal(t, "%PDF orden Santiago", string(data))
}

func TestWorkOrderCreate_FolioConflictBeforeReferences(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	_, err := f.uc.Create(ctx, validOrderRequest(7))
	require.NoError(t, err)

	f.refs.lookups = nil
	in := validOrderRequest(7)
	in.ClientRUT = "99.999.999-9" // también inválido, pero el conflicto gana

	_, err = f.uc.Create(ctx, in)
	requireViolation(t, err, domain.ErrConflict, "folio")
	assert.Empty(t, f.refs.lookups)
}

func TestWorkOrderCreate_InvalidFolio(t *testing.T) {
	f := newOrderFixture()
	_, err := f.uc.Create(context.Background(), validOrderRequest(0))
	requireViolation(t, err, domain.ErrInvalidInput, "folio")
}

func TestWorkOrderCreate_ReferenceChecks(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	in := validOrderRequest(1)
	in.ClientRUT = "99.999.999-9"
	_, err := f.uc.Create(ctx, in)
	requireViolation(t, err, domain.ErrNotFound, "rut_cliente")

	in = validOrderRequest(1)
	in.ProvinceID = 999
	_, err = f.uc.Create(ctx, in)
	requireViolation(t, err, domain.ErrNotFound, "id_provincia")

	in = validOrderRequest(1)
	in.CommuneID = 99999
	_, err = f.uc.Create(ctx, in)
	requireViolation(t, err, domain.ErrNotFound, "id_comuna")

	in = validOrderRequest(1)
	in.CommuneID = 13201 // Puente Alto pertenece a Cordillera
	_, err = f.uc.Create(ctx, in)
	requireViolation(t, err, domain.ErrBusinessRule, "id_comuna")

	assert.Zero(t, f.repo.writes)
}

func TestWorkOrderCreate_DuplicateServiceBeforeExistence(t *testing.T) {
	f := newOrderFixture()
	in := validOrderRequest(3)
	in.Services = []string{"Pintura", "Soporte", "Soporte"}

	_, err := f.uc.Create(context.Background(), in)
	requireViolation(t, err, domain.ErrBusinessRule, "servicios")
	assert.NotContains(t, f.refs.lookups, "servicio:Pintura")
}

func TestWorkOrderCreate_MissingDates(t *testing.T) {
	f := newOrderFixture()
	in := validOrderRequest(3)
	in.DeliveryAt = time.Time{}

	_, err := f.uc.Create(context.Background(), in)
	requireViolation(t, err, domain.ErrInvalidInput, "fecha_entrega")
}

func TestWorkOrderUpdate(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	upd := dto.UpdateWorkOrderRequest{WorkOrderFields: validOrderFields(), Status: entity.StatusActive}
	_, err := f.uc.Update(ctx, 50, upd)
	requireViolation(t, err, domain.ErrNotFound, "folio")

	_, err = f.uc.Create(ctx, validOrderRequest(50))
	require.NoError(t, err)

	upd.Services = []string{"Instalación"}
	upd.Description = "Cambio de equipo"
	out, err := f.uc.Update(ctx, 50, upd)
	require.NoError(t, err)
	assert.Equal(t, []string{"Instalación"}, out.Services)

	got, err := f.uc.GetByID(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, "Cambio de equipo", got.Description)
	assert.Equal(t, []string{"Instalación"}, got.Services)
}

func TestWorkOrderDeleteAndLists(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	_, err := f.uc.GetAllDeleted(ctx)
	requireViolation(t, err, domain.ErrNotFound, "estado")

	_, err = f.uc.Create(ctx, validOrderRequest(1))
	require.NoError(t, err)

	out, err := f.uc.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDeleted, out.Status)

	_, err = f.uc.Delete(ctx, 1)
	requireViolation(t, err, domain.ErrConflict, "folio")

	_, err = f.uc.GetAll(ctx)
	requireViolation(t, err, domain.ErrNotFound, "estado")

	deleted, err := f.uc.GetAllDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
}

func TestWorkOrderUpdate_DuplicateServiceBeforeExistence(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	_, err := f.uc.Create(ctx, validOrderRequest(60))
	require.NoError(t, err)
	f.refs.lookups = nil
	writes := f.repo.writes

	upd := dto.UpdateWorkOrderRequest{WorkOrderFields: validOrderFields(), Status: entity.StatusActive}
	upd.Services = []string{"Pintura", "Soporte", "Pintura"}
	_, err = f.uc.Update(ctx, 60, upd)

	v := requireViolation(t, err, domain.ErrBusinessRule, "servicios")
	assert.Equal(t, "Pintura", v.Value)
	assert.NotContains(t, f.refs.lookups, "servicio:Pintura")
	assert.Equal(t, writes, f.repo.writes)

	got, err := f.uc.GetByID(ctx, 60)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mantención", "Soporte"}, got.Services)
}

func TestWorkOrderCreate_DatesMatchStoredPrecision(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	santiago := time.FixedZone("CLT", -4*60*60)
	in := validOrderRequest(70)
	in.RequestedAt = time.Date(2024, 6, 3, 8, 0, 0, 987654321, santiago)

	out, err := f.uc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 12, 0, 0, 987654000, time.UTC), out.RequestedAt)

	got, err := f.uc.GetByID(ctx, 70)
	require.NoError(t, err)
	assert.Equal(t, out, got)
}
