package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// referenceTable describe dónde vive cada tipo de referencia.
type referenceTable struct {
	table     string
	keyCol    string
	nameCol   string
	parentCol string
	intKey    bool
}

var referenceTables = map[entity.ReferenceKind]referenceTable{
	entity.KindCompany:      {table: "empresas", keyCol: "rut", nameCol: "razon_social"},
	entity.KindService:      {table: "servicios", keyCol: "nombre", nameCol: "nombre"},
	entity.KindBusinessLine: {table: "giros", keyCol: "codigo", nameCol: "descripcion"},
	entity.KindRegion:       {table: "regiones", keyCol: "id", nameCol: "nombre", intKey: true},
	entity.KindProvince:     {table: "provincias", keyCol: "id", nameCol: "nombre", parentCol: "id_region", intKey: true},
	entity.KindCommune:      {table: "comunas", keyCol: "id", nameCol: "nombre", parentCol: "id_provincia", intKey: true},
	entity.KindUser:         {table: "usuarios", keyCol: "correo", nameCol: "nombre"},
	entity.KindStatus:       {table: "estados", keyCol: "nombre", nameCol: "nombre"},
}

// ReferenceRepo consulta tablas de referencia (empresas, servicios, giros, división geográfica,
// usuarios, estados) por igualdad de clave.
type ReferenceRepo struct {
	q Querier
}

// NewReferenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReferenceRepository(q Querier) *ReferenceRepo {
	return &ReferenceRepo{q: q}
}

// Lookup busca una clave en la tabla del tipo indicado; (nil, nil) si no existe.
func (r *ReferenceRepo) Lookup(ctx context.Context, kind entity.ReferenceKind, key string) (*entity.Reference, error) {
	t, ok := referenceTables[kind]
	if !ok {
		return nil, fmt.Errorf("tipo de referencia desconocido: %s", kind)
	}
	arg, ok := t.keyArg(key)
	if !ok {
		return nil, nil
	}

	ref := entity.Reference{Kind: kind}
	err := r.q.QueryRow(ctx, t.lookupQuery(), arg).Scan(&ref.Key, &ref.Name, &ref.ParentKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup %s: %w", kind, err)
	}
	return &ref, nil
}

// lookupQuery compara la clave con su tipo nativo para que use el índice de la PK.
// Los nombres de tabla y columna vienen del mapa fijo, nunca del cliente.
func (t referenceTable) lookupQuery() string {
	parentExpr := "''"
	if t.parentCol != "" {
		parentExpr = fmt.Sprintf("COALESCE(%s::text, '')", t.parentCol)
	}
	return fmt.Sprintf(`SELECT %s::text, %s::text, %s FROM %s WHERE %s = $1`,
		t.keyCol, t.nameCol, parentExpr, t.table, t.keyCol)
}

// keyArg convierte la clave al tipo de la columna. Una clave no numérica para una tabla
// con id entero no puede existir.
func (t referenceTable) keyArg(key string) (any, bool) {
	if !t.intKey {
		return key, true
	}
	id, err := strconv.ParseInt(key, 10, 32)
	if err != nil {
		return nil, false
	}
	return int32(id), true
}
