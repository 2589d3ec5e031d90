package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var notFoundMessages = map[entity.ReferenceKind]string{
	entity.KindCompany:      "la empresa no existe",
	entity.KindService:      "el servicio no existe",
	entity.KindBusinessLine: "el giro no existe",
	entity.KindRegion:       "la región no existe",
	entity.KindProvince:     "la provincia no existe",
	entity.KindCommune:      "la comuna no existe",
	entity.KindUser:         "el usuario no existe",
	entity.KindStatus:       "el estado no existe",
}

// ReferenceValidator confirma que una clave foránea existe en su tabla de referencia.
type ReferenceValidator struct {
	repo repository.ReferenceRepository
}

// NewReferenceValidator construye el validador.
func NewReferenceValidator(repo repository.ReferenceRepository) *ReferenceValidator {
	return &ReferenceValidator{repo: repo}
}

// Require devuelve el registro de referencia o un error NotFound que identifica
// el campo (path), el valor entregado y su ubicación.
func (v *ReferenceValidator) Require(ctx context.Context, kind entity.ReferenceKind, key, path, location string) (*entity.Reference, error) {
	ref, err := v.repo.Lookup(ctx, kind, key)
	if err != nil {
		return nil, fmt.Errorf("buscar %s %q: %w", kind, key, err)
	}
	if ref == nil {
		return nil, domain.NotFound(path, key, location, notFoundMessages[kind])
	}
	return ref, nil
}
