package repository

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// ReferenceRepository consulta las tablas de referencia por clave natural.
// Devuelve (nil, nil) si la clave no existe.
type ReferenceRepository interface {
	Lookup(ctx context.Context, kind entity.ReferenceKind, key string) (*entity.Reference, error)
}
