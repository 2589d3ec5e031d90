package repository

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// WorkOrderRepository define el puerto de persistencia para órdenes de trabajo.
type WorkOrderRepository interface {
	Create(ctx context.Context, order *entity.WorkOrder) error
	Update(ctx context.Context, order *entity.WorkOrder) error
	UpdateStatus(ctx context.Context, folio int64, status string) error
	UpdateDocument(ctx context.Context, folio int64, path string) error
	GetByID(ctx context.Context, folio int64) (*entity.WorkOrder, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.WorkOrder, error)
	ReplaceServices(ctx context.Context, folio int64, services []string) error
}
