package repository

import (
	"context"

	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
)

// ReportRepository persists fraud reports against listings.
type ReportRepository interface {
	Create(ctx context.Context, r *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Report, error)
	Resolve(ctx context.Context, id, adminID string) error
	Delete(ctx context.Context, id string) error
}
