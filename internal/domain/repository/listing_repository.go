package repository

import (
	"context"

	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
)

// ListingRepository persists property listings.
type ListingRepository interface {
	Create(ctx context.Context, l *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	List(ctx context.Context, city string, limit, offset int) ([]*entity.Listing, error)
	Update(ctx context.Context, l *entity.Listing) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// RatingRepository persists star ratings, one per (listing, user).
type RatingRepository interface {
	Upsert(ctx context.Context, r *entity.Rating) error
	Summary(ctx context.Context, listingID string) (avg float64, count int, err error)
}
