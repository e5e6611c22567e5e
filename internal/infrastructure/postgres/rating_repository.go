package postgres

import (
	"context"

	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
	"github.com/gharbhada/gharbhada-api/internal/domain/repository"
)

// RatingRepository stores one rating per (listing, user); Upsert
// overwrites on conflict.
type RatingRepository struct {
	db querier
}

func NewRatingRepository(db querier) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Upsert(ctx context.Context, rt *entity.Rating) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO ratings (listing_id, user_id, stars, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (listing_id, user_id)
		DO UPDATE SET stars = EXCLUDED.stars, comment = EXCLUDED.comment, updated_at = now()
		RETURNING created_at, updated_at
	`, rt.ListingID, rt.UserID, rt.Stars, rt.Comment)
	return row.Scan(&rt.CreatedAt, &rt.UpdatedAt)
}

func (r *RatingRepository) Summary(ctx context.Context, listingID string) (float64, int, error) {
	var avg float64
	var count int
	row := r.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(stars), 0), COUNT(*)
		FROM ratings
		WHERE listing_id = $1
	`, listingID)
	if err := row.Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

var _ repository.RatingRepository = (*RatingRepository)(nil)
