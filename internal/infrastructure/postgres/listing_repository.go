package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
	"github.com/gharbhada/gharbhada-api/internal/domain/repository"
)

// ListingRepository is the Postgres-backed listing store.
type ListingRepository struct {
	db querier
}

func NewListingRepository(db querier) *ListingRepository {
	return &ListingRepository{db: db}
}

const listingColumns = `id, owner_id, title, description, city, address, price_per_month, bedrooms, property_type, status, photo_url, created_at, updated_at`

func (r *ListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO listings (owner_id, title, description, city, address, price_per_month, bedrooms, property_type, status, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, l.OwnerID, l.Title, l.Description, l.City, l.Address, l.PricePerMonth, l.Bedrooms, l.PropertyType, l.Status, l.PhotoURL)
	return row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	l := &entity.Listing{}
	row := r.db.QueryRow(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE id = $1
	`, id)
	if err := scanListing(row, l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *ListingRepository) List(ctx context.Context, city string, limit, offset int) ([]*entity.Listing, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if city != "" {
		rows, err = r.db.Query(ctx, `
			SELECT `+listingColumns+`
			FROM listings
			WHERE status = 'available' AND lower(city) = lower($1)
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, city, limit, offset)
	} else {
		rows, err = r.db.Query(ctx, `
			SELECT `+listingColumns+`
			FROM listings
			WHERE status = 'available'
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Listing
	for rows.Next() {
		l := &entity.Listing{}
		if err := scanListing(rows, l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *ListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	l.UpdatedAt = time.Now()
	res, err := r.db.Exec(ctx, `
		UPDATE listings
		SET title = $1, description = $2, city = $3, address = $4, price_per_month = $5,
		    bedrooms = $6, property_type = $7, photo_url = $8, updated_at = $9
		WHERE id = $10
	`, l.Title, l.Description, l.City, l.Address, l.PricePerMonth, l.Bedrooms, l.PropertyType, l.PhotoURL, l.UpdatedAt, l.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE listings
		SET status = $1, updated_at = now()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanListing(row pgx.Row, l *entity.Listing) error {
	return row.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.City, &l.Address,
		&l.PricePerMonth, &l.Bedrooms, &l.PropertyType, &l.Status, &l.PhotoURL,
		&l.CreatedAt, &l.UpdatedAt)
}

var _ repository.ListingRepository = (*ListingRepository)(nil)
