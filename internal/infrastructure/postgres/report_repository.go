package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
	"github.com/gharbhada/gharbhada-api/internal/domain/repository"
)

// ReportRepository is the Postgres-backed fraud report store.
type ReportRepository struct {
	db querier
}

func NewReportRepository(db querier) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, listing_id, reporter_id, reason, details, status, COALESCE(resolved_by::text, ''), created_at, resolved_at`

func (r *ReportRepository) Create(ctx context.Context, rp *entity.Report) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO reports (listing_id, reporter_id, reason, details, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rp.ListingID, rp.ReporterID, rp.Reason, rp.Details, rp.Status)
	return row.Scan(&rp.ID, &rp.CreatedAt)
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	rp := &entity.Report{}
	row := r.db.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE id = $1
	`, id)
	if err := scanReport(row, rp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rp, nil
}

func (r *ReportRepository) List(ctx context.Context, status string, limit, offset int) ([]*entity.Report, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != "" {
		rows, err = r.db.Query(ctx, `
			SELECT `+reportColumns+`
			FROM reports
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, status, limit, offset)
	} else {
		rows, err = r.db.Query(ctx, `
			SELECT `+reportColumns+`
			FROM reports
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Report
	for rows.Next() {
		rp := &entity.Report{}
		if err := scanReport(rows, rp); err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}

func (r *ReportRepository) Resolve(ctx context.Context, id, adminID string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE reports
		SET status = 'resolved', resolved_by = $1, resolved_at = now()
		WHERE id = $2 AND status = 'open'
	`, adminID, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanReport(row pgx.Row, rp *entity.Report) error {
	return row.Scan(&rp.ID, &rp.ListingID, &rp.ReporterID, &rp.Reason, &rp.Details,
		&rp.Status, &rp.ResolvedBy, &rp.CreatedAt, &rp.ResolvedAt)
}

var _ repository.ReportRepository = (*ReportRepository)(nil)
